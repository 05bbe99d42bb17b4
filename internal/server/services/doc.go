// Package services contains the QuickQR backend's business logic: accounts
// and access tokens, saved codes with their ownership rules, dynamic code
// resolution with scan logging, and presigned logo uploads.
//
// Services return the sentinels from internal/common; the HTTP layer maps
// them to status codes.
package services

// Package common contains shared constants, sentinel errors and small helpers
// used by both the QuickQR client and the reference backend.
package common

// AuthorizationHeader carries the bearer access token on API requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// RedirectPathPrefix is the path under which dynamic codes are resolved.
const RedirectPathPrefix = "/code/"

// CodeIDBytes is the amount of randomness in a generated code id. Ids are
// embedded into dynamic QR symbols, so they are kept short.
const CodeIDBytes = 5

// Package models defines the records stored by the QuickQR backend.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	IsAdmin      bool
	CreatedAt    time.Time
}

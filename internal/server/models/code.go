package models

import "time"

// Code is a saved QR code. Content and Styling are the JSON documents sent
// by the client and are stored as is; Styling may be nil.
type Code struct {
	ID        string
	OwnerID   string
	Name      string
	Type      string
	Content   []byte
	Styling   []byte
	Mode      string
	ScanCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	ModeStatic  = "static"
	ModeDynamic = "dynamic"
)

// CodePatch holds the optional fields of an update. Nil means unchanged.
type CodePatch struct {
	Name    *string
	Type    *string
	Content []byte
	// Styling is written when StylingSet is true; nil stores NULL.
	Styling    []byte
	StylingSet bool
}

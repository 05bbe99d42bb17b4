// Package models defines the records the QuickQR client keeps locally.
package models

import "time"

// Draft is an unsaved editor state persisted under a user-chosen name.
// Content and Styling hold the same JSON documents that are sent to the
// backend, so a draft can be restored even after the style schema grows.
type Draft struct {
	Name string
	// CodeID is set when the draft was taken from an already saved code.
	CodeID    string
	Type      string
	Content   []byte
	Styling   []byte
	Mode      string
	UpdatedAt time.Time
}

// Package shared holds the JSON documents exchanged between the QuickQR
// client and the backend. Both sides import it so the wire contract lives in
// one place.
package shared

import (
	"encoding/json"
	"time"
)

// Credentials is the body of register and login requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Code is a saved QR code as sent over the wire. Content and Styling are
// opaque JSON documents; Styling may be null.
type Code struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	Styling   json.RawMessage `json:"styling"`
	Mode      string          `json:"mode"`
	ScanCount int64           `json:"scanCount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CreateCodeRequest struct {
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
	Type    string          `json:"type"`
	Styling json.RawMessage `json:"styling,omitempty"`
	Mode    string          `json:"mode"`
}

// UpdateCodeRequest is a partial update: nil fields are left unchanged.
type UpdateCodeRequest struct {
	Name    *string          `json:"name,omitempty"`
	Content *json.RawMessage `json:"content,omitempty"`
	Type    *string          `json:"type,omitempty"`
	Styling *json.RawMessage `json:"styling,omitempty"`
	Mode    *string          `json:"mode,omitempty"`
}

// Scan is one resolution of a dynamic code.
type Scan struct {
	ID        string    `json:"id"`
	CodeID    string    `json:"codeId"`
	Device    string    `json:"device"`
	OS        string    `json:"os"`
	Timezone  string    `json:"timezone"`
	Referrer  string    `json:"referrer"`
	ScannedAt time.Time `json:"scannedAt"`
}

type LogoUploadRequest struct {
	ContentType string `json:"contentType"`
}

// LogoUpload carries a presigned PUT address and the URL the uploaded logo
// will be readable at.
type LogoUpload struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

package models

import "time"

// Scan is one resolution of a dynamic code.
type Scan struct {
	ID        string
	CodeID    string
	Device    string
	OS        string
	Timezone  string
	Referrer  string
	ScannedAt time.Time
}

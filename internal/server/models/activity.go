package models

import "time"

// Activity actions recorded by the file service.
const (
	ActivityUpload   = "upload"
	ActivityDownload = "download"
	ActivityDelete   = "delete"
)

// Activity is an append-only audit row describing a single file operation.
type Activity struct {
	ID        string
	UserID    string
	FileName  string
	Action    string
	SizeBytes int64
	CreatedAt time.Time
}

// Package models holds the client-side data model: the normalized file
// record, upload intents, activity entries, profile and analytics payloads.
package models

import "time"

// FileRecord is the single normalized shape for a stored file, whatever raw
// field names the backend used on a given endpoint. Key is the opaque storage
// key the backend addresses the bytes by; the client never mutates a record,
// it only requests deletion or a transfer URL for it.
type FileRecord struct {
	Key          string
	Name         string
	SizeBytes    int64
	LastModified time.Time
	OwnerID      string
}

// UploadIntent is created when the user selects a local file for upload.
// It lives only in memory and is discarded after a successful upload or
// explicit removal.
type UploadIntent struct {
	ID          string
	Path        string
	Name        string
	SizeBytes   int64
	ContentType string
}

// Activity actions as reported by the backend.
const (
	ActionUpload   = "upload"
	ActionDownload = "download"
	ActionDelete   = "delete"
)

// ActivityEntry is a read-only, backend-produced history row. It is used for
// display, filtering and sorting only.
type ActivityEntry struct {
	FileName  string    `json:"fileName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size"`
}

type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type TrendPoint struct {
	Date      time.Time `json:"date"`
	Uploads   int       `json:"uploads"`
	Downloads int       `json:"downloads"`
}

type TypeUsage struct {
	Type      string `json:"type"`
	SizeBytes int64  `json:"size"`
}

// Analytics is pre-computed by the backend; the client only renders it.
type Analytics struct {
	TotalFiles     int          `json:"totalFiles"`
	TotalSizeBytes int64        `json:"totalSize"`
	UploadTrend    []TrendPoint `json:"uploadTrend"`
	StorageByType  []TypeUsage  `json:"storageByType"`
}

// UploadTicket is what the backend returns when asked for an upload URL:
// the presigned transfer URL plus the storage key the bytes will live under.
type UploadTicket struct {
	UploadURL  string
	StorageKey string
}

// Package models defines server-side data models persisted in the database.
package models

import "time"

// Upload states tracked per file row. A row is created in "pending" state
// when a presigned URL is issued and becomes "completed" once the client
// registers the uploaded metadata. Pending rows older than a cutoff can be
// reaped without risk: their bytes either never arrived or were abandoned.
const (
	UploadStatusPending   = "pending"
	UploadStatusCompleted = "completed"
)

// File describes server-side metadata for a stored object. The bytes
// themselves live in object storage under StorageKey.
type File struct {
	ID          string
	UserID      string
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64

	// UploadStatus is one of the UploadStatus* constants.
	UploadStatus string
	UploadedAt   time.Time
}

package api

import (
	"path"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
)

// rawFileRecord covers every field-name variant the backend uses for the same
// logical record. The listing endpoint speaks the metadata-store dialect
// (fileName/s3Key/uploadedAt) while other endpoints return key/lastModified.
type rawFileRecord struct {
	Key          string `json:"key"`
	S3Key        string `json:"s3Key"`
	FileName     string `json:"fileName"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
	UploadedAt   string `json:"uploadedAt"`
	UserID       string `json:"userId"`
	UserEmail    string `json:"userEmail"`
}

// normalizeFileRecord maps a raw backend record into the one FileRecord shape
// view code is allowed to see. Identifier resolution order: key, s3Key,
// fileName. Records without any identifier are unusable and are dropped by
// the caller.
func normalizeFileRecord(raw rawFileRecord) (models.FileRecord, bool) {
	key := firstNonEmpty(raw.Key, raw.S3Key, raw.FileName)
	if key == "" {
		return models.FileRecord{}, false
	}

	name := raw.FileName
	if name == "" {
		name = path.Base(key)
	}

	return models.FileRecord{
		Key:          key,
		Name:         name,
		SizeBytes:    raw.Size,
		LastModified: parseTimestamp(firstNonEmpty(raw.LastModified, raw.UploadedAt)),
		OwnerID:      firstNonEmpty(raw.UserID, raw.UserEmail),
	}, true
}

func normalizeFileRecords(raws []rawFileRecord) []models.FileRecord {
	out := make([]models.FileRecord, 0, len(raws))
	for _, raw := range raws {
		if rec, ok := normalizeFileRecord(raw); ok {
			out = append(out, rec)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

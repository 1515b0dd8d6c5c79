// Package api is the resource gateway: one typed operation per backend
// capability, each a single request/response call over the REST invoke
// endpoint. No retries, no caching; every view re-fetches on mount.
package api

import (
	"context"
	"io"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// Gateway is the full backend surface the client uses.
//
// The session is passed explicitly to every authenticated call; the gateway
// never reads shared mutable state itself. Calls with an incomplete session
// fail fast with common.ErrUnauthenticated before any network I/O. All
// network-level and non-2xx failures surface as common.ErrRequestFailed.
type Gateway interface {
	// Unauthenticated identity-provider calls.
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password, fullName string) error

	// File storage.
	ListFiles(ctx context.Context, sess session.Session) ([]models.FileRecord, error)
	RequestUploadURL(ctx context.Context, sess session.Session, fileName, contentType string) (models.UploadTicket, error)
	UploadBytes(ctx context.Context, uploadURL string, body io.Reader, contentType string) error
	ConfirmUpload(ctx context.Context, sess session.Session, storageKey string, sizeBytes int64, uploadedAt time.Time) error
	RequestDownloadURL(ctx context.Context, sess session.Session, storageKey string) (string, error)
	DownloadBytes(ctx context.Context, downloadURL string, w io.Writer) (int64, error)
	DeleteFile(ctx context.Context, sess session.Session, storageKey string) error

	// Account.
	FetchProfile(ctx context.Context, sess session.Session) (models.Profile, error)
	UpdateProfile(ctx context.Context, sess session.Session, fullName string) (models.Profile, error)

	// Pre-computed reporting.
	FetchAnalytics(ctx context.Context, sess session.Session) (models.Analytics, error)
	FetchActivity(ctx context.Context, sess session.Session) ([]models.ActivityEntry, error)
}

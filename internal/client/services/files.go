package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// seams for tests
var (
	openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	nowFn    = time.Now
)

// UploadResult reports the outcome of one intent. Intents are processed
// independently: one failure never stops the rest of the batch.
type UploadResult struct {
	IntentID   string
	Name       string
	StorageKey string
	Err        error
}

// FileService backs the file-management and upload views.
type FileService interface {
	List(ctx context.Context, sess session.Session) ([]models.FileRecord, error)
	Upload(ctx context.Context, sess session.Session, intents []models.UploadIntent) []UploadResult
	Download(ctx context.Context, sess session.Session, storageKey, destDir string) (string, error)
	Delete(ctx context.Context, sess session.Session, storageKey string, current []models.FileRecord) ([]models.FileRecord, error)
}

type fileService struct {
	gateway api.Gateway
}

func NewFileService(gateway api.Gateway) FileService {
	return &fileService{gateway: gateway}
}

func (s *fileService) List(ctx context.Context, sess session.Session) ([]models.FileRecord, error) {
	files, err := s.gateway.ListFiles(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

// Upload runs the three-step protocol per intent: obtain a transfer URL,
// PUT the bytes directly to storage, then register the metadata record.
// There is no atomicity across the steps; if the byte transfer fails the
// metadata call is never made, so no record can exist without its object.
func (s *fileService) Upload(ctx context.Context, sess session.Session, intents []models.UploadIntent) []UploadResult {
	results := make([]UploadResult, 0, len(intents))

	for _, intent := range intents {
		results = append(results, s.uploadOne(ctx, sess, intent))
	}
	return results
}

func (s *fileService) uploadOne(ctx context.Context, sess session.Session, intent models.UploadIntent) UploadResult {
	res := UploadResult{IntentID: intent.ID, Name: intent.Name}

	ticket, err := s.gateway.RequestUploadURL(ctx, sess, intent.Name, intent.ContentType)
	if err != nil {
		res.Err = fmt.Errorf("requesting upload url: %w", err)
		return res
	}
	res.StorageKey = ticket.StorageKey

	f, err := openFile(intent.Path)
	if err != nil {
		res.Err = fmt.Errorf("opening %s: %w", intent.Path, err)
		return res
	}
	defer f.Close()

	if err := s.gateway.UploadBytes(ctx, ticket.UploadURL, f, intent.ContentType); err != nil {
		res.Err = fmt.Errorf("uploading bytes: %w", err)
		return res
	}

	if err := s.gateway.ConfirmUpload(ctx, sess, ticket.StorageKey, intent.SizeBytes, nowFn()); err != nil {
		// The object is already in storage; the backend reconciles
		// unconfirmed rows, so nothing to compensate here.
		res.Err = fmt.Errorf("registering metadata: %w", err)
		return res
	}

	return res
}

// Download resolves a transfer URL for storageKey and streams the bytes into
// destDir. It returns the local path written.
func (s *fileService) Download(ctx context.Context, sess session.Session, storageKey, destDir string) (string, error) {
	url, err := s.gateway.RequestDownloadURL(ctx, sess, storageKey)
	if err != nil {
		return "", fmt.Errorf("requesting download url: %w", err)
	}

	dest := filepath.Join(destDir, path.Base(storageKey))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := s.gateway.DownloadBytes(ctx, url, f); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("downloading bytes: %w", err)
	}

	return dest, nil
}

// Delete removes the file on the backend and, only on success, drops the
// record from the caller's local list. On failure the list is returned
// unchanged, so a repeated delete of an already-absent key cannot corrupt it.
func (s *fileService) Delete(ctx context.Context, sess session.Session, storageKey string, current []models.FileRecord) ([]models.FileRecord, error) {
	if err := s.gateway.DeleteFile(ctx, sess, storageKey); err != nil {
		return current, fmt.Errorf("error deleting file: %w", err)
	}

	remaining := make([]models.FileRecord, 0, len(current))
	for _, rec := range current {
		if rec.Key != storageKey {
			remaining = append(remaining, rec)
		}
	}
	return remaining, nil
}

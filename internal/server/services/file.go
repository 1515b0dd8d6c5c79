package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/logging"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/repomanager"
	"github.com/cloudsafe/cloudsafe/internal/server/storage"
)

// ObjectStore is the slice of the object storage API the file service needs.
// *storage.S3Store satisfies it.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// newStorageKey is a test seam for storage key generation.
var newStorageKey = storage.RandomStorageKey

// FileService implements the upload, download, listing and delete flows.
//
// Uploads are three-step: RequestUpload issues a presigned PUT URL and
// pre-registers a pending metadata row; the client PUTs the bytes directly
// to storage; ConfirmUpload flips the row to completed. A row abandoned in
// pending state never shows up in listings, so a failed byte transfer leaks
// nothing to the user.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, logger logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, store: store, logger: logger}
}

// RequestUpload issues a presigned PUT URL for a new object and registers
// the pending metadata row.
func (s *FileService) RequestUpload(ctx context.Context, userID, fileName, contentType string) (*models.File, string, error) {
	key := newStorageKey(userID)

	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := &models.File{
		UserID:       userID,
		Name:         fileName,
		StorageKey:   key,
		ContentType:  contentType,
		UploadStatus: models.UploadStatusPending,
	}

	fileRepo := s.repomanager.Files(s.db)
	created, err := fileRepo.Create(ctx, file)
	if err != nil {
		return nil, "", fmt.Errorf("error registering upload: %w", err)
	}

	return created, url, nil
}

// ConfirmUpload marks the pending row for storageKey as completed and
// appends the upload activity, atomically.
func (s *FileService) ConfirmUpload(ctx context.Context, userID, storageKey string, sizeBytes int64, uploadedAt time.Time) (*models.File, error) {
	var file *models.File

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fileRepo := s.repomanager.Files(tx)
		activityRepo := s.repomanager.Activities(tx)

		f, err := fileRepo.MarkCompleted(ctx, userID, storageKey, sizeBytes, uploadedAt)
		if err != nil {
			return err
		}
		file = f

		return activityRepo.Create(ctx, &models.Activity{
			UserID:    userID,
			FileName:  f.Name,
			Action:    models.ActivityUpload,
			SizeBytes: f.SizeBytes,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error confirming upload: %w", err)
	}

	return file, nil
}

// List returns the user's completed files.
func (s *FileService) List(ctx context.Context, userID string) ([]*models.File, error) {
	fileRepo := s.repomanager.Files(s.db)
	files, err := fileRepo.ListCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

// DownloadURL returns a presigned GET URL for the user's file and appends
// the download activity.
func (s *FileService) DownloadURL(ctx context.Context, userID, storageKey string) (string, error) {
	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByStorageKey(ctx, userID, storageKey)
	if err != nil {
		return "", fmt.Errorf("error getting file: %w", err)
	}

	url, err := s.store.PresignGet(ctx, file.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	// The activity log is display-only; a failed insert must not cost the
	// caller an already presigned URL.
	activityRepo := s.repomanager.Activities(s.db)
	if err := activityRepo.Create(ctx, &models.Activity{
		UserID:    userID,
		FileName:  file.Name,
		Action:    models.ActivityDownload,
		SizeBytes: file.SizeBytes,
	}); err != nil {
		s.logger.Error(ctx, "error recording download activity", "error", err.Error())
	}

	return url, nil
}

// Delete removes the object from storage, then drops the metadata row and
// appends the delete activity atomically. The object goes first: if storage
// refuses, the row stays and the file remains listed.
func (s *FileService) Delete(ctx context.Context, userID, storageKey string) error {
	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByStorageKey(ctx, userID, storageKey)
	if err != nil {
		return fmt.Errorf("error getting file: %w", err)
	}

	if err := s.store.DeleteObject(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("error deleting object: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).DeleteByStorageKey(ctx, userID, storageKey); err != nil {
			return err
		}
		return s.repomanager.Activities(tx).Create(ctx, &models.Activity{
			UserID:    userID,
			FileName:  file.Name,
			Action:    models.ActivityDelete,
			SizeBytes: file.SizeBytes,
		})
	})
	if err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}

	return nil
}

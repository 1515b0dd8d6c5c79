package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pending row for a freshly issued upload URL. The row
// becomes visible to listings only after MarkCompleted.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (user_id, name, storage_key, content_type, size_bytes, upload_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, file.StorageKey, file.ContentType, file.SizeBytes, file.UploadStatus).Scan(&file.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// MarkCompleted flips the pending row for storageKey to completed and
// records the final size. Returns ErrNotFound when no pending row exists
// for this user and key; an already-completed row does not match, so a
// repeated confirmation cannot record the upload twice.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, userID, storageKey string, sizeBytes int64, uploadedAt time.Time) (*models.File, error) {
	query := `
		UPDATE files SET upload_status = $4, size_bytes = $3, uploaded_at = $5
		WHERE user_id = $1 AND storage_key = $2 AND upload_status = $6
		RETURNING id, user_id, name, storage_key, content_type, size_bytes, upload_status, uploaded_at
	`
	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, userID, storageKey, sizeBytes, models.UploadStatusCompleted, uploadedAt, models.UploadStatusPending).Scan(
		&file.ID, &file.UserID, &file.Name, &file.StorageKey, &file.ContentType,
		&file.SizeBytes, &file.UploadStatus, &file.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// ListCompleted returns the user's completed files, newest first. Pending
// rows are invisible: their bytes may never have arrived.
func (r *PostgresRepository) ListCompleted(ctx context.Context, userID string) ([]*models.File, error) {
	query := `
		SELECT id, user_id, name, storage_key, content_type, size_bytes, upload_status, uploaded_at
		FROM files
		WHERE user_id = $1 AND upload_status = $2
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, models.UploadStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		var item models.File
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.StorageKey, &item.ContentType,
			&item.SizeBytes, &item.UploadStatus, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByStorageKey returns the user's file row for storageKey regardless of
// upload status. Used to authorize downloads and deletes.
func (r *PostgresRepository) GetByStorageKey(ctx context.Context, userID, storageKey string) (*models.File, error) {
	query := `
		SELECT id, user_id, name, storage_key, content_type, size_bytes, upload_status, uploaded_at
		FROM files
		WHERE user_id = $1 AND storage_key = $2
	`
	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, userID, storageKey).Scan(
		&file.ID, &file.UserID, &file.Name, &file.StorageKey, &file.ContentType,
		&file.SizeBytes, &file.UploadStatus, &file.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// DeleteByStorageKey removes the user's row for storageKey. Exactly one row
// must be affected; zero rows yields ErrNotFound.
func (r *PostgresRepository) DeleteByStorageKey(ctx context.Context, userID, storageKey string) error {
	query := `DELETE FROM files WHERE user_id = $1 AND storage_key = $2`
	result, err := r.db.ExecContext(ctx, query, userID, storageKey)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

// Totals returns the count and summed size of the user's completed files.
func (r *PostgresRepository) Totals(ctx context.Context, userID string) (int, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0)
		FROM files
		WHERE user_id = $1 AND upload_status = $2
	`
	var count int
	var size int64
	err := r.db.QueryRowContext(ctx, query, userID, models.UploadStatusCompleted).Scan(&count, &size)
	if err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return count, size, nil
}

// UsageByType aggregates completed file sizes by lowercase name extension.
// Files without an extension are grouped under "other".
func (r *PostgresRepository) UsageByType(ctx context.Context, userID string) ([]TypeUsage, error) {
	query := `
		SELECT COALESCE(NULLIF(lower(substring(name from '\.([^.]+)$')), ''), 'other') AS type,
		       SUM(size_bytes) AS size_bytes
		FROM files
		WHERE user_id = $1 AND upload_status = $2
		GROUP BY type
		ORDER BY size_bytes DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, models.UploadStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to select usage: %w", err)
	}
	defer rows.Close()

	var result []TypeUsage
	for rows.Next() {
		var item TypeUsage
		if err := rows.Scan(&item.Type, &item.SizeBytes); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

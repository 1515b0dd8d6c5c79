package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

// PostgresRepository implements the append-only activity log over a
// dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (user_id, file_name, action, size_bytes)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		activity.UserID, activity.FileName, activity.Action, activity.SizeBytes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent activity rows, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, file_name, action, size_bytes, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select activities: %w", err)
	}
	defer rows.Close()

	var result []*models.Activity
	for rows.Next() {
		var item models.Activity
		if err := rows.Scan(&item.ID, &item.UserID, &item.FileName, &item.Action,
			&item.SizeBytes, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// TrendSince returns per-day upload and download counters for the user,
// oldest day first. Days without activity produce no row.
func (r *PostgresRepository) TrendSince(ctx context.Context, userID string, since time.Time) ([]TrendPoint, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(*) FILTER (WHERE action = $3) AS uploads,
		       COUNT(*) FILTER (WHERE action = $4) AS downloads
		FROM activities
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, userID, since, models.ActivityUpload, models.ActivityDownload)
	if err != nil {
		return nil, fmt.Errorf("failed to select trend: %w", err)
	}
	defer rows.Close()

	var result []TrendPoint
	for rows.Next() {
		var item TrendPoint
		if err := rows.Scan(&item.Day, &item.Uploads, &item.Downloads); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

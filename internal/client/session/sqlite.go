package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/cloudsafe/cloudsafe/internal/client/migrations"
	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/pressly/goose/v3"
)

const (
	keyToken   = "token"
	keySubject = "subject_id"
)

// SQLiteStore keeps the session in a two-row key/value table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// RunMigrations applies the embedded client migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenStore opens (or creates) the local database at dsn, migrates it and
// returns a store bound to it.
func OpenStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteStore(db), nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	if !sess.IsComplete() {
		return common.ErrPartialSession
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range map[string]string{keyToken: sess.Token, keySubject: sess.SubjectID} {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, k, v)
			if err != nil {
				return fmt.Errorf("failed to set session[%s]: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (Session, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return Session{}, err
	}
	subject, err := s.get(ctx, keySubject)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Token: token, SubjectID: subject}

	// A half-written session (crash between historical writes, manual edits)
	// is treated as absent rather than surfaced to callers.
	if !sess.IsComplete() {
		return Session{}, nil
	}
	return sess, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?)`, keyToken, keySubject)
		if err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

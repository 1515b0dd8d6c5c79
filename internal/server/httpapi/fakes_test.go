package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/logging"
	"github.com/cloudsafe/cloudsafe/internal/server/auth"
	"github.com/cloudsafe/cloudsafe/internal/server/config"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/activities"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/files"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/users"
	"github.com/cloudsafe/cloudsafe/internal/server/services"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	user.ID = fmt.Sprintf("u-%d", f.nextID)
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateFullName(ctx context.Context, userID, fullName string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.FullName = fullName
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeFileRepo struct {
	byKey map[string]*models.File

	totalsCount int
	totalsSize  int64
	usage       []files.TypeUsage
}

func (f *fakeFileRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	file.ID = "f-" + file.StorageKey
	f.byKey[file.StorageKey] = file
	return file, nil
}

func (f *fakeFileRepo) MarkCompleted(ctx context.Context, userID, storageKey string, sizeBytes int64, uploadedAt time.Time) (*models.File, error) {
	file, ok := f.byKey[storageKey]
	if !ok || file.UserID != userID || file.UploadStatus != models.UploadStatusPending {
		return nil, common.ErrNotFound
	}
	file.UploadStatus = models.UploadStatusCompleted
	file.SizeBytes = sizeBytes
	file.UploadedAt = uploadedAt
	return file, nil
}

func (f *fakeFileRepo) ListCompleted(ctx context.Context, userID string) ([]*models.File, error) {
	var out []*models.File
	for _, file := range f.byKey {
		if file.UserID == userID && file.UploadStatus == models.UploadStatusCompleted {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFileRepo) GetByStorageKey(ctx context.Context, userID, storageKey string) (*models.File, error) {
	file, ok := f.byKey[storageKey]
	if !ok || file.UserID != userID {
		return nil, common.ErrNotFound
	}
	return file, nil
}

func (f *fakeFileRepo) DeleteByStorageKey(ctx context.Context, userID, storageKey string) error {
	file, ok := f.byKey[storageKey]
	if !ok || file.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.byKey, storageKey)
	return nil
}

func (f *fakeFileRepo) Totals(ctx context.Context, userID string) (int, int64, error) {
	return f.totalsCount, f.totalsSize, nil
}

func (f *fakeFileRepo) UsageByType(ctx context.Context, userID string) ([]files.TypeUsage, error) {
	return f.usage, nil
}

type fakeActivityRepo struct {
	created []*models.Activity
	listOut []*models.Activity
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	f.created = append(f.created, activity)
	return nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	return f.listOut, nil
}

func (f *fakeActivityRepo) TrendSince(ctx context.Context, userID string, since time.Time) ([]activities.TrendPoint, error) {
	return nil, nil
}

type fakeRepoManager struct {
	users      *fakeUserRepo
	files      *fakeFileRepo
	activities *fakeActivityRepo
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository                  { return m.files }
func (m *fakeRepoManager) Activities(db dbx.DBTX) activities.Repository        { return m.activities }

type fakeObjectStore struct {
	putURL    string
	getURL    string
	deleteErr error
	deleted   []string
}

func (f *fakeObjectStore) PresignPut(ctx context.Context, key string) (string, error) {
	return f.putURL, nil
}

func (f *fakeObjectStore) PresignGet(ctx context.Context, key string) (string, error) {
	return f.getURL, nil
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}

// testEnv assembles real services over in-memory repositories, with a
// sqlmock handle standing in for the database connection.
type testEnv struct {
	handler http.Handler
	repos   *fakeRepoManager
	store   *fakeObjectStore
	mock    sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := &fakeRepoManager{
		users:      &fakeUserRepo{byEmail: map[string]*models.User{}},
		files:      &fakeFileRepo{byKey: map[string]*models.File{}},
		activities: &fakeActivityRepo{},
	}
	store := &fakeObjectStore{putURL: "https://storage.test/put", getURL: "https://storage.test/get"}

	cfg := &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour}
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	srv := NewServer(logger,
		services.NewUserService(db, repos, cfg),
		services.NewFileService(db, repos, store, logger),
		services.NewAnalyticsService(db, repos),
		[]byte(testSecret))

	return &testEnv{handler: srv.Router(), repos: repos, store: store, mock: mock}
}

// addUser seeds an account directly into the repository.
func (e *testEnv) addUser(t *testing.T, email, fullName string) *models.User {
	t.Helper()
	u, err := e.repos.users.Create(context.Background(), &models.User{
		Email:    email,
		FullName: fullName,
		Role:     "user",
	})
	require.NoError(t, err)
	return u
}

// authHeaders returns the token and subject headers for email.
func authHeaders(t *testing.T, email string) http.Header {
	t.Helper()
	token, err := auth.GenerateToken(email, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	h.Set(common.SubjectHeaderName, email)
	return h
}

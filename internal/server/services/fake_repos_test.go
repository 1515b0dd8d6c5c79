package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/activities"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/files"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/users"
)

// fakeUserRepo is an in-memory users.Repository.
type fakeUserRepo struct {
	byEmail   map[string]*models.User
	createErr error
	nextID    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	user.ID = "u-" + string(rune('0'+f.nextID))
	f.nextID++
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

// fakeFileRepo is an in-memory files.Repository keyed by storage key.
type fakeFileRepo struct {
	byKey     map[string]*models.File
	createErr error
	markErr   error

	totalsCount int
	totalsSize  int64
	usage       []files.TypeUsage
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{byKey: map[string]*models.File{}}
}

func (f *fakeFileRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	file.ID = "f-" + file.StorageKey
	f.byKey[file.StorageKey] = file
	return file, nil
}

func (f *fakeFileRepo) MarkCompleted(ctx context.Context, userID, storageKey string, sizeBytes int64, uploadedAt time.Time) (*models.File, error) {
	if f.markErr != nil {
		return nil, f.markErr
	}
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

// fakeActivityRepo records created rows.
type fakeActivityRepo struct {
	created   []*models.Activity
	createErr error
	listOut   []*models.Activity
	trendOut  []activities.TrendPoint
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, activity)
	return nil
}

func (f *fakeActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	return f.listOut, nil
}

func (f *fakeActivityRepo) TrendSince(ctx context.Context, userID string, since time.Time) ([]activities.TrendPoint, error) {
	return f.trendOut, nil
}

// fakeRepoManager hands out the same fakes for any DBTX, so transactional
// and plain paths hit identical state.
type fakeRepoManager struct {
	users      *fakeUserRepo
	files      *fakeFileRepo
	activities *fakeActivityRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:      newFakeUserRepo(),
		files:      newFakeFileRepo(),
		activities: &fakeActivityRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository                  { return m.files }
func (m *fakeRepoManager) Activities(db dbx.DBTX) activities.Repository        { return m.activities }

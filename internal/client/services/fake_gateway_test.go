package services

import (
	"context"
	"io"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// fakeGateway implements api.Gateway for unit tests. It records the calls it
// receives and returns canned results.
type fakeGateway struct {
	LoginRet string
	LoginErr error

	RegisterErr error

	ListFilesRet []models.FileRecord
	ListFilesErr error

	UploadTickets   map[string]models.UploadTicket // by file name
	UploadURLErr    error
	UploadBytesErr  map[string]error // by upload URL
	ConfirmErr      error
	DownloadURLRet  string
	DownloadURLErr  error
	DownloadContent string
	DownloadErr     error
	DeleteErr       map[string]error // by storage key

	ProfileRet    models.Profile
	ProfileErr    error
	UpdateRet     models.Profile
	UpdateErr     error
	AnalyticsRet  models.Analytics
	AnalyticsErr  error
	ActivitiesRet []models.ActivityEntry
	ActivitiesErr error

	// recorded calls
	LoginCalls       int
	RegisterCalls    int
	ListCalls        int
	UploadURLNames   []string
	UploadedURLs     []string
	ConfirmedKeys    []string
	DeletedKeys      []string
	LastLoginEmail   string
	LastLoginPass    string
	LastConfirmSize  int64
	LastUpdateName   string
	LastDownloadKey  string
	LastSessionSeen  session.Session
	LastRegisterName string
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (string, error) {
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPass = password
	return f.LoginRet, f.LoginErr
}

func (f *fakeGateway) Register(ctx context.Context, email, password, fullName string) error {
	f.RegisterCalls++
	f.LastRegisterName = fullName
	return f.RegisterErr
}

func (f *fakeGateway) ListFiles(ctx context.Context, sess session.Session) ([]models.FileRecord, error) {
	f.ListCalls++
	f.LastSessionSeen = sess
	return f.ListFilesRet, f.ListFilesErr
}

func (f *fakeGateway) RequestUploadURL(ctx context.Context, sess session.Session, fileName, contentType string) (models.UploadTicket, error) {
	f.UploadURLNames = append(f.UploadURLNames, fileName)
	if f.UploadURLErr != nil {
		return models.UploadTicket{}, f.UploadURLErr
	}
	return f.UploadTickets[fileName], nil
}

func (f *fakeGateway) UploadBytes(ctx context.Context, uploadURL string, body io.Reader, contentType string) error {
	f.UploadedURLs = append(f.UploadedURLs, uploadURL)
	if err, ok := f.UploadBytesErr[uploadURL]; ok {
		return err
	}
	_, _ = io.Copy(io.Discard, body)
	return nil
}

func (f *fakeGateway) ConfirmUpload(ctx context.Context, sess session.Session, storageKey string, sizeBytes int64, uploadedAt time.Time) error {
	f.ConfirmedKeys = append(f.ConfirmedKeys, storageKey)
	f.LastConfirmSize = sizeBytes
	return f.ConfirmErr
}

func (f *fakeGateway) RequestDownloadURL(ctx context.Context, sess session.Session, storageKey string) (string, error) {
	f.LastDownloadKey = storageKey
	return f.DownloadURLRet, f.DownloadURLErr
}

func (f *fakeGateway) DownloadBytes(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	if f.DownloadErr != nil {
		return 0, f.DownloadErr
	}
	n, err := io.WriteString(w, f.DownloadContent)
	return int64(n), err
}

func (f *fakeGateway) DeleteFile(ctx context.Context, sess session.Session, storageKey string) error {
	f.DeletedKeys = append(f.DeletedKeys, storageKey)
	if err, ok := f.DeleteErr[storageKey]; ok {
		return err
	}
	return nil
}

func (f *fakeGateway) FetchProfile(ctx context.Context, sess session.Session) (models.Profile, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, sess session.Session, fullName string) (models.Profile, error) {
	f.LastUpdateName = fullName
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeGateway) FetchAnalytics(ctx context.Context, sess session.Session) (models.Analytics, error) {
	return f.AnalyticsRet, f.AnalyticsErr
}

func (f *fakeGateway) FetchActivity(ctx context.Context, sess session.Session) ([]models.ActivityEntry, error) {
	return f.ActivitiesRet, f.ActivitiesErr
}

// fakeStore implements session.Store in memory.
type fakeStore struct {
	sess     session.Session
	saveErr  error
	saves    int
	clears   int
	lastSave session.Session
}

func (f *fakeStore) Save(ctx context.Context, s session.Session) error {
	f.saves++
	f.lastSave = s
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sess = s
	return nil
}

func (f *fakeStore) Load(ctx context.Context) (session.Session, error) {
	return f.sess, nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.clears++
	f.sess = session.Session{}
	return nil
}

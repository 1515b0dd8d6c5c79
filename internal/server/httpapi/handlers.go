package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/logging"
	"github.com/cloudsafe/cloudsafe/internal/server/services"
)

// Server bundles the services behind the REST handlers.
type Server struct {
	logger    logging.Logger
	users     *services.UserService
	files     *services.FileService
	analytics *services.AnalyticsService
	jwtSecret []byte
}

func NewServer(logger logging.Logger, users *services.UserService, files *services.FileService,
	analytics *services.AnalyticsService, jwtSecret []byte) *Server {
	return &Server{
		logger:    logger,
		users:     users,
		files:     files,
		analytics: analytics,
		jwtSecret: jwtSecret,
	}
}

// --- wire DTOs ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// fileItem keeps the metadata-store field names (fileName/s3Key/uploadedAt);
// clients map them to their own record shape.
type fileItem struct {
	FileName   string    `json:"fileName"`
	S3Key      string    `json:"s3Key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type uploadURLRequest struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	FileID    string `json:"fileId"`
}

type saveFileRequest struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	UserEmail  string    `json:"userEmail"`
}

type deleteFileRequest struct {
	Key string `json:"key"`
}

type profileResponse struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
}

type trendItem struct {
	Date      time.Time `json:"date"`
	Uploads   int       `json:"uploads"`
	Downloads int       `json:"downloads"`
}

type typeUsageItem struct {
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type analyticsResponse struct {
	TotalFiles    int             `json:"totalFiles"`
	TotalSize     int64           `json:"totalSize"`
	UploadTrend   []trendItem     `json:"uploadTrend"`
	StorageByType []typeUsageItem `json:"storageByType"`
}

type activityItem struct {
	FileName  string    `json:"fileName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// --- handlers ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || len(req.Password) < 8 || strings.TrimSpace(req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "email, fullName and a password of at least 8 characters are required")
		return
	}

	if _, err := s.users.Register(r.Context(), req.Email, req.Password, req.FullName); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "account already exists")
			return
		}
		s.logger.Error(r.Context(), "register failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	list, err := s.files.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "list files failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]fileItem, 0, len(list))
	for _, f := range list {
		items = append(items, fileItem{
			FileName:   f.Name,
			S3Key:      f.StorageKey,
			Size:       f.SizeBytes,
			UploadedAt: f.UploadedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"files": items})
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	file, url, err := s.files.RequestUpload(r.Context(), user.ID, req.FileName, req.FileType)
	if err != nil {
		s.logger.Error(r.Context(), "upload url failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{UploadURL: url, Key: file.StorageKey, FileID: file.ID})
}

func (s *Server) handleSaveFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req saveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	uploadedAt := req.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	if _, err := s.files.ConfirmUpload(r.Context(), user.ID, req.Key, req.Size, uploadedAt); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no pending upload for this key")
			return
		}
		s.logger.Error(r.Context(), "save file failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "saved"})
}

func (s *Server) handleDownloadURL(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.files.DownloadURL(r.Context(), user.ID, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		s.logger.Error(r.Context(), "download url failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req deleteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := s.files.Delete(r.Context(), user.ID, req.Key); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		s.logger.Error(r.Context(), "delete file failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, profileResponse{FullName: user.FullName, Email: user.Email, Role: user.Role})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "fullName is required")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.Email, strings.TrimSpace(req.FullName))
	if err != nil {
		s.logger.Error(r.Context(), "update profile failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{FullName: updated.FullName, Email: updated.Email, Role: updated.Role})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summary, err := s.analytics.Summary(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "analytics failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := analyticsResponse{
		TotalFiles:    summary.TotalFiles,
		TotalSize:     summary.TotalSizeBytes,
		UploadTrend:   make([]trendItem, 0, len(summary.UploadTrend)),
		StorageByType: make([]typeUsageItem, 0, len(summary.StorageByType)),
	}
	for _, p := range summary.UploadTrend {
		resp.UploadTrend = append(resp.UploadTrend, trendItem{Date: p.Day, Uploads: p.Uploads, Downloads: p.Downloads})
	}
	for _, u := range summary.StorageByType {
		resp.StorageByType = append(resp.StorageByType, typeUsageItem{Type: u.Type, Size: u.SizeBytes})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	entries, err := s.analytics.RecentActivity(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "activities failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]activityItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, activityItem{
			FileName:  e.FileName,
			Action:    e.Action,
			Timestamp: e.CreatedAt,
			Size:      e.SizeBytes,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"activities": items})
}

package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the full route table. /signup and /login are public;
// everything else sits behind the auth middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/signup", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)

	protected.HandleFunc("/files", s.handleListFiles).Methods(http.MethodGet)
	protected.HandleFunc("/upload-url", s.handleUploadURL).Methods(http.MethodPost)
	protected.HandleFunc("/save-file", s.handleSaveFile).Methods(http.MethodPost)
	protected.HandleFunc("/download-url", s.handleDownloadURL).Methods(http.MethodGet)
	protected.HandleFunc("/delete-file", s.handleDeleteFile).Methods(http.MethodDelete)
	protected.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	protected.HandleFunc("/update-profile", s.handleUpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)
	protected.HandleFunc("/activities", s.handleActivities).Methods(http.MethodGet)

	return r
}

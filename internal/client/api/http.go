package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/netx"
)

// HTTPGateway talks JSON over the single invoke endpoint. One request per
// operation, no retries; the default client timeout is the only deadline
// besides the caller's context.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		Token string `json:"token"`
	}
	if err := g.do(ctx, http.MethodPost, "/login", nil, nil, in, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: login response carried no token", common.ErrRequestFailed)
	}
	return out.Token, nil
}

func (g *HTTPGateway) Register(ctx context.Context, email, password, fullName string) error {
	in := map[string]string{"email": email, "password": password, "fullName": fullName}
	return g.do(ctx, http.MethodPost, "/signup", nil, nil, in, nil)
}

func (g *HTTPGateway) ListFiles(ctx context.Context, sess session.Session) ([]models.FileRecord, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return nil, err
	}

	var out struct {
		Files []rawFileRecord `json:"files"`
	}
	if err := g.do(ctx, http.MethodGet, "/files", nil, hdr, nil, &out); err != nil {
		return nil, err
	}
	return normalizeFileRecords(out.Files), nil
}

func (g *HTTPGateway) RequestUploadURL(ctx context.Context, sess session.Session, fileName, contentType string) (models.UploadTicket, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return models.UploadTicket{}, err
	}

	in := map[string]string{"fileName": fileName, "fileType": contentType}
	var out struct {
		UploadURL string `json:"uploadUrl"`
		Key       string `json:"key"`
		S3Key     string `json:"s3Key"`
	}
	if err := g.do(ctx, http.MethodPost, "/upload-url", nil, hdr, in, &out); err != nil {
		return models.UploadTicket{}, err
	}

	key := firstNonEmpty(out.Key, out.S3Key)
	if out.UploadURL == "" || key == "" {
		return models.UploadTicket{}, fmt.Errorf("%w: upload-url response missing url or key", common.ErrRequestFailed)
	}
	return models.UploadTicket{UploadURL: out.UploadURL, StorageKey: key}, nil
}

func (g *HTTPGateway) UploadBytes(ctx context.Context, uploadURL string, body io.Reader, contentType string) error {
	if err := netx.UploadToPresignedURL(ctx, g.httpClient, uploadURL, body, contentType); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRequestFailed, err)
	}
	return nil
}

func (g *HTTPGateway) DownloadBytes(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	n, err := netx.DownloadFromPresignedURL(ctx, g.httpClient, downloadURL, w)
	if err != nil {
		return n, fmt.Errorf("%w: %v", common.ErrRequestFailed, err)
	}
	return n, nil
}

func (g *HTTPGateway) ConfirmUpload(ctx context.Context, sess session.Session, storageKey string, sizeBytes int64, uploadedAt time.Time) error {
	hdr, err := authHeaders(sess)
	if err != nil {
		return err
	}

	in := map[string]any{
		"key":        storageKey,
		"size":       sizeBytes,
		"uploadedAt": uploadedAt.UTC().Format(time.RFC3339),
		"userEmail":  sess.SubjectID,
	}
	return g.do(ctx, http.MethodPost, "/save-file", nil, hdr, in, nil)
}

func (g *HTTPGateway) RequestDownloadURL(ctx context.Context, sess session.Session, storageKey string) (string, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return "", err
	}

	q := url.Values{"key": {storageKey}}
	var out struct {
		URL string `json:"url"`
	}
	if err := g.do(ctx, http.MethodGet, "/download-url", q, hdr, nil, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: download-url response carried no url", common.ErrRequestFailed)
	}
	return out.URL, nil
}

func (g *HTTPGateway) DeleteFile(ctx context.Context, sess session.Session, storageKey string) error {
	hdr, err := authHeaders(sess)
	if err != nil {
		return err
	}

	in := map[string]string{"key": storageKey}
	return g.do(ctx, http.MethodDelete, "/delete-file", nil, hdr, in, nil)
}

func (g *HTTPGateway) FetchProfile(ctx context.Context, sess session.Session) (models.Profile, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return models.Profile{}, err
	}

	var out models.Profile
	if err := g.do(ctx, http.MethodGet, "/profile", nil, hdr, nil, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

func (g *HTTPGateway) UpdateProfile(ctx context.Context, sess session.Session, fullName string) (models.Profile, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return models.Profile{}, err
	}

	in := map[string]string{"fullName": fullName}
	var out models.Profile
	if err := g.do(ctx, http.MethodPut, "/update-profile", nil, hdr, in, &out); err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

func (g *HTTPGateway) FetchAnalytics(ctx context.Context, sess session.Session) (models.Analytics, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return models.Analytics{}, err
	}

	var out models.Analytics
	if err := g.do(ctx, http.MethodGet, "/analytics", nil, hdr, nil, &out); err != nil {
		return models.Analytics{}, err
	}
	return out, nil
}

func (g *HTTPGateway) FetchActivity(ctx context.Context, sess session.Session) ([]models.ActivityEntry, error) {
	hdr, err := authHeaders(sess)
	if err != nil {
		return nil, err
	}

	var out struct {
		Activities []models.ActivityEntry `json:"activities"`
	}
	if err := g.do(ctx, http.MethodGet, "/activities", nil, hdr, nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

// do performs one JSON request against the invoke endpoint. in (when non-nil)
// is marshalled as the request body; out (when non-nil) receives the decoded
// response body. Everything that goes wrong maps to common.ErrRequestFailed.
func (g *HTTPGateway) do(ctx context.Context, method, p string, query url.Values, hdr http.Header, in, out any) error {
	endpoint := g.baseURL + p
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encoding %s %s: %v", common.ErrRequestFailed, method, p, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRequestFailed, err)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrRequestFailed, method, p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: %s: %s", common.ErrRequestFailed, method, p, resp.Status, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding %s %s: %v", common.ErrRequestFailed, method, p, err)
		}
	}
	return nil
}

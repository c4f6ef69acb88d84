package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/api"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/mocks"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
	"github.com/portfolio-api/internal/storage"
	"github.com/rs/zerolog"
)

const (
	articleID = "11111111-1111-1111-1111-111111111111"
	commentID = "33333333-3333-3333-3333-333333333333"
)

type testEnv struct {
	router   *gin.Engine
	repos    *mocks.Repos
	services *service.Services
	auth     *mocks.MockAuthService
	cfg      *config.Config
}

func testConfig(t *testing.T) *config.Config {
	hour := time.Hour
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Env: "test"},
		Auth:   config.AuthConfig{AdminEmail: "admin@example.com", JWTSecret: "test-secret", TokenTTL: hour},
		Storage: config.StorageConfig{
			UploadDir:    t.TempDir(),
			PublicURL:    "/uploads",
			MaxImageSize: 5 << 20,
			MaxCVSize:    10 << 20,
		},
		RateLimit: config.RateLimitConfig{
			Comment:    config.RateLimitRule{Max: 10, Window: hour},
			Reaction:   config.RateLimitRule{Max: 10, Window: hour},
			Newsletter: config.RateLimitRule{Max: 10, Window: hour},
			Contact:    config.RateLimitRule{Max: 5, Window: hour},
			Admin:      config.RateLimitRule{Max: 60, Window: time.Minute},
		},
		Site: config.SiteConfig{Title: "Test", BaseURL: "https://example.com"},
	}
}

// setupTestRouter wires real services over mock repositories
func setupTestRouter(t *testing.T, cfg *config.Config, opts api.Options) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, m := mocks.NewMockRepositories()
	services := service.NewServices(repos, service.Dependencies{
		Files:    storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicURL),
		Notifier: &mocks.MockNotifier{},
	}, cfg, zerolog.Nop())

	authSvc := mocks.NewMockAuthService(cfg.Auth.JWTSecret)
	services.Auth = authSvc

	router := api.NewRouter(services, cfg, zerolog.Nop(), opts)
	return &testEnv{router: router, repos: m, services: services, auth: authSvc, cfg: cfg}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) admin(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Authorization", "Bearer "+e.auth.Token("admin@example.com", models.RoleAdmin))
	return e.do(req)
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Expected JSON body, got %q", w.Body.String())
	}
	return response
}

func (e *testEnv) addArticle(t *testing.T) {
	t.Helper()
	published := time.Now().Add(-time.Hour)
	err := e.repos.Article.Create(context.Background(), &models.Article{
		ID: articleID, Title: "Hello", Slug: "hello", Excerpt: "e", Content: "<p>Hi</p>",
		Tags: models.StringList{}, PublishedAt: &published, CreatedAt: published, UpdatedAt: published,
	})
	if err != nil {
		t.Fatalf("Failed to add article: %v", err)
	}
}

func (e *testEnv) addComment(t *testing.T, status models.CommentStatus) {
	t.Helper()
	err := e.repos.Comment.Create(context.Background(), &models.Comment{
		ID: commentID, ArticleID: articleID, AuthorName: "Reader", Content: "Nice", Status: status, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to add comment: %v", err)
	}
}

type failingHealth struct{}

func (failingHealth) HealthCheck(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		health     api.HealthChecker
		wantStatus int
		wantBody   string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"database down", failingHealth{}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t, testConfig(t), api.Options{Health: tt.health})
			w := env.do(httptest.NewRequest("GET", "/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			response := decode(t, w)
			if response["status"] != tt.wantBody {
				t.Errorf("Expected status %q, got %v", tt.wantBody, response["status"])
			}
			if response["service"] != "portfolio-api" {
				t.Errorf("Expected service name, got %v", response["service"])
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	w := env.do(httptest.NewRequest("GET", "/health", nil))

	headers := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "SAMEORIGIN",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("Expected %s %q, got %q", name, want, got)
		}
	}
}

func TestSubmitComment(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	w := env.do(jsonRequest("POST", "/articles/hello/comments", map[string]string{
		"author_name": "Ada",
		"content":     "Great read",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	response := decode(t, w)
	if response["message"] != "Your comment has been submitted and is awaiting moderation." {
		t.Errorf("Unexpected message %v", response["message"])
	}
	comment := response["comment"].(map[string]interface{})
	if comment["is_approved"] != false {
		t.Errorf("Expected an unapproved comment, got %v", comment["is_approved"])
	}

	w = env.do(jsonRequest("POST", "/articles/hello/comments", map[string]string{
		"author_name": "Bot",
		"content":     "Buy now",
		"website":     "http://spam.example",
	}))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for the honeypot, got %d", w.Code)
	}
	if len(env.repos.Comment.Comments) != 1 {
		t.Errorf("Expected 1 stored comment, got %d", len(env.repos.Comment.Comments))
	}

	w = env.do(jsonRequest("POST", "/articles/missing/comments", map[string]string{"author_name": "Ada", "content": "Hi"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown article, got %d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  string
	}{
		{"rate limit", &service.RateLimitError{Message: "Too many comments. Please try again in 3600 seconds.", RetryAfter: time.Hour}, http.StatusTooManyRequests, "3600"},
		{"validation", &service.ValidationErrors{}, http.StatusUnprocessableEntity, ""},
		{"conflict", &service.ConflictError{Message: "taken"}, http.StatusConflict, ""},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t, testConfig(t), api.Options{})
			env.services.Comment = &mocks.MockCommentService{
				SubmitFunc: func(ctx context.Context, ref string, in *models.SubmitCommentInput) (*models.CommentView, error) {
					return nil, tt.err
				},
			}
			env.router = api.NewRouter(env.services, env.cfg, zerolog.Nop(), api.Options{})

			w := env.do(jsonRequest("POST", "/articles/hello/comments", map[string]string{"author_name": "Ada", "content": "x"}))
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("Retry-After"); got != tt.wantRetry {
				t.Errorf("Expected Retry-After %q, got %q", tt.wantRetry, got)
			}
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(w.Body.String(), "boom") {
				t.Error("Expected the internal error to be hidden")
			}
		})
	}
}

func TestToggleReaction(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)
	env.addComment(t, models.CommentStatusApproved)

	w := env.do(jsonRequest("POST", "/comments/"+commentID+"/reactions", map[string]string{"reaction_type": "like"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	response := decode(t, w)
	if response["action"] != "added" || response["likes_count"].(float64) != 1 || response["user_liked"] != true {
		t.Errorf("Unexpected toggle result %v", response)
	}

	w = env.do(jsonRequest("POST", "/comments/"+commentID+"/reactions", map[string]string{"reaction_type": "love"}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for an unknown kind, got %d", w.Code)
	}
}

func TestToggleReaction_PendingComment(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)
	env.addComment(t, models.CommentStatusPending)

	w := env.do(jsonRequest("POST", "/comments/"+commentID+"/reactions", map[string]string{"reaction_type": "helpful"}))
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
	if len(env.repos.Reaction.Rows(commentID)) != 0 {
		t.Error("Expected no reaction rows")
	}
}

func TestAdminAuth(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + env.auth.Token("admin@example.com", models.RoleAdmin), http.StatusUnauthorized},
		{"not an admin", "Bearer " + env.auth.Token("reader@example.com", "reader"), http.StatusForbidden},
		{"admin", "Bearer " + env.auth.Token("admin@example.com", models.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := env.do(req)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusForbidden && decode(t, w)["message"] != "Access denied. Admins only." {
				t.Errorf("Unexpected 403 body %s", w.Body.String())
			}
		})
	}
}

func TestAdminThrottle(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Admin = config.RateLimitRule{Max: 2, Window: time.Minute}
	env := setupTestRouter(t, cfg, api.Options{})

	for i := 0; i < 2; i++ {
		if w := env.admin(httptest.NewRequest("GET", "/admin/comments", nil)); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status 200, got %d", i, w.Code)
		}
	}
	w := env.admin(httptest.NewRequest("GET", "/admin/comments", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}
}

func TestLogin(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.auth.LoginFunc = func(ctx context.Context, email, password string) (*models.TokenResponse, error) {
		if password != "secret" {
			return nil, service.ErrUnauthorized
		}
		return &models.TokenResponse{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	w := env.do(jsonRequest("POST", "/admin/login", map[string]string{"email": "admin@example.com", "password": "secret"}))
	if w.Code != http.StatusOK || decode(t, w)["token"] != "tok" {
		t.Errorf("Expected a token, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(jsonRequest("POST", "/admin/login", map[string]string{"email": "admin@example.com", "password": "guess"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestModerationFlow(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)
	env.addComment(t, models.CommentStatusPending)

	w := env.admin(httptest.NewRequest("POST", "/admin/comments/"+commentID+"/approve", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.repos.Comment.Comments[commentID].Status != models.CommentStatusApproved {
		t.Error("Expected the comment to be approved")
	}

	w = env.do(httptest.NewRequest("GET", "/api/articles/hello", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if comments := decode(t, w)["comments"].([]interface{}); len(comments) != 1 {
		t.Errorf("Expected the approved comment on the page, got %d", len(comments))
	}

	w = env.admin(httptest.NewRequest("DELETE", "/admin/comments/"+commentID, nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w = env.admin(httptest.NewRequest("POST", "/admin/comments/"+commentID+"/reject", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestContactAndNewsletter(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})

	w := env.do(jsonRequest("POST", "/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "subject": "Hi", "message": "Hello there",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["message"] != "Thank you for your message! I'll get back to you soon." {
		t.Errorf("Unexpected message %s", w.Body.String())
	}

	body := map[string]string{"email": "ada@example.com"}
	if w := env.do(jsonRequest("POST", "/newsletter/subscribe", body)); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	w = env.do(jsonRequest("POST", "/newsletter/subscribe", body))
	if w.Code != http.StatusConflict || decode(t, w)["message"] != "You are already subscribed!" {
		t.Errorf("Expected 409 already subscribed, got %d %s", w.Code, w.Body.String())
	}
	w = env.do(httptest.NewRequest("POST", "/newsletter/unsubscribe/ada@example.com", nil))
	if w.Code != http.StatusOK || decode(t, w)["message"] != "Successfully unsubscribed." {
		t.Errorf("Unexpected unsubscribe response %d %s", w.Code, w.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	w := env.do(httptest.NewRequest("GET", "/search?q=hello", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if total := decode(t, w)["total"].(float64); total != 1 {
		t.Errorf("Expected 1 result, got %v", total)
	}

	w = env.do(httptest.NewRequest("GET", "/search?q=hello&type=users", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

func TestArticlesPagination(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	w := env.do(httptest.NewRequest("GET", "/api/articles?page=abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	meta := decode(t, w)["meta"].(map[string]interface{})
	if meta["page"].(float64) != 1 || meta["total"].(float64) != 1 || meta["per_page"].(float64) != 12 {
		t.Errorf("Unexpected meta %v", meta)
	}
}

func TestFeedEndpoints(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	w := env.do(httptest.NewRequest("GET", "/feed", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/rss+xml; charset=UTF-8" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "https://example.com/articles/hello") {
		t.Error("Expected the article link in the feed")
	}

	w = env.do(httptest.NewRequest("GET", "/sitemap.xml", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<urlset") {
		t.Errorf("Expected a sitemap, got %d", w.Code)
	}
}

func multipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCVUploadAndDownload(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})

	w := env.do(httptest.NewRequest("GET", "/cv/download", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without a CV, got %d", w.Code)
	}

	pdf := []byte("%PDF-1.4\n%%EOF\n")
	w = env.admin(multipartRequest(t, "/admin/cv", "file", "resume.pdf", pdf))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(httptest.NewRequest("GET", "/cv/download", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="resume.pdf"` {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Error("Downloaded bytes differ from the upload")
	}

	w = env.admin(multipartRequest(t, "/admin/cv", "file", "resume.pdf", []byte("not a pdf at all")))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 for a non-PDF, got %d", w.Code)
	}
}

func TestMediaUploadFailure(t *testing.T) {
	cfg := testConfig(t)
	// a regular file where the upload directory should be
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	cfg.Storage.UploadDir = blocked
	env := setupTestRouter(t, cfg, api.Options{})

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	w := env.admin(multipartRequest(t, "/admin/media", "image", "photo.png", png))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if decode(t, w)["message"] != "Failed to upload image. Please try again." {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestMediaUpload(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	w := env.admin(multipartRequest(t, "/admin/media", "image", "photo.png", png))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	url := decode(t, w)["url"].(string)
	if !strings.HasPrefix(url, "/uploads/media/") {
		t.Fatalf("Unexpected url %s", url)
	}

	w = env.do(httptest.NewRequest("GET", url, nil))
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), png) {
		t.Errorf("Expected the uploaded file to be served, got %d", w.Code)
	}
}

func TestExportArticles(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	w := env.admin(httptest.NewRequest("GET", "/admin/articles/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=UTF-8" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "ID,Title,Slug") {
		t.Errorf("Expected the CSV header, got %q", w.Body.String())
	}

	w = env.admin(httptest.NewRequest("GET", "/admin/articles/export?format=xlsx", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAdminContentCRUD(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})

	w := env.admin(jsonRequest("POST", "/admin/skills", map[string]interface{}{
		"name": "Backend", "icon": "server", "items": []string{"Go", "PostgreSQL"},
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	id := decode(t, w)["id"].(string)

	w = env.admin(jsonRequest("PUT", "/admin/skills/"+id, map[string]interface{}{
		"name": "Backend", "icon": "server", "items": []string{},
	}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422 without items, got %d", w.Code)
	}

	w = env.do(httptest.NewRequest("GET", "/api/skills", nil))
	if data := decode(t, w)["data"].([]interface{}); len(data) != 1 {
		t.Errorf("Expected 1 public skill, got %d", len(data))
	}

	if w := env.admin(httptest.NewRequest("DELETE", "/admin/skills/"+id, nil)); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w := env.admin(httptest.NewRequest("GET", "/admin/skills/"+id, nil)); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}

	entries := env.repos.Activity.Entries
	if len(entries) != 2 || entries[0].Actor != "admin@example.com" {
		t.Errorf("Expected 2 activity entries by the admin, got %+v", entries)
	}
}

func TestClientIPIgnoresForwardedHeader(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)

	blocked := 0
	for i := 0; i < 15; i++ {
		req := jsonRequest("POST", "/articles/hello/comments", map[string]string{"author_name": "Ada", "content": "Hi"})
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		if w := env.do(req); w.Code == http.StatusTooManyRequests {
			blocked++
		}
	}
	if blocked != 5 {
		t.Errorf("Expected 5 blocked submissions, got %d", blocked)
	}
	for _, c := range env.repos.Comment.Comments {
		if c.IPAddress != "203.0.113.7" {
			t.Errorf("Expected the socket address to be recorded, got %s", c.IPAddress)
		}
	}
}

func TestReactionIdentityIgnoresForwardedHeader(t *testing.T) {
	env := setupTestRouter(t, testConfig(t), api.Options{})
	env.addArticle(t)
	env.addComment(t, models.CommentStatusApproved)

	var last map[string]interface{}
	for i := 0; i < 5; i++ {
		req := jsonRequest("POST", "/comments/"+commentID+"/reactions", map[string]string{"reaction_type": "like"})
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w := env.do(req)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		last = decode(t, w)
	}
	if last["likes_count"].(float64) != 1 {
		t.Errorf("Expected one like from one client, got %v", last["likes_count"])
	}
}

func TestTrustedProxyForwardsClientIP(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.TrustedProxies = []string{"203.0.113.7"}
	env := setupTestRouter(t, cfg, api.Options{})
	env.addArticle(t)

	for i := 0; i < 15; i++ {
		req := jsonRequest("POST", "/articles/hello/comments", map[string]string{"author_name": "Ada", "content": "Hi"})
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		if w := env.do(req); w.Code != http.StatusCreated {
			t.Fatalf("Request %d: expected status 201 for distinct forwarded clients, got %d", i, w.Code)
		}
	}
}

package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/notify"
	"github.com/portfolio-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	SubmitFunc func(ctx context.Context, articleRef string, in *models.SubmitCommentInput) (*models.CommentView, error)
	Submitted  []*models.SubmitCommentInput
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) Submit(ctx context.Context, articleRef string, in *models.SubmitCommentInput) (*models.CommentView, error) {
	m.Submitted = append(m.Submitted, in)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, articleRef, in)
	}
	view := models.NewCommentView(&models.Comment{
		ID:         "comment-1",
		ArticleID:  articleRef,
		AuthorName: in.AuthorName,
		Content:    in.Content,
		Status:     models.CommentStatusPending,
	})
	return &view, nil
}

// MockReactionService is a mock implementation of ReactionService
type MockReactionService struct {
	ToggleFunc func(ctx context.Context, commentID, kind string) (*models.ToggleResult, error)
}

// Verify interface compliance
var _ service.ReactionService = (*MockReactionService)(nil)

func (m *MockReactionService) Toggle(ctx context.Context, commentID, kind string) (*models.ToggleResult, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, commentID, kind)
	}
	return &models.ToggleResult{Action: models.ToggleAdded, Likes: 1, UserLiked: kind == string(models.ReactionLike)}, nil
}

// MockSearchService is a mock implementation of SearchService
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query, searchType string) (*models.SearchResult, error)
}

// Verify interface compliance
var _ service.SearchService = (*MockSearchService)(nil)

func (m *MockSearchService) Search(ctx context.Context, query, searchType string) (*models.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, searchType)
	}
	return &models.SearchResult{
		Query:    query,
		Type:     models.SearchType(searchType),
		Articles: []*models.ArticleHit{},
		Projects: []*models.ProjectHit{},
	}, nil
}

// MockContactService is a mock implementation of ContactService
type MockContactService struct {
	SubmitFunc func(ctx context.Context, in *models.ContactInput) error
	Submitted  []*models.ContactInput
}

// Verify interface compliance
var _ service.ContactService = (*MockContactService)(nil)

func (m *MockContactService) Submit(ctx context.Context, in *models.ContactInput) error {
	m.Submitted = append(m.Submitted, in)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, in)
	}
	return nil
}

func (m *MockContactService) List(ctx context.Context, unreadOnly bool, page int) (*models.ContactInbox, error) {
	pg := models.NewPage([]*models.ContactMessage{}, 1, 20, 0)
	return &models.ContactInbox{Data: pg.Data, Meta: pg.Meta}, nil
}

func (m *MockContactService) Get(ctx context.Context, id string) (*models.ContactMessage, error) {
	return nil, service.ErrNotFound
}

func (m *MockContactService) Delete(ctx context.Context, id string) error {
	return service.ErrNotFound
}

// MockAuthService is a mock implementation of AuthService backed by a real issuer
type MockAuthService struct {
	Issuer    *auth.Issuer
	LoginFunc func(ctx context.Context, email, password string) (*models.TokenResponse, error)
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService(secret string) *MockAuthService {
	return &MockAuthService{Issuer: auth.NewIssuer(secret, 0)}
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, service.ErrUnauthorized
}

func (m *MockAuthService) Authenticate(token string) (*auth.Claims, error) {
	return m.Issuer.Validate(token)
}

// Token issues a token for tests
func (m *MockAuthService) Token(email, role string) string {
	token, _, _ := m.Issuer.Issue(email, role)
	return token
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc    func(ctx context.Context, w io.Writer, format string) error
	StreamSubscribersFunc func(ctx context.Context, w io.Writer, filter models.SubscriberFilter, format string) error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func (m *MockExportService) StreamArticles(ctx context.Context, w io.Writer, format string) error {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	_, err := io.WriteString(w, "ID,Title,Slug,Category,Status,Views,Published At,Created At\n")
	return err
}

func (m *MockExportService) StreamSubscribers(ctx context.Context, w io.Writer, filter models.SubscriberFilter, format string) error {
	if m.StreamSubscribersFunc != nil {
		return m.StreamSubscribersFunc(ctx, w, filter, format)
	}
	_, err := io.WriteString(w, "Email,Name,Status,Subscribed At,Unsubscribed At\n")
	return err
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	mu       sync.Mutex
	Jobs     map[string]*models.NotificationJob
	Enqueued []*models.NotificationJob
	Started  bool
}

// Verify interface compliance
var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{Jobs: make(map[string]*models.NotificationJob)}
}

func (m *MockJobService) StartProcessor(ctx context.Context) {
	m.mu.Lock()
	m.Started = true
	m.mu.Unlock()
	<-ctx.Done()
}

func (m *MockJobService) StopProcessor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = false
}

func (m *MockJobService) Enqueue(ctx context.Context, kind models.JobKind, payload interface{}) (*models.NotificationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &models.NotificationJob{ID: "job-" + string(kind), Kind: kind, Status: models.JobStatusPending}
	m.Jobs[job.ID] = job
	m.Enqueued = append(m.Enqueued, job)
	return job, nil
}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.NotificationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return job, nil
}

// MockNotifier records delivered messages and fails the first FailTimes calls
type MockNotifier struct {
	mu        sync.Mutex
	Messages  []notify.Message
	FailTimes int
	Err       error
	// Started, when set, is signalled by each call, which then blocks until ctx ends
	Started chan struct{}
}

// Verify interface compliance
var _ notify.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Name() string {
	return "mock"
}

func (m *MockNotifier) Notify(ctx context.Context, msg notify.Message) error {
	if m.Started != nil {
		m.Started <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTimes > 0 {
		m.FailTimes--
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Sent returns the delivered messages
func (m *MockNotifier) Sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.Messages...)
}

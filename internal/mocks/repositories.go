package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.ArticleRepository     = (*MockArticleRepository)(nil)
	_ repository.CommentRepository     = (*MockCommentRepository)(nil)
	_ repository.ReactionRepository    = (*MockReactionRepository)(nil)
	_ repository.ProjectRepository     = (*MockProjectRepository)(nil)
	_ repository.SkillRepository       = (*MockSkillRepository)(nil)
	_ repository.ExperienceRepository  = (*MockExperienceRepository)(nil)
	_ repository.TestimonialRepository = (*MockTestimonialRepository)(nil)
	_ repository.SubscriberRepository  = (*MockSubscriberRepository)(nil)
	_ repository.ContactRepository     = (*MockContactRepository)(nil)
	_ repository.CVRepository          = (*MockCVRepository)(nil)
	_ repository.ActivityRepository    = (*MockActivityRepository)(nil)
	_ repository.JobRepository         = (*MockJobRepository)(nil)
)

// NewMockRepositories wires a full set of empty mock repositories. The
// reaction mock reads comments from the comment mock.
func NewMockRepositories() (*repository.Repositories, *Repos) {
	m := &Repos{
		Article:     NewMockArticleRepository(),
		Comment:     NewMockCommentRepository(),
		Project:     NewMockProjectRepository(),
		Skill:       NewMockSkillRepository(),
		Experience:  NewMockExperienceRepository(),
		Testimonial: NewMockTestimonialRepository(),
		Subscriber:  NewMockSubscriberRepository(),
		Contact:     NewMockContactRepository(),
		CV:          NewMockCVRepository(),
		Activity:    NewMockActivityRepository(),
		Job:         NewMockJobRepository(),
	}
	m.Reaction = NewMockReactionRepository(m.Comment)
	return &repository.Repositories{
		Article:     m.Article,
		Comment:     m.Comment,
		Reaction:    m.Reaction,
		Project:     m.Project,
		Skill:       m.Skill,
		Experience:  m.Experience,
		Testimonial: m.Testimonial,
		Subscriber:  m.Subscriber,
		Contact:     m.Contact,
		CV:          m.CV,
		Activity:    m.Activity,
		Job:         m.Job,
	}, m
}

// Repos exposes the concrete mocks behind a Repositories
type Repos struct {
	Article     *MockArticleRepository
	Comment     *MockCommentRepository
	Reaction    *MockReactionRepository
	Project     *MockProjectRepository
	Skill       *MockSkillRepository
	Experience  *MockExperienceRepository
	Testimonial *MockTestimonialRepository
	Subscriber  *MockSubscriberRepository
	Contact     *MockContactRepository
	CV          *MockCVRepository
	Activity    *MockActivityRepository
	Job         *MockJobRepository
}

func page[T any](items []T, p models.Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	mu          sync.Mutex
	Articles    map[string]*models.Article
	InsertError error
	QueryError  error
	ViewCounts  map[string]int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles:   make(map[string]*models.Article),
		ViewCounts: make(map[string]int),
	}
}

// sorted returns the articles matching keep, newest first
func (m *MockArticleRepository) sorted(keep func(*models.Article) bool) []*models.Article {
	out := []*models.Article{}
	for _, a := range m.Articles {
		if keep == nil || keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *article
	m.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	return m.Create(ctx, article)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Articles[id]
	delete(m.Articles, id)
	return ok, nil
}

func (m *MockArticleRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if ok, _ := m.Delete(ctx, id); ok {
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	for _, a := range m.Articles {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter, p models.Pagination) ([]*models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, 0, m.QueryError
	}
	all := m.sorted(func(a *models.Article) bool {
		if filter.PublishedOnly && !a.IsPublished(filter.Now) {
			return false
		}
		if filter.Status != "" && a.StatusAt(filter.Now) != filter.Status {
			return false
		}
		if filter.Category != "" && a.Category != filter.Category {
			return false
		}
		if filter.Tag != "" && !a.Tags.Contains(filter.Tag) {
			return false
		}
		if filter.Search != "" && !containsFold(a.Title, filter.Search) && !containsFold(a.Content, filter.Search) {
			return false
		}
		return true
	})
	return page(all, p), len(all), nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		a.Views++
		m.ViewCounts[id]++
	}
	return nil
}

func (m *MockArticleRepository) Related(ctx context.Context, article *models.Article, now time.Time, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	related := m.sorted(func(a *models.Article) bool {
		return a.ID != article.ID && a.IsPublished(now) && a.Category != "" && a.Category == article.Category
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (m *MockArticleRepository) Popular(ctx context.Context, now time.Time, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	popular := m.sorted(func(a *models.Article) bool { return a.IsPublished(now) })
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].Views > popular[j].Views })
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (m *MockArticleRepository) Recent(ctx context.Context, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := m.sorted(nil)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (m *MockArticleRepository) InSeries(ctx context.Context, series string, now time.Time) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := m.sorted(func(a *models.Article) bool { return a.Series == series && a.IsPublished(now) })
	sort.SliceStable(in, func(i, j int) bool {
		return seriesOrder(in[i]) < seriesOrder(in[j])
	})
	return in, nil
}

func seriesOrder(a *models.Article) int {
	if a.SeriesOrder == nil {
		return 0
	}
	return *a.SeriesOrder
}

func (m *MockArticleRepository) Published(ctx context.Context, now time.Time, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	published := m.sorted(func(a *models.Article) bool { return a.IsPublished(now) })
	sort.SliceStable(published, func(i, j int) bool { return published[i].PublishedAt.After(*published[j].PublishedAt) })
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

func (m *MockArticleRepository) Search(ctx context.Context, query string, now time.Time, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	hits := m.sorted(func(a *models.Article) bool {
		if !a.IsPublished(now) {
			return false
		}
		if containsFold(a.Title, query) || containsFold(a.Category, query) ||
			containsFold(a.Excerpt, query) || containsFold(a.Content, query) {
			return true
		}
		for _, t := range a.Tags {
			if containsFold(t, query) {
				return true
			}
		}
		return false
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *MockArticleRepository) Categories(ctx context.Context, now time.Time) ([]models.CategoryCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, a := range m.Articles {
		if a.IsPublished(now) && a.Category != "" {
			counts[a.Category]++
		}
	}
	out := []models.CategoryCount{}
	for c, n := range counts {
		out = append(out, models.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (m *MockArticleRepository) Tags(ctx context.Context, now time.Time) ([]models.TagCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, a := range m.Articles {
		if a.IsPublished(now) {
			for _, t := range a.Tags {
				counts[t]++
			}
		}
	}
	out := []models.TagCount{}
	for t, n := range counts {
		out = append(out, models.TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (m *MockArticleRepository) Counts(ctx context.Context, now time.Time) (models.ArticleCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c models.ArticleCounts
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, a := range m.Articles {
		c.Total++
		switch a.StatusAt(now) {
		case models.ArticleStatusPublished:
			c.Published++
			if !a.PublishedAt.Before(monthStart) {
				c.ThisMonth++
			}
		case models.ArticleStatusScheduled:
			c.Scheduled++
		default:
			c.Draft++
		}
		if a.IsFeatured {
			c.Featured++
		}
	}
	return c, nil
}

func (m *MockArticleRepository) ViewStats(ctx context.Context) (models.ViewStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s models.ViewStats
	for _, a := range m.Articles {
		s.Total += a.Views
	}
	if len(m.Articles) > 0 {
		s.Average = float64(s.Total) / float64(len(m.Articles))
	}
	return s, nil
}

func (m *MockArticleRepository) ViewsByCategory(ctx context.Context) ([]models.CategoryViews, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byCat := map[string]*models.CategoryViews{}
	for _, a := range m.Articles {
		if a.Category == "" {
			continue
		}
		cv, ok := byCat[a.Category]
		if !ok {
			cv = &models.CategoryViews{Category: a.Category}
			byCat[a.Category] = cv
		}
		cv.Views += a.Views
		cv.Articles++
	}
	out := []models.CategoryViews{}
	for _, cv := range byCat {
		out = append(out, *cv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out, nil
}

func (m *MockArticleRepository) SeriesStats(ctx context.Context) ([]models.SeriesStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySeries := map[string]*models.SeriesStat{}
	for _, a := range m.Articles {
		if a.Series == "" {
			continue
		}
		st, ok := bySeries[a.Series]
		if !ok {
			st = &models.SeriesStat{Series: a.Series}
			bySeries[a.Series] = st
		}
		st.Articles++
		st.Views += a.Views
	}
	out := []models.SeriesStat{}
	for _, st := range bySeries {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Articles > out[j].Articles })
	return out, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	all := m.sorted(nil)
	m.mu.Unlock()
	for _, a := range all {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[string]*models.Comment
	InsertError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepository) sorted(keep func(*models.Comment) bool, newestFirst bool) []*models.Comment {
	out := []*models.Comment{}
	for _, c := range m.Comments {
		if keep == nil || keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *comment
	m.Comments[comment.ID] = &cp
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id string, status models.CommentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Comments[id]; ok {
		c.Status = status
	}
	return nil
}

// Delete removes a comment and its replies
func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	for cid, c := range m.Comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(m.Comments, cid)
		}
	}
	return true, nil
}

func (m *MockCommentRepository) ListForModeration(ctx context.Context, filter models.CommentFilter, p models.Pagination) ([]*models.AdminComment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(c *models.Comment) bool {
		return (filter.Status == "" || c.Status == filter.Status) &&
			(filter.ArticleID == "" || c.ArticleID == filter.ArticleID)
	}, true)
	out := []*models.AdminComment{}
	for _, c := range page(all, p) {
		ac := &models.AdminComment{CommentView: models.NewCommentView(c), IPAddress: c.IPAddress, UserAgent: c.UserAgent}
		if c.ParentID != nil {
			if parent, ok := m.Comments[*c.ParentID]; ok {
				ac.ParentAuthor = parent.AuthorName
			}
		}
		out = append(out, ac)
	}
	return out, len(all), nil
}

func (m *MockCommentRepository) ListApproved(ctx context.Context, articleID string) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(c *models.Comment) bool {
		return c.ArticleID == articleID && c.Status == models.CommentStatusApproved
	}, false), nil
}

func (m *MockCommentRepository) Count(ctx context.Context, status models.CommentStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Comments {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MockCommentRepository) Recent(ctx context.Context, limit int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := m.sorted(nil, true)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// MockReactionRepository is a mock implementation of ReactionRepository that
// emulates the transactional toggle
type MockReactionRepository struct {
	mu          sync.Mutex
	comments    *MockCommentRepository
	Reactions   []*models.Reaction
	ToggleError error
	ToggleCalls int
}

func NewMockReactionRepository(comments *MockCommentRepository) *MockReactionRepository {
	return &MockReactionRepository{comments: comments}
}

func (m *MockReactionRepository) remove(commentID, ip string, kind models.ReactionKind) bool {
	for i, r := range m.Reactions {
		if r.CommentID == commentID && r.IPAddress == ip && r.Kind == kind {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return true
		}
	}
	return false
}

// Rows returns the stored reactions on a comment
func (m *MockReactionRepository) Rows(commentID string) []*models.Reaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Reaction{}
	for _, r := range m.Reactions {
		if r.CommentID == commentID {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockReactionRepository) Toggle(ctx context.Context, reaction *models.Reaction) (*models.ToggleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToggleCalls++
	if m.ToggleError != nil {
		return nil, m.ToggleError
	}
	if c, _ := m.comments.GetByID(ctx, reaction.CommentID); c == nil {
		return nil, nil
	}

	result := &models.ToggleResult{Action: models.ToggleRemoved}
	if !m.remove(reaction.CommentID, reaction.IPAddress, reaction.Kind) {
		m.remove(reaction.CommentID, reaction.IPAddress, reaction.Kind.Opposite())
		cp := *reaction
		if cp.ID == "" {
			cp.ID = uuid.New().String()
		}
		m.Reactions = append(m.Reactions, &cp)
		result.Action = models.ToggleAdded
	}

	for _, r := range m.Reactions {
		if r.CommentID != reaction.CommentID {
			continue
		}
		mine := r.IPAddress == reaction.IPAddress
		switch r.Kind {
		case models.ReactionLike:
			result.Likes++
			result.UserLiked = result.UserLiked || mine
		case models.ReactionHelpful:
			result.Helpfuls++
			result.UserHelpful = result.UserHelpful || mine
		}
	}
	return result, nil
}

func (m *MockReactionRepository) Counts(ctx context.Context, commentIDs []string) (map[string]models.ReactionCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range commentIDs {
		wanted[id] = true
	}
	counts := map[string]models.ReactionCounts{}
	for _, r := range m.Reactions {
		if !wanted[r.CommentID] {
			continue
		}
		c := counts[r.CommentID]
		if r.Kind == models.ReactionLike {
			c.Likes++
		} else {
			c.Helpfuls++
		}
		counts[r.CommentID] = c
	}
	return counts, nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mu       sync.Mutex
	Projects map[string]*models.Project
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{Projects: make(map[string]*models.Project)}
}

func (m *MockProjectRepository) sorted(keep func(*models.Project) bool) []*models.Project {
	out := []*models.Project{}
	for _, p := range m.Projects {
		if keep == nil || keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *project
	m.Projects[project.ID] = &cp
	return nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return m.Create(ctx, project)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Projects[id]
	delete(m.Projects, id)
	return ok, nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MockProjectRepository) List(ctx context.Context, archived *bool) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p *models.Project) bool { return archived == nil || p.IsArchived == *archived }), nil
}

func (m *MockProjectRepository) Search(ctx context.Context, query string, limit int) ([]*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hits := m.sorted(func(p *models.Project) bool {
		if p.IsArchived {
			return false
		}
		if containsFold(p.Title, query) || containsFold(p.Description, query) {
			return true
		}
		for _, t := range p.Tags {
			if containsFold(t, query) {
				return true
			}
		}
		return false
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *MockProjectRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Projects), nil
}

// MockSkillRepository is a mock implementation of SkillRepository
type MockSkillRepository struct {
	mu     sync.Mutex
	Skills map[string]*models.Skill
	Calls  int
}

func NewMockSkillRepository() *MockSkillRepository {
	return &MockSkillRepository{Skills: make(map[string]*models.Skill)}
}

func (m *MockSkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *skill
	m.Skills[skill.ID] = &cp
	return nil
}

func (m *MockSkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	return m.Create(ctx, skill)
}

func (m *MockSkillRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Skills[id]
	delete(m.Skills, id)
	return ok, nil
}

func (m *MockSkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Skills[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// List counts its calls so tests can observe caching
func (m *MockSkillRepository) List(ctx context.Context) ([]*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	out := []*models.Skill{}
	for _, s := range m.Skills {
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockSkillRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Skills), nil
}

// MockExperienceRepository is a mock implementation of ExperienceRepository
type MockExperienceRepository struct {
	mu          sync.Mutex
	Experiences map[string]*models.Experience
}

func NewMockExperienceRepository() *MockExperienceRepository {
	return &MockExperienceRepository{Experiences: make(map[string]*models.Experience)}
}

func (m *MockExperienceRepository) Create(ctx context.Context, e *models.Experience) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.Experiences[e.ID] = &cp
	return nil
}

func (m *MockExperienceRepository) Update(ctx context.Context, e *models.Experience) error {
	return m.Create(ctx, e)
}

func (m *MockExperienceRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Experiences[id]
	delete(m.Experiences, id)
	return ok, nil
}

func (m *MockExperienceRepository) GetByID(ctx context.Context, id string) (*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Experiences[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *MockExperienceRepository) List(ctx context.Context) ([]*models.Experience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Experience{}
	for _, e := range m.Experiences {
		cp := *e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockExperienceRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Experiences), nil
}

// MockTestimonialRepository is a mock implementation of TestimonialRepository
type MockTestimonialRepository struct {
	mu           sync.Mutex
	Testimonials map[string]*models.Testimonial
}

func NewMockTestimonialRepository() *MockTestimonialRepository {
	return &MockTestimonialRepository{Testimonials: make(map[string]*models.Testimonial)}
}

func (m *MockTestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.Testimonials[t.ID] = &cp
	return nil
}

func (m *MockTestimonialRepository) Update(ctx context.Context, t *models.Testimonial) error {
	return m.Create(ctx, t)
}

func (m *MockTestimonialRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Testimonials[id]
	delete(m.Testimonials, id)
	return ok, nil
}

func (m *MockTestimonialRepository) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Testimonials[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MockTestimonialRepository) List(ctx context.Context, limit int) ([]*models.Testimonial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Testimonial{}
	for _, t := range m.Testimonials {
		cp := *t
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockTestimonialRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Testimonials), nil
}

// MockSubscriberRepository is a mock implementation of SubscriberRepository
type MockSubscriberRepository struct {
	mu          sync.Mutex
	Subscribers map[string]*models.Subscriber
}

func NewMockSubscriberRepository() *MockSubscriberRepository {
	return &MockSubscriberRepository{Subscribers: make(map[string]*models.Subscriber)}
}

func (m *MockSubscriberRepository) filtered(filter models.SubscriberFilter) []*models.Subscriber {
	out := []*models.Subscriber{}
	for _, s := range m.Subscribers {
		if filter.Status == "active" && !s.IsActive || filter.Status == "inactive" && s.IsActive {
			continue
		}
		if filter.Search != "" && !containsFold(s.Email, filter.Search) && !containsFold(s.Name, filter.Search) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubscribedAt.Equal(out[j].SubscribedAt) {
			return out[i].SubscribedAt.After(out[j].SubscribedAt)
		}
		return out[i].Email < out[j].Email
	})
	return out
}

// Create inserts unless the email is already present
func (m *MockSubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subscribers {
		if s.Email == subscriber.Email {
			return false, nil
		}
	}
	cp := *subscriber
	m.Subscribers[subscriber.ID] = &cp
	return true, nil
}

func (m *MockSubscriberRepository) Update(ctx context.Context, subscriber *models.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *subscriber
	m.Subscribers[subscriber.ID] = &cp
	return nil
}

func (m *MockSubscriberRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Subscribers[id]
	delete(m.Subscribers, id)
	return ok, nil
}

func (m *MockSubscriberRepository) GetByID(ctx context.Context, id string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subscribers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subscribers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriberRepository) List(ctx context.Context, filter models.SubscriberFilter, p models.Pagination) ([]*models.Subscriber, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filtered(filter)
	return page(all, p), len(all), nil
}

func (m *MockSubscriberRepository) Stats(ctx context.Context, monthStart time.Time) (models.SubscriberStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st models.SubscriberStats
	for _, s := range m.Subscribers {
		st.Total++
		if s.IsActive {
			st.Active++
		} else {
			st.Inactive++
		}
		if !s.SubscribedAt.Before(monthStart) {
			st.ThisMonth++
		}
	}
	return st, nil
}

func (m *MockSubscriberRepository) StreamAll(ctx context.Context, filter models.SubscriberFilter, callback func(*models.Subscriber) error) error {
	m.mu.Lock()
	all := m.filtered(filter)
	m.mu.Unlock()
	for _, s := range all {
		if err := callback(s); err != nil {
			return err
		}
	}
	return nil
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mu          sync.Mutex
	Messages    map[string]*models.ContactMessage
	InsertError error
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{Messages: make(map[string]*models.ContactMessage)}
}

func (m *MockContactRepository) sorted(unreadOnly bool) []*models.ContactMessage {
	out := []*models.ContactMessage{}
	for _, msg := range m.Messages {
		if unreadOnly && msg.IsRead {
			continue
		}
		cp := *msg
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MockContactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *message
	m.Messages[message.ID] = &cp
	return nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (m *MockContactRepository) MarkRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.Messages[id]; ok {
		msg.IsRead = true
	}
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Messages[id]
	delete(m.Messages, id)
	return ok, nil
}

func (m *MockContactRepository) List(ctx context.Context, unreadOnly bool, p models.Pagination) ([]*models.ContactMessage, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(unreadOnly)
	return page(all, p), len(all), nil
}

func (m *MockContactRepository) Count(ctx context.Context, unreadOnly bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sorted(unreadOnly)), nil
}

func (m *MockContactRepository) Recent(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := m.sorted(false)
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// MockCVRepository is a mock implementation of CVRepository
type MockCVRepository struct {
	mu  sync.Mutex
	CVs map[string]*models.CV
}

func NewMockCVRepository() *MockCVRepository {
	return &MockCVRepository{CVs: make(map[string]*models.CV)}
}

func (m *MockCVRepository) CreateActive(ctx context.Context, cv *models.CV) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.CVs {
		other.IsActive = false
	}
	cp := *cv
	cp.IsActive = true
	m.CVs[cv.ID] = &cp
	return nil
}

func (m *MockCVRepository) GetByID(ctx context.Context, id string) (*models.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.CVs[id]
	if !ok {
		return nil, nil
	}
	cp := *cv
	return &cp, nil
}

func (m *MockCVRepository) GetActive(ctx context.Context) (*models.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cv := range m.CVs {
		if cv.IsActive {
			cp := *cv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockCVRepository) List(ctx context.Context) ([]*models.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.CV{}
	for _, cv := range m.CVs {
		cp := *cv
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCVRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.CVs[id]
	delete(m.CVs, id)
	return ok, nil
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mu          sync.Mutex
	Entries     []*models.ActivityLog
	InsertError error
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockActivityRepository) List(ctx context.Context, filter models.ActivityFilter, p models.Pagination) ([]*models.ActivityLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []*models.ActivityLog{}
	for i := len(m.Entries) - 1; i >= 0; i-- {
		e := m.Entries[i]
		if filter.EntityKind != "" && e.EntityKind != filter.EntityKind {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		all = append(all, e)
	}
	return page(all, p), len(all), nil
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	mu          sync.Mutex
	Jobs        map[string]*models.NotificationJob
	InsertError error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{Jobs: make(map[string]*models.NotificationJob)}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.NotificationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	cp := *job
	m.Jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.NotificationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobRepository) GetDueJobs(ctx context.Context, now time.Time, limit int) ([]*models.NotificationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := []*models.NotificationJob{}
	for _, job := range m.Jobs {
		if job.Status == models.JobStatusPending && !job.RunAt.After(now) {
			cp := *job
			due = append(due, &cp)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// The Mark* methods fail on a done context like a real ExecContext would

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string, startedAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[jobID]
	if !ok || job.Status != models.JobStatusPending {
		return false, nil
	}
	job.Status = models.JobStatusProcessing
	job.StartedAt = &startedAt
	return true, nil
}

func (m *MockJobRepository) MarkCompleted(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.Jobs[jobID]; ok {
		now := time.Now()
		job.Status = models.JobStatusCompleted
		job.Attempts++
		job.CompletedAt = &now
	}
	return nil
}

func (m *MockJobRepository) MarkRetry(ctx context.Context, jobID string, attempts int, runAt time.Time, lastErr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.Jobs[jobID]; ok {
		job.Status = models.JobStatusPending
		job.Attempts = attempts
		job.RunAt = runAt
		job.LastError = lastErr
	}
	return nil
}

func (m *MockJobRepository) MarkFailed(ctx context.Context, jobID string, attempts int, lastErr string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.Jobs[jobID]; ok {
		now := time.Now()
		job.Status = models.JobStatusFailed
		job.Attempts = attempts
		job.LastError = lastErr
		job.CompletedAt = &now
	}
	return nil
}

func (m *MockJobRepository) RequeueStale(ctx context.Context, startedBefore time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, job := range m.Jobs {
		if job.Status == models.JobStatusProcessing && job.StartedAt != nil && job.StartedAt.Before(startedBefore) {
			job.Status = models.JobStatusPending
			job.StartedAt = nil
			n++
		}
	}
	return n, nil
}

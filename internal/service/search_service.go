package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/portfolio-api/internal/htmltext"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	searchLimit   = 20
	snippetRadius = 80
)

// Match tiers, lower ranks first
const (
	tierTitle = 1
	tierTag   = 2
	tierBody  = 3
)

// searchService is the concrete implementation of SearchService
type searchService struct {
	articles repository.ArticleRepository
	projects repository.ProjectRepository
	now      func() time.Time
	log      zerolog.Logger
}

func newSearchService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *searchService {
	return &searchService{
		articles: repos.Article,
		projects: repos.Project,
		now:      now,
		log:      log.With().Str("service", "search").Logger(),
	}
}

// Search finds published articles and active projects matching query
func (s *searchService) Search(ctx context.Context, query, searchType string) (*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if searchType == "" {
		searchType = string(models.SearchAll)
	}
	if err := invalid(validation.ValidateSearch(query, searchType)); err != nil {
		return nil, err
	}

	result := &models.SearchResult{
		Query:    query,
		Type:     models.SearchType(searchType),
		Articles: []*models.ArticleHit{},
		Projects: []*models.ProjectHit{},
	}
	if query == "" {
		return result, nil
	}

	if result.Type != models.SearchProjects {
		articles, err := s.articles.Search(ctx, query, s.now(), searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search articles: %w", err)
		}
		result.Articles = rankArticles(articles, query)
	}

	if result.Type != models.SearchArticles {
		projects, err := s.projects.Search(ctx, query, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search projects: %w", err)
		}
		result.Projects = rankProjects(projects, query)
	}

	result.Total = len(result.Articles) + len(result.Projects)
	s.log.Debug().Str("query", query).Str("type", searchType).Int("total", result.Total).Msg("Search completed")
	return result, nil
}

func contains(field, lowerQuery string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), lowerQuery)
}

func anyContains(values []string, lowerQuery string) bool {
	for _, v := range values {
		if contains(v, lowerQuery) {
			return true
		}
	}
	return false
}

// articleTier is the best tier among the fields query matched
func articleTier(a *models.Article, lowerQuery string) int {
	switch {
	case contains(a.Title, lowerQuery):
		return tierTitle
	case contains(a.Category, lowerQuery), anyContains(a.Tags, lowerQuery):
		return tierTag
	default:
		return tierBody
	}
}

func projectTier(p *models.Project, lowerQuery string) int {
	switch {
	case contains(p.Title, lowerQuery):
		return tierTitle
	case anyContains(p.Tags, lowerQuery):
		return tierTag
	default:
		return tierBody
	}
}

// rankArticles orders articles by tier, keeping store order within a tier
func rankArticles(articles []*models.Article, query string) []*models.ArticleHit {
	lowerQuery := strings.ToLower(query)
	hits := make([]*models.ArticleHit, 0, len(articles))
	for _, a := range articles {
		hit := &models.ArticleHit{Article: a, Tier: articleTier(a, lowerQuery)}
		text := htmltext.PlainText(a.Content)
		if !contains(text, lowerQuery) && a.Excerpt != "" {
			text = a.Excerpt
		}
		hit.Snippet = htmltext.Snippet(text, query, snippetRadius)
		hits = append(hits, hit)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Tier < hits[j].Tier })
	return hits
}

func rankProjects(projects []*models.Project, query string) []*models.ProjectHit {
	lowerQuery := strings.ToLower(query)
	hits := make([]*models.ProjectHit, 0, len(projects))
	for _, p := range projects {
		hits = append(hits, &models.ProjectHit{Project: p, Tier: projectTier(p, lowerQuery)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Tier < hits[j].Tier })
	return hits
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

// PublicHandler serves the read-only site endpoints
type PublicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// Home handles GET /api/home
func (h *PublicHandler) Home(c *gin.Context) {
	home, err := h.services.Content.Home(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// ListProjects handles GET /api/projects
func (h *PublicHandler) ListProjects(c *gin.Context) {
	archived := false
	projects, err := h.services.Content.ListProjects(c.Request.Context(), &archived)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects})
}

// ArchivedProjects handles GET /api/projects/archive
func (h *PublicHandler) ArchivedProjects(c *gin.Context) {
	archived := true
	projects, err := h.services.Content.ListProjects(c.Request.Context(), &archived)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": projects})
}

// GetProject handles GET /api/projects/:id
func (h *PublicHandler) GetProject(c *gin.Context) {
	project, err := h.services.Content.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListSkills handles GET /api/skills
func (h *PublicHandler) ListSkills(c *gin.Context) {
	skills, err := h.services.Content.ListSkills(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": skills})
}

// ListExperiences handles GET /api/experiences
func (h *PublicHandler) ListExperiences(c *gin.Context) {
	experiences, err := h.services.Content.ListExperiences(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": experiences})
}

// ListTestimonials handles GET /api/testimonials
func (h *PublicHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.services.Content.ListTestimonials(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": testimonials})
}

// ListArticles handles GET /api/articles?page&category&tag
func (h *PublicHandler) ListArticles(c *gin.Context) {
	h.listArticles(c, c.Query("category"), c.Query("tag"))
}

// ArticlesByCategory handles GET /api/articles/category/:category
func (h *PublicHandler) ArticlesByCategory(c *gin.Context) {
	h.listArticles(c, c.Param("category"), "")
}

// ArticlesByTag handles GET /api/articles/tag/:tag
func (h *PublicHandler) ArticlesByTag(c *gin.Context) {
	h.listArticles(c, "", c.Param("tag"))
}

func (h *PublicHandler) listArticles(c *gin.Context, category, tag string) {
	page, err := h.services.Article.ListPublished(c.Request.Context(), category, tag, pageParam(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Categories handles GET /api/articles/categories
func (h *PublicHandler) Categories(c *gin.Context) {
	categories, err := h.services.Article.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// Tags handles GET /api/articles/tags
func (h *PublicHandler) Tags(c *gin.Context) {
	tags, err := h.services.Article.Tags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// ShowArticle handles GET /api/articles/:slug
func (h *PublicHandler) ShowArticle(c *gin.Context) {
	detail, err := h.services.Article.Show(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search handles GET /search?q=&type=
func (h *PublicHandler) Search(c *gin.Context) {
	result, err := h.services.Search.Search(c.Request.Context(), c.Query("q"), c.Query("type"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

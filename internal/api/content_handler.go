package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

// resource is the admin CRUD surface of one content type
type resource[T any, I any] struct {
	list   func(ctx context.Context, c *gin.Context) (interface{}, error)
	get    func(ctx context.Context, id string) (T, error)
	create func(ctx context.Context, in *I) (T, error)
	update func(ctx context.Context, id string, in *I) (T, error)
	delete func(ctx context.Context, id string) error
}

func (r resource[T, I]) register(g *gin.RouterGroup, path string, log zerolog.Logger) {
	g.GET(path, func(c *gin.Context) {
		out, err := r.list(c.Request.Context(), c)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	g.POST(path, func(c *gin.Context) {
		var in I
		if !bindJSON(c, &in) {
			return
		}
		out, err := r.create(c.Request.Context(), &in)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})
	g.GET(path+"/:id", func(c *gin.Context) {
		out, err := r.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	g.PUT(path+"/:id", func(c *gin.Context) {
		var in I
		if !bindJSON(c, &in) {
			return
		}
		out, err := r.update(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	g.DELETE(path+"/:id", func(c *gin.Context) {
		if err := r.delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully."})
	})
}

// ContentHandler registers the admin CRUD routes for articles and the
// portfolio sections
type ContentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(services *service.Services, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		services: services,
		log:      log.With().Str("handler", "content").Logger(),
	}
}

func wrapList[T any](data []T, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return gin.H{"data": data}, nil
}

func (h *ContentHandler) register(g *gin.RouterGroup) {
	content := h.services.Content
	articles := h.services.Article

	resource[*models.Article, models.ArticleInput]{
		list: func(ctx context.Context, c *gin.Context) (interface{}, error) {
			filter := models.ArticleFilter{
				Status:   models.ArticleStatus(c.Query("status")),
				Category: c.Query("category"),
				Search:   c.Query("search"),
			}
			return articles.AdminList(ctx, filter, pageParam(c))
		},
		get:    articles.Get,
		create: articles.Create,
		update: articles.Update,
		delete: articles.Delete,
	}.register(g, "/articles", h.log)

	resource[*models.Project, models.ProjectInput]{
		list: func(ctx context.Context, c *gin.Context) (interface{}, error) {
			return wrapList[*models.Project](content.ListProjects(ctx, nil))
		},
		get:    content.GetProject,
		create: content.CreateProject,
		update: content.UpdateProject,
		delete: content.DeleteProject,
	}.register(g, "/projects", h.log)

	resource[*models.Skill, models.SkillInput]{
		list: func(ctx context.Context, c *gin.Context) (interface{}, error) {
			return wrapList[*models.Skill](content.ListSkills(ctx))
		},
		get:    content.GetSkill,
		create: content.CreateSkill,
		update: content.UpdateSkill,
		delete: content.DeleteSkill,
	}.register(g, "/skills", h.log)

	resource[*models.Experience, models.ExperienceInput]{
		list: func(ctx context.Context, c *gin.Context) (interface{}, error) {
			return wrapList[*models.Experience](content.ListExperiences(ctx))
		},
		get:    content.GetExperience,
		create: content.CreateExperience,
		update: content.UpdateExperience,
		delete: content.DeleteExperience,
	}.register(g, "/experiences", h.log)

	resource[*models.Testimonial, models.TestimonialInput]{
		list: func(ctx context.Context, c *gin.Context) (interface{}, error) {
			return wrapList[*models.Testimonial](content.ListTestimonials(ctx))
		},
		get:    content.GetTestimonial,
		create: content.CreateTestimonial,
		update: content.UpdateTestimonial,
		delete: content.DeleteTestimonial,
	}.register(g, "/testimonials", h.log)
}

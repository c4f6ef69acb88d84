package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

const msgUploadFailed = "Failed to upload image. Please try again."

// AdminHandler handles the back-office endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.services.Dashboard.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// BulkDeleteArticles handles POST /admin/articles/bulk-delete
func (h *AdminHandler) BulkDeleteArticles(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.services.Article.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": strconv.Itoa(n) + " article(s) deleted.", "deleted": n})
}

// ListComments handles GET /admin/comments?status&article_id&page
func (h *AdminHandler) ListComments(c *gin.Context) {
	filter := models.CommentFilter{
		Status:    models.CommentStatus(c.Query("status")),
		ArticleID: c.Query("article_id"),
	}
	page, err := h.services.Moderation.List(c.Request.Context(), filter, pageParam(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ApproveComment handles POST /admin/comments/:id/approve
func (h *AdminHandler) ApproveComment(c *gin.Context) {
	comment, err := h.services.Moderation.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment approved.", "comment": comment})
}

// RejectComment handles POST /admin/comments/:id/reject
func (h *AdminHandler) RejectComment(c *gin.Context) {
	comment, err := h.services.Moderation.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment rejected.", "comment": comment})
}

// DeleteComment handles DELETE /admin/comments/:id
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	if err := h.services.Moderation.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted."})
}

// ListMessages handles GET /admin/contact-messages?unread&page
func (h *AdminHandler) ListMessages(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.Query("unread"))
	inbox, err := h.services.Contact.List(c.Request.Context(), unread, pageParam(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, inbox)
}

// GetMessage handles GET /admin/contact-messages/:id
func (h *AdminHandler) GetMessage(c *gin.Context) {
	msg, err := h.services.Contact.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage handles DELETE /admin/contact-messages/:id
func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	if err := h.services.Contact.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted."})
}

// ListSubscribers handles GET /admin/newsletter?status&search&page
func (h *AdminHandler) ListSubscribers(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.SubscriberFilter{Status: c.Query("status"), Search: c.Query("search")}
	page, err := h.services.Newsletter.List(ctx, filter, pageParam(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	stats, err := h.services.Newsletter.Stats(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": page.Data, "meta": page.Meta, "stats": stats})
}

// DeleteSubscriber handles DELETE /admin/newsletter/:id
func (h *AdminHandler) DeleteSubscriber(c *gin.Context) {
	if err := h.services.Newsletter.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscriber deleted."})
}

// ListCVs handles GET /admin/cv
func (h *AdminHandler) ListCVs(c *gin.Context) {
	cvs, err := h.services.CV.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cvs})
}

// UploadCV handles POST /admin/cv (multipart field "file")
func (h *AdminHandler) UploadCV(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "file is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	cv, err := h.services.CV.Upload(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "CV uploaded successfully.", "cv": cv})
}

// DeleteCV handles DELETE /admin/cv/:id
func (h *AdminHandler) DeleteCV(c *gin.Context) {
	if err := h.services.CV.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "CV deleted."})
}

// UploadMedia handles POST /admin/media (multipart field "image")
func (h *AdminHandler) UploadMedia(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "image is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondErrorWith(c, h.log, err, msgUploadFailed)
		return
	}
	defer file.Close()

	upload, err := h.services.Media.UploadImage(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		respondErrorWith(c, h.log, err, msgUploadFailed)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ListActivity handles GET /admin/activity-logs?entity_kind&action&page
func (h *AdminHandler) ListActivity(c *gin.Context) {
	filter := models.ActivityFilter{
		EntityKind: models.EntityKind(c.Query("entity_kind")),
		Action:     models.ActivityAction(c.Query("action")),
	}
	page, err := h.services.Activity.List(c.Request.Context(), filter, pageParam(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

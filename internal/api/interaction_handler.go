package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	msgCommentPending = "Your comment has been submitted and is awaiting moderation."
	msgContactThanks  = "Thank you for your message! I'll get back to you soon."
	msgSubscribed     = "Thank you for subscribing!"
	msgUnsubscribed   = "Successfully unsubscribed."
)

// InteractionHandler serves the public write endpoints: comments,
// reactions, the contact form and the newsletter
type InteractionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(services *service.Services, log zerolog.Logger) *InteractionHandler {
	return &InteractionHandler{
		services: services,
		log:      log.With().Str("handler", "interaction").Logger(),
	}
}

// SubmitComment handles POST /articles/:article/comments
func (h *InteractionHandler) SubmitComment(c *gin.Context) {
	var in models.SubmitCommentInput
	if !bindForm(c, &in) {
		return
	}

	comment, err := h.services.Comment.Submit(c.Request.Context(), c.Param("article"), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if comment == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msgCommentPending, "comment": comment})
}

// ToggleReaction handles POST /comments/:comment/reactions
func (h *InteractionHandler) ToggleReaction(c *gin.Context) {
	var req struct {
		ReactionType string `json:"reaction_type" form:"reaction_type"`
	}
	if !bindForm(c, &req) {
		return
	}

	result, err := h.services.Reaction.Toggle(c.Request.Context(), c.Param("comment"), req.ReactionType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitContact handles POST /contact
func (h *InteractionHandler) SubmitContact(c *gin.Context) {
	var in models.ContactInput
	if !bindForm(c, &in) {
		return
	}
	if err := h.services.Contact.Submit(c.Request.Context(), &in); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgContactThanks})
}

// Subscribe handles POST /newsletter/subscribe
func (h *InteractionHandler) Subscribe(c *gin.Context) {
	var in models.SubscribeInput
	if !bindForm(c, &in) {
		return
	}
	sub, err := h.services.Newsletter.Subscribe(c.Request.Context(), &in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgSubscribed, "subscriber": sub})
}

// Unsubscribe handles POST /newsletter/unsubscribe/:email
func (h *InteractionHandler) Unsubscribe(c *gin.Context) {
	if err := h.services.Newsletter.Unsubscribe(c.Request.Context(), c.Param("email")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgUnsubscribed})
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-api/internal/service"
	"github.com/rs/zerolog"
)

const msgServerError = "Something went wrong. Please try again later."

// respondError maps a service error to its HTTP status and body
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	respondErrorWith(c, log, err, msgServerError)
}

// respondErrorWith is respondError with a custom message for unexpected errors
func respondErrorWith(c *gin.Context, log zerolog.Logger, err error, fallback string) {
	var verr *service.ValidationErrors
	var rl *service.RateLimitError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.Error(), "errors": verr.Errors})
	case errors.As(err, &rl):
		c.Header("Retry-After", strconv.Itoa(rl.RetryAfterSeconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message":     rl.Message,
			"error":       "rate_limit_exceeded",
			"retry_after": rl.RetryAfterSeconds(),
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "This action is not allowed"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrUploadFailed):
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback, "error": "upload_failed"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

// bindJSON decodes the body, answering 400 on malformed JSON
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return false
	}
	return true
}

// bindForm accepts JSON or form-encoded bodies
func bindForm(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBind(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return false
	}
	return true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

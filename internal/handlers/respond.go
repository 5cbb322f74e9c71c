package handlers

import (
	"context"
	"net/http"
	"strconv"

	"sports-auction/internal/apperr"
	"sports-auction/internal/auth"
	"sports-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err in the shared error shape. Internal errors hide
// their cause from the client; the request logger picks it up from c.Errors.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	_ = c.Error(err)

	message := appErr.Message()
	if appErr.Kind() == apperr.KindInternal {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(appErr.Kind()), gin.H{
		"error": gin.H{
			"code":      appErr.Kind(),
			"reason":    appErr.Reason(),
			"message":   message,
			"retryable": appErr.Kind().Retryable(),
		},
	})
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// bindJSON binds the body into req and answers 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperr.ErrInvalidInput.WithMessage("invalid request body: %v", err))
		return false
	}
	return true
}

// pathID parses the named uuid path parameter. notFound is returned for ids
// that do not parse, since no such entity can exist.
func pathID(c *gin.Context, name string, notFound *apperr.Error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, notFound.WithMessage("invalid %s %q", name, c.Param(name)))
		return uuid.Nil, false
	}
	return id, true
}

// bodyID parses a uuid taken from a request body field
func bodyID(c *gin.Context, raw, field string, notFound *apperr.Error) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, notFound.WithMessage("invalid %s %q", field, raw))
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(c.Query("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

// requestContext carries the caller identity down to the audit log
func requestContext(c *gin.Context) context.Context {
	return services.WithActor(c.Request.Context(), auth.Actor(c))
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

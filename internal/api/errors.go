package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/store"
)

// fail maps store errors to responses. Unexpected errors are logged and
// answered with the route's generic message.
func (s *Server) fail(c *gin.Context, err error, internal string) {
	var ve *store.ValidationError
	var ce *store.ConflictError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &ce):
		body := gin.H{"error": ce.Message}
		if ce.ActiveSessionID != 0 {
			body["active_session_id"] = ce.ActiveSessionID
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Task does not belong to you"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		s.logger.Error(internal, "err", err, "user", userID(c), "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// bindOptional decodes a JSON body into v. An empty body leaves v untouched.
func bindOptional(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

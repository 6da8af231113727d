package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// handleError maps a service error onto the HTTP error taxonomy. Validation
// messages are returned verbatim; anything unclassified is logged and
// answered with internalMsg.
func (h *Handler) handleError(c *gin.Context, err error, internalMsg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		badRequest(c, ve.Message)
	case errors.Is(err, domain.ErrValidation):
		badRequest(c, "Invalid event")
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Event not found"})
	default:
		h.requestLogger(c).Error(internalMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: internalMsg})
	}
}

func (h *Handler) requestLogger(c *gin.Context) *zap.Logger {
	return logging.WithRequestID(h.logger, c.GetString(requestIDKey))
}

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/internal/service"
)

// EventService is what the handlers need from the service layer
type EventService interface {
	List(ctx context.Context, q service.ListQuery) (*service.ListResult, error)
	Create(ctx context.Context, candidate domain.Event) (domain.Event, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Aggregations(ctx context.Context, start, end time.Time) (*domain.AggregationData, error)
	Ready(ctx context.Context) error
}

// Handler serves the event and aggregation endpoints
type Handler struct {
	events EventService
	logger *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(events EventService, logger *zap.Logger) *Handler {
	return &Handler{events: events, logger: logger}
}

// ListEvents handles GET /api/events
func (h *Handler) ListEvents(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "limit must be a positive integer")
		return
	}
	if err := validate.Struct(params); err != nil {
		if limitInvalid(err) {
			badRequest(c, "limit must be a positive integer")
			return
		}
		badRequest(c, "startDate and endDate are required")
		return
	}

	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		badRequest(c, msgInvalidDate)
		return
	}

	q := service.ListQuery{Start: start, End: end}
	if params.Limit != nil {
		q.Limit = *params.Limit
	}

	result, err := h.events.List(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err, "Failed to read events")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateEvent handles POST /api/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var body domain.EventPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	created, err := h.events.Create(c.Request.Context(), body.Apply(domain.Event{}))
	if err != nil {
		h.handleError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateEvent handles PUT /api/events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var body domain.EventPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	updated, err := h.events.Update(c.Request.Context(), id, body)
	if err != nil {
		h.handleError(c, err, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete event")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAggregations handles GET /api/aggregations
func (h *Handler) GetAggregations(c *gin.Context) {
	var params rangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, msgInvalidDate)
		return
	}
	if err := validate.Struct(params); err != nil {
		badRequest(c, "startDate, endDate are required")
		return
	}

	start, end, err := parseRange(params.StartDate, params.EndDate)
	if err != nil {
		badRequest(c, msgInvalidDate)
		return
	}

	data, err := h.events.Aggregations(c.Request.Context(), start, end)
	if err != nil {
		h.handleError(c, err, "Failed to read aggregations")
		return
	}

	c.JSON(http.StatusOK, data)
}

func eventID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid event ID format")
		return uuid.Nil, false
	}
	return id, true
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/logging"
	"github.com/septivank/babybeat/internal/mq"
)

// ImportService turns queued import messages into stored events
type ImportService struct {
	events *EventService
	logger *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(events *EventService, logger *zap.Logger) *ImportService {
	return &ImportService{
		events: events,
		logger: logger,
	}
}

// ProcessMessage decodes one import message and creates its event. Any error
// is returned so the consumer dead-letters the message; nothing is retried.
func (s *ImportService) ProcessMessage(ctx context.Context, body []byte) error {
	var msg mq.ImportMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	reqLogger := logging.WithRequestID(s.logger, msg.RequestID)
	reqLogger.Info("processing import message",
		zap.String("source", msg.Source),
		zap.String("type", string(msg.Event.Type)),
		zap.Time("timestamp", msg.Event.Timestamp),
	)

	candidate := msg.Event
	candidate.ID = uuid.Nil

	created, err := s.events.Create(ctx, candidate)
	if err != nil {
		reqLogger.Warn("import rejected", zap.Error(err))
		return fmt.Errorf("failed to import event: %w", err)
	}

	reqLogger.Info("import message processed successfully",
		zap.String("event_id", created.ID.String()),
	)

	return nil
}

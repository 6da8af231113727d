package mq

import (
	"time"

	"github.com/septivank/babybeat/internal/domain"
)

// ImportMessage carries one event candidate through the import queue
type ImportMessage struct {
	RequestID  string       `json:"request_id"`
	Source     string       `json:"source"`
	ReceivedAt time.Time    `json:"received_at"`
	Event      domain.Event `json:"event"`
}

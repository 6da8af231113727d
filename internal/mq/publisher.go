package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
)

// Publisher publishes import messages to RabbitMQ
type Publisher struct {
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *zap.Logger
}

// NewPublisher creates a new RabbitMQ publisher and declares the import topology
func NewPublisher(conn *Connection, cfg config.RabbitMQConfig, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := declareTopology(ch, cfg, logger); err != nil {
		ch.Close()
		return nil, err
	}

	return &Publisher{
		channel:    ch,
		exchange:   cfg.ImportExchange,
		routingKey: cfg.ImportRoutingKey,
		logger:     logger,
	}, nil
}

// PublishImport publishes one import message as persistent JSON
func (p *Publisher) PublishImport(ctx context.Context, msg ImportMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal import message: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: msg.RequestID,
			Timestamp:     msg.ReceivedAt,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish import message: %w", err)
	}

	p.logger.Debug("published import message",
		zap.String("request_id", msg.RequestID),
		zap.String("routing_key", p.routingKey),
		zap.String("type", string(msg.Event.Type)),
	)

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}

package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
)

// declareTopology declares the import exchange, the import queue with its
// dead-letter queue and the binding between them. Both the publisher and the
// consumer declare it so neither depends on the other starting first.
func declareTopology(ch *amqp.Channel, cfg config.RabbitMQConfig, logger *zap.Logger) error {
	err := ch.ExchangeDeclare(
		cfg.ImportExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.DLQQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	// rejected imports are dead-lettered through the default exchange
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.DLQQueue,
	}
	_, err = ch.QueueDeclare(
		cfg.ImportQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		args,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue (an existing queue must carry the same dead-letter arguments): %w", err)
	}

	err = ch.QueueBind(
		cfg.ImportQueue,
		cfg.ImportRoutingKey,
		cfg.ImportExchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	logger.Debug("import topology declared",
		zap.String("exchange", cfg.ImportExchange),
		zap.String("queue", cfg.ImportQueue),
		zap.String("dlq", cfg.DLQQueue),
	)

	return nil
}

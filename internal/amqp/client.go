// Package amqp connects the worker to the message broker and drives the
// consume/acknowledge state machine.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"finguru/internal/core"
)

// TransactionProcessor handles one decoded enrichment request.
type TransactionProcessor interface {
	Process(ctx context.Context, transactionID, userID string) core.ProcessingResult
}

type Client struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
}

// NewClient dials the broker, declares the durable enrichment queue and
// bounds in-flight work to a single message.
func NewClient(url, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	_, err := c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// One unacknowledged message at a time keeps relational writes
	// ordered and avoids interleaved partial commits on the same row.
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	return nil
}

// PublishEnrichment enqueues a categorize-and-embed request.
func (c *Client) PublishEnrichment(ctx context.Context, transactionID, userID string) error {
	msg := NewEnrichmentMessage(transactionID, userID)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		"",          // default exchange
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published enrichment message",
		"transaction_id", transactionID,
		"queue", c.queueName)

	return nil
}

// Consume runs the worker loop until ctx is cancelled. The in-flight
// message always finishes before the loop returns; cancellation only
// stops the loop from taking the next delivery.
func (c *Client) Consume(ctx context.Context, processor TransactionProcessor) error {
	deliveries, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming enrichment messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.handleDelivery(ctx, processor, delivery)
		}
	}
}

// handleDelivery walks one message through received -> validated ->
// dispatched -> acknowledged.
func (c *Client) handleDelivery(ctx context.Context, processor TransactionProcessor, delivery amqp091.Delivery) {
	// A stop signal cancels the consume loop, never the message already
	// in hand: dispatch runs on a detached context so an open relational
	// transaction, embedding call or vector write finishes and commits
	// before the worker exits.
	ctx = context.WithoutCancel(ctx)

	msg, err := EnrichmentMessageFromJSON(delivery.Body)
	if err != nil {
		// Poison message: it will never parse, so never requeue it.
		slog.ErrorContext(ctx, "Failed to unmarshal message",
			"kind", string(core.ErrKindMalformedMessage),
			"error", err)
		delivery.Nack(false, false)
		return
	}

	if err := msg.Validate(); err != nil {
		// Recognized-but-unactionable and unknown messages are dropped;
		// redelivery cannot make them actionable.
		slog.WarnContext(ctx, "Dropping unactionable message",
			"action", msg.Action,
			"error", err)
		delivery.Ack(false)
		return
	}

	switch msg.Action {
	case ActionCategorizeAndEmbed:
		result := processor.Process(ctx, msg.TransactionID, msg.UserID)
		if decide(result) == nackRequeue {
			slog.WarnContext(ctx, "Requeueing message after transient failure",
				"transaction_id", msg.TransactionID,
				"error", result.Err)
			delivery.Nack(false, true)
			return
		}

		if result.Success {
			slog.InfoContext(ctx, "Processed transaction",
				"transaction_id", result.TransactionID,
				"categorized", result.Categorized,
				"embedded", result.Embedded)
		} else {
			slog.ErrorContext(ctx, "Transaction processing failed terminally",
				"transaction_id", result.TransactionID,
				"error", result.Err)
		}
		delivery.Ack(false)

	case ActionSync:
		slog.InfoContext(ctx, "Bulk sync requested", "user_id", msg.UserID)
		delivery.Ack(false)
	}
}

type ackDecision int

const (
	ack ackDecision = iota
	nackRequeue
)

// decide maps a processing result onto the broker acknowledgment. The
// writer's own outcome (success or a logical failure like not-found) is
// terminal; only transient failure kinds earn a redelivery.
func decide(result core.ProcessingResult) ackDecision {
	if result.Err != nil && result.Err.Kind.Requeueable() {
		return nackRequeue
	}
	return ack
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

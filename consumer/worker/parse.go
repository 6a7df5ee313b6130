package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/infra/produce"
	"github.com/tnqbao/gau-wiki-gateway/repository"
	"gorm.io/datatypes"
)

// Consumer is the subset of *amqp.Channel needed to receive deliveries.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type ParseResultStore interface {
	UpdateParseResult(ctx context.Context, id uuid.UUID, status entity.ParseStatus, result datatypes.JSON, parseErr string) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...any)
	WarningWithContextf(ctx context.Context, format string, args ...any)
	ErrorWithContextf(ctx context.Context, err error, format string, args ...any)
}

var errMalformed = errors.New("malformed parse result")

// ParseResultConsumer stores the document parser's verdicts on file records.
type ParseResultConsumer struct {
	channel    Consumer
	files      ParseResultStore
	logger     Logger
	maxRetries int
	backoff    time.Duration
}

func NewParseResultConsumer(channel Consumer, files ParseResultStore, logger Logger) *ParseResultConsumer {
	return &ParseResultConsumer{
		channel:    channel,
		files:      files,
		logger:     logger,
		maxRetries: 3,
		backoff:    2 * time.Second,
	}
}

func (c *ParseResultConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.FileParseResultQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register parse result consumer: %w", err)
	}

	c.logger.InfoWithContextf(ctx, "[Parse Consumer] Started listening for parse results on queue: %s", produce.FileParseResultQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.InfoWithContextf(ctx, "[Parse Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.WarningWithContextf(ctx, "[Parse Consumer] Channel closed")
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ParseResultConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	fileID, payload, err := decodeParseResult(msg.Body)
	if err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Parse Consumer] Dropping message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		err = c.files.UpdateParseResult(ctx, fileID, payload.ParseStatus, datatypes.JSON(payload.Result), payload.Error)
		if err == nil {
			c.logger.InfoWithContextf(ctx, "[Parse Consumer] File %s parse status set to %s", fileID, payload.ParseStatus)
			_ = msg.Ack(false)
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.logger.WarningWithContextf(ctx, "[Parse Consumer] File %s no longer exists, discarding result", fileID)
			_ = msg.Ack(false)
			return
		}

		c.logger.ErrorWithContextf(ctx, err, "[Parse Consumer] Attempt %d/%d failed: %v", attempt, c.maxRetries, err)
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				_ = msg.Nack(false, true)
				return
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
	}

	c.logger.ErrorWithContextf(ctx, err, "[Parse Consumer] Failed after %d attempts, requeueing message", c.maxRetries)
	_ = msg.Nack(false, true)
}

func decodeParseResult(body []byte) (uuid.UUID, entity.ParseResultMessage, error) {
	var payload entity.ParseResultMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return uuid.Nil, payload, fmt.Errorf("%w: %v", errMalformed, err)
	}

	fileID, err := uuid.Parse(payload.FileID)
	if err != nil {
		return uuid.Nil, payload, fmt.Errorf("%w: file_id %q", errMalformed, payload.FileID)
	}

	switch payload.ParseStatus {
	case entity.ParseStatusParsing, entity.ParseStatusParsed, entity.ParseStatusFailed:
	default:
		return uuid.Nil, payload, fmt.Errorf("%w: parse_status %q", errMalformed, payload.ParseStatus)
	}
	return fileID, payload, nil
}

package events

import (
	"context"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Account event types this service reacts to.
const (
	AccountUserBlocked   = "account.user_blocked"
	AccountUserUnblocked = "account.user_unblocked"
)

// UserBlockEvent is the payload of both block event types.
type UserBlockEvent struct {
	BlockerID  uuid.UUID `json:"blocker_id"`
	BlockedID  uuid.UUID `json:"blocked_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BlockHandler applies block changes.
type BlockHandler interface {
	BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID, at time.Time) error
	UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error
}

// AccountEventConsumer listens to account events and keeps blocks in sync.
type AccountEventConsumer struct {
	consumer *kafka.Consumer
	blocks   BlockHandler
	logger   *zap.Logger
}

// NewAccountEventConsumer creates a new AccountEventConsumer.
func NewAccountEventConsumer(
	brokers []string,
	groupID string,
	topic string,
	blocks BlockHandler,
	logger *zap.Logger,
) *AccountEventConsumer {
	return &AccountEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		blocks:   blocks,
		logger:   logger,
	}
}

// Start begins consuming account events. This blocks until the context is cancelled.
func (c *AccountEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *AccountEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *AccountEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	return c.handle(ctx, msg.Value)
}

func (c *AccountEventConsumer) handle(ctx context.Context, value []byte) error {
	cloudEvent, err := kafka.ParseCloudEvent(value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from account topic",
			zap.Error(err),
			zap.String("raw", string(value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case AccountUserBlocked, AccountUserUnblocked:
	default:
		c.logger.Debug("ignoring unhandled account event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt UserBlockEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BlockerID == uuid.Nil || evt.BlockedID == uuid.Nil {
		c.logger.Error("invalid user block event data",
			zap.String("type", cloudEvent.Type),
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if cloudEvent.Type == AccountUserUnblocked {
		return c.blocks.UnblockUser(ctx, evt.BlockerID, evt.BlockedID)
	}

	if err := c.blocks.BlockUser(ctx, evt.BlockerID, evt.BlockedID, evt.OccurredAt); err != nil {
		c.logger.Error("failed to apply user block",
			zap.String("blocker_id", evt.BlockerID.String()),
			zap.String("blocked_id", evt.BlockedID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

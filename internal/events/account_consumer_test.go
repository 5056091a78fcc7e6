package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type blockCall struct {
	blocked bool
	blocker uuid.UUID
	target  uuid.UUID
}

type recordingBlocks struct {
	calls []blockCall
	err   error
}

func (r *recordingBlocks) BlockUser(_ context.Context, blockerID, blockedID uuid.UUID, _ time.Time) error {
	r.calls = append(r.calls, blockCall{blocked: true, blocker: blockerID, target: blockedID})
	return r.err
}

func (r *recordingBlocks) UnblockUser(_ context.Context, blockerID, blockedID uuid.UUID) error {
	r.calls = append(r.calls, blockCall{blocked: false, blocker: blockerID, target: blockedID})
	return r.err
}

func newTestConsumer(blocks BlockHandler) *AccountEventConsumer {
	return &AccountEventConsumer{blocks: blocks, logger: zap.NewNop()}
}

func encodeEvent(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-account", eventType, data)
	require.NoError(t, err)
	value, err := json.Marshal(ce)
	require.NoError(t, err)
	return value
}

func TestHandle_UserBlocked(t *testing.T) {
	blocks := &recordingBlocks{}
	c := newTestConsumer(blocks)
	blocker, blocked := uuid.New(), uuid.New()

	err := c.handle(context.Background(), encodeEvent(t, AccountUserBlocked, UserBlockEvent{
		BlockerID: blocker, BlockedID: blocked, OccurredAt: time.Now(),
	}))

	require.NoError(t, err)
	assert.Equal(t, []blockCall{{blocked: true, blocker: blocker, target: blocked}}, blocks.calls)
}

func TestHandle_UserUnblocked(t *testing.T) {
	blocks := &recordingBlocks{}
	c := newTestConsumer(blocks)
	blocker, blocked := uuid.New(), uuid.New()

	err := c.handle(context.Background(), encodeEvent(t, AccountUserUnblocked, UserBlockEvent{
		BlockerID: blocker, BlockedID: blocked,
	}))

	require.NoError(t, err)
	assert.Equal(t, []blockCall{{blocked: false, blocker: blocker, target: blocked}}, blocks.calls)
}

func TestHandle_IgnoresOtherAndMalformedEvents(t *testing.T) {
	blocks := &recordingBlocks{}
	c := newTestConsumer(blocks)

	assert.NoError(t, c.handle(context.Background(), []byte("{not json")))
	assert.NoError(t, c.handle(context.Background(), encodeEvent(t, "account.user_registered", map[string]string{"id": "1"})))
	assert.NoError(t, c.handle(context.Background(), encodeEvent(t, AccountUserBlocked, map[string]string{"blocker_id": "nope"})))
	assert.Empty(t, blocks.calls)
}

func TestHandle_ReturnsBlockFailure(t *testing.T) {
	blocks := &recordingBlocks{err: errors.New("db down")}
	c := newTestConsumer(blocks)

	err := c.handle(context.Background(), encodeEvent(t, AccountUserBlocked, UserBlockEvent{
		BlockerID: uuid.New(), BlockedID: uuid.New(),
	}))

	assert.EqualError(t, err, "db down")
}

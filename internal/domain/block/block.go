// Package block keeps the local projection of user blocks published by the
// account service.
package block

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Block records that blocker no longer wants to deal with blocked.
type Block struct {
	BlockerID uuid.UUID
	BlockedID uuid.UUID
	CreatedAt time.Time
}

// BlockRepository defines persistence operations for user blocks.
type BlockRepository interface {
	// Save records a block. Saving an existing block is a no-op.
	Save(ctx context.Context, b Block) error
	// Delete removes a block if present.
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	// ExistsEitherWay reports whether a blocked b or b blocked a.
	ExistsEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
}

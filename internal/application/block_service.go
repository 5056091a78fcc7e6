package application

import (
	"context"
	"fmt"
	"time"

	blockDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/block"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CareCanceller cancels the open cares between two users.
type CareCanceller interface {
	CancelCaresIfStatePermitsAndSave(ctx context.Context, actingUser, otherUser uuid.UUID) (int, error)
}

// BlockService keeps the block projection in sync with the account service.
type BlockService struct {
	repo   blockDomain.BlockRepository
	cares  CareCanceller
	logger *zap.Logger
}

// NewBlockService creates a new BlockService.
func NewBlockService(repo blockDomain.BlockRepository, cares CareCanceller, logger *zap.Logger) *BlockService {
	return &BlockService{repo: repo, cares: cares, logger: logger}
}

// BlockUser records the block and cancels what can still be cancelled between
// the two users, acting as the blocker.
func (s *BlockService) BlockUser(ctx context.Context, blockerID, blockedID uuid.UUID, at time.Time) error {
	if blockerID == blockedID {
		s.logger.Warn("ignoring self block", zap.String("user_id", blockerID.String()))
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	if err := s.repo.Save(ctx, blockDomain.Block{BlockerID: blockerID, BlockedID: blockedID, CreatedAt: at.UTC()}); err != nil {
		return err
	}

	cancelled, err := s.cares.CancelCaresIfStatePermitsAndSave(ctx, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("failed to cancel cares after block: %w", err)
	}

	s.logger.Info("user blocked",
		zap.String("blocker_id", blockerID.String()),
		zap.String("blocked_id", blockedID.String()),
		zap.Int("cancelled_cares", cancelled),
	)
	return nil
}

// UnblockUser removes the block. Cancelled cares stay cancelled.
func (s *BlockService) UnblockUser(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := s.repo.Delete(ctx, blockerID, blockedID); err != nil {
		return err
	}
	s.logger.Info("user unblocked",
		zap.String("blocker_id", blockerID.String()),
		zap.String("blocked_id", blockedID.String()),
	)
	return nil
}

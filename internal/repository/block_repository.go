package repository

import (
	"context"
	"fmt"
	"time"

	blockDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/block"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockModel is the GORM model for the user_blocks table.
type BlockModel struct {
	BlockerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BlockedID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (BlockModel) TableName() string { return "user_blocks" }

// GormBlockRepository implements BlockRepository using GORM.
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository creates a new GormBlockRepository.
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	return &GormBlockRepository{db: db}
}

// Save records a block, ignoring duplicates.
func (r *GormBlockRepository) Save(ctx context.Context, b blockDomain.Block) error {
	model := BlockModel{BlockerID: b.BlockerID, BlockedID: b.BlockedID, CreatedAt: b.CreatedAt}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save block: %w", err)
	}
	return nil
}

// Delete removes a block.
func (r *GormBlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&BlockModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	return nil
}

// ExistsEitherWay reports whether either user blocked the other.
func (r *GormBlockRepository) ExistsEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BlockModel{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return count > 0, nil
}

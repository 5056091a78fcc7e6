package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	offerDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/offer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfferModel is the GORM model for the offers table.
type OfferModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CaretakerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AnimalType      string          `gorm:"type:varchar(20);not null"`
	DailyPriceCents int64           `gorm:"not null"`
	Description     string          `gorm:"type:varchar(1000)"`
	Options         json.RawMessage `gorm:"type:jsonb;not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'active'"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time       `gorm:"type:timestamptz;not null"`
}

func (OfferModel) TableName() string { return "offers" }

// GormOfferRepository implements OfferRepository using GORM.
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository.
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	var m OfferModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", id.String())
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return toOfferDomain(&m)
}

func (r *GormOfferRepository) FindByCaretakerID(ctx context.Context, caretakerID uuid.UUID) ([]*offerDomain.Offer, error) {
	var models []OfferModel
	if err := r.db.WithContext(ctx).
		Where("caretaker_id = ?", caretakerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	offers := make([]*offerDomain.Offer, len(models))
	for i := range models {
		o, err := toOfferDomain(&models[i])
		if err != nil {
			return nil, err
		}
		offers[i] = o
	}
	return offers, nil
}

// FindActive returns the caretaker's active offer for an animal type.
func (r *GormOfferRepository) FindActive(ctx context.Context, caretakerID uuid.UUID, animalType animal.Type) (*offerDomain.Offer, error) {
	var m OfferModel
	err := r.db.WithContext(ctx).
		Where("caretaker_id = ? AND animal_type = ? AND status = ?", caretakerID, string(animalType), string(offerDomain.StatusActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", "")
		}
		return nil, fmt.Errorf("failed to find active offer: %w", err)
	}
	return toOfferDomain(&m)
}

func (r *GormOfferRepository) Save(ctx context.Context, o *offerDomain.Offer) error {
	m, err := toOfferModel(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("caretaker already has an active offer for this animal type")
		}
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

func (r *GormOfferRepository) Update(ctx context.Context, o *offerDomain.Offer) error {
	m, err := toOfferModel(o)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&OfferModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"daily_price_cents": m.DailyPriceCents,
			"description":       m.Description,
			"options":           m.Options,
			"status":            m.Status,
			"version":           m.Version,
			"updated_at":        m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("offer was modified by another transaction")
	}
	return nil
}

func toOfferModel(o *offerDomain.Offer) (*OfferModel, error) {
	options, err := json.Marshal(o.Options().Strings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer options: %w", err)
	}
	return &OfferModel{
		ID:              o.ID(),
		CaretakerID:     o.CaretakerID(),
		AnimalType:      string(o.AnimalType()),
		DailyPriceCents: o.DailyPriceCents(),
		Description:     o.Description(),
		Options:         options,
		Status:          string(o.Status()),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}, nil
}

func toOfferDomain(m *OfferModel) (*offerDomain.Offer, error) {
	options, err := decodeOptions(m.Options)
	if err != nil {
		return nil, fmt.Errorf("offer %s: %w", m.ID, err)
	}
	return offerDomain.Reconstruct(
		m.ID, m.CaretakerID,
		animal.Type(m.AnimalType),
		m.DailyPriceCents,
		m.Description,
		options,
		offerDomain.Status(m.Status),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	offerDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/offer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOfferRequest is the request DTO for publishing an offer.
type CreateOfferRequest struct {
	AnimalType      string   `json:"animal_type" binding:"required"`
	DailyPriceCents int64    `json:"daily_price_cents" binding:"required"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
}

// UpdateOfferRequest is the request DTO for changing an offer. Zero values
// keep the current value; a nil option list keeps the current options.
type UpdateOfferRequest struct {
	DailyPriceCents int64    `json:"daily_price_cents"`
	Description     string   `json:"description"`
	Options         []string `json:"options"`
}

// OfferDTO is the API response representation of an offer.
type OfferDTO struct {
	ID              uuid.UUID `json:"id"`
	CaretakerID     uuid.UUID `json:"caretaker_id"`
	AnimalType      string    `json:"animal_type"`
	DailyPriceCents int64     `json:"daily_price_cents"`
	Description     string    `json:"description,omitempty"`
	Options         []string  `json:"options"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OfferService implements use cases for the caretaker offer catalog.
type OfferService struct {
	repo   offerDomain.OfferRepository
	logger *zap.Logger
}

// NewOfferService creates a new OfferService.
func NewOfferService(repo offerDomain.OfferRepository, logger *zap.Logger) *OfferService {
	return &OfferService{repo: repo, logger: logger}
}

// CreateOffer publishes an offer. A caretaker has at most one active offer per
// animal type.
func (s *OfferService) CreateOffer(ctx context.Context, caretakerID uuid.UUID, req CreateOfferRequest) (*OfferDTO, error) {
	animalType, err := animal.ParseType(req.AnimalType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	options, err := animal.NewOptionSet(req.Options)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	existing, err := s.repo.FindActive(ctx, caretakerID, animalType)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError(fmt.Sprintf("an active %s offer already exists", animalType))
	}

	of, err := offerDomain.NewOffer(caretakerID, animalType, req.DailyPriceCents, req.Description, options)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, of); err != nil {
		s.logger.Error("failed to create offer", zap.Error(err))
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info("offer created",
		zap.String("offer_id", of.ID().String()),
		zap.String("caretaker_id", caretakerID.String()),
		zap.String("animal_type", string(animalType)),
	)
	result := toOfferDTO(of)
	return &result, nil
}

// GetOffer returns a single offer.
func (s *OfferService) GetOffer(ctx context.Context, offerID uuid.UUID) (*OfferDTO, error) {
	of, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	result := toOfferDTO(of)
	return &result, nil
}

// ListMyOffers returns every offer of the caretaker, archived ones included.
func (s *OfferService) ListMyOffers(ctx context.Context, caretakerID uuid.UUID) ([]OfferDTO, error) {
	offers, err := s.repo.FindByCaretakerID(ctx, caretakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}
	return toOfferDTOs(offers, false), nil
}

// ListCaretakerOffers returns the bookable offers of a caretaker.
func (s *OfferService) ListCaretakerOffers(ctx context.Context, caretakerID uuid.UUID) ([]OfferDTO, error) {
	offers, err := s.repo.FindByCaretakerID(ctx, caretakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offers: %w", err)
	}
	return toOfferDTOs(offers, true), nil
}

// UpdateOffer changes an active offer, verifying ownership. Existing cares keep
// the price they were booked at.
func (s *OfferService) UpdateOffer(ctx context.Context, caretakerID, offerID uuid.UUID, req UpdateOfferRequest) (*OfferDTO, error) {
	of, err := s.ownedOffer(ctx, caretakerID, offerID)
	if err != nil {
		return nil, err
	}
	if !of.IsActive() {
		return nil, domain.NewInvalidStateError(string(of.Status()), "updated")
	}

	var options animal.OptionSet
	if req.Options != nil {
		if options, err = animal.NewOptionSet(req.Options); err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}
	if err := of.Update(req.DailyPriceCents, req.Description, options); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, of); err != nil {
		s.logger.Error("failed to update offer", zap.Error(err))
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	s.logger.Info("offer updated", zap.String("offer_id", offerID.String()))
	result := toOfferDTO(of)
	return &result, nil
}

// ArchiveOffer withdraws an offer from booking, verifying ownership.
func (s *OfferService) ArchiveOffer(ctx context.Context, caretakerID, offerID uuid.UUID) error {
	of, err := s.ownedOffer(ctx, caretakerID, offerID)
	if err != nil {
		return err
	}
	if !of.IsActive() {
		return domain.NewInvalidStateError(string(of.Status()), string(offerDomain.StatusArchived))
	}

	of.Archive()
	if err := s.repo.Update(ctx, of); err != nil {
		s.logger.Error("failed to archive offer", zap.Error(err))
		return fmt.Errorf("failed to archive offer: %w", err)
	}

	s.logger.Info("offer archived", zap.String("offer_id", offerID.String()))
	return nil
}

func (s *OfferService) ownedOffer(ctx context.Context, caretakerID, offerID uuid.UUID) (*offerDomain.Offer, error) {
	of, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !of.IsOwnedBy(caretakerID) {
		return nil, domain.NewForbiddenError("you do not own this offer")
	}
	return of, nil
}

func toOfferDTO(o *offerDomain.Offer) OfferDTO {
	return OfferDTO{
		ID:              o.ID(),
		CaretakerID:     o.CaretakerID(),
		AnimalType:      string(o.AnimalType()),
		DailyPriceCents: o.DailyPriceCents(),
		Description:     o.Description(),
		Options:         o.Options().Strings(),
		Status:          string(o.Status()),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func toOfferDTOs(offers []*offerDomain.Offer, activeOnly bool) []OfferDTO {
	dtos := make([]OfferDTO, 0, len(offers))
	for _, o := range offers {
		if activeOnly && !o.IsActive() {
			continue
		}
		dtos = append(dtos, toOfferDTO(o))
	}
	return dtos
}

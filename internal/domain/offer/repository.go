package offer

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	"github.com/google/uuid"
)

// OfferRepository defines persistence operations for caretaker offers.
type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	FindByCaretakerID(ctx context.Context, caretakerID uuid.UUID) ([]*Offer, error)
	FindActive(ctx context.Context, caretakerID uuid.UUID, animalType animal.Type) (*Offer, error)
	Save(ctx context.Context, offer *Offer) error
	Update(ctx context.Context, offer *Offer) error
}

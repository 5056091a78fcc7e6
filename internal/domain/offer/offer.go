// Package offer models the caretaker offer catalog: what animals a caretaker
// looks after, at what daily price, and which attribute options they accept.
package offer

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of an offer.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Offer is the aggregate root for a caretaker's offer for one animal type.
type Offer struct {
	id              uuid.UUID
	caretakerID     uuid.UUID
	animalType      animal.Type
	dailyPriceCents int64
	description     string
	options         animal.OptionSet
	status          Status
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewOffer creates a new active offer with validated fields.
func NewOffer(
	caretakerID uuid.UUID,
	animalType animal.Type,
	dailyPriceCents int64,
	description string,
	options animal.OptionSet,
) (*Offer, error) {
	if caretakerID == uuid.Nil {
		return nil, domain.NewValidationError("caretaker ID is required")
	}
	if !animalType.IsValid() {
		return nil, domain.NewValidationError("invalid animal type: " + string(animalType))
	}
	if dailyPriceCents <= 0 {
		return nil, domain.NewValidationError("daily price must be positive")
	}

	now := time.Now().UTC()
	return &Offer{
		id:              uuid.New(),
		caretakerID:     caretakerID,
		animalType:      animalType,
		dailyPriceCents: dailyPriceCents,
		description:     description,
		options:         options,
		status:          StatusActive,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds an Offer from persistence data (no validation).
func Reconstruct(
	id, caretakerID uuid.UUID,
	animalType animal.Type,
	dailyPriceCents int64,
	description string,
	options animal.OptionSet,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Offer {
	return &Offer{
		id:              id,
		caretakerID:     caretakerID,
		animalType:      animalType,
		dailyPriceCents: dailyPriceCents,
		description:     description,
		options:         options,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (o *Offer) ID() uuid.UUID             { return o.id }
func (o *Offer) CaretakerID() uuid.UUID    { return o.caretakerID }
func (o *Offer) AnimalType() animal.Type   { return o.animalType }
func (o *Offer) DailyPriceCents() int64    { return o.dailyPriceCents }
func (o *Offer) Description() string       { return o.description }
func (o *Offer) Options() animal.OptionSet { return o.options }
func (o *Offer) Status() Status            { return o.status }
func (o *Offer) Version() int64            { return o.version }
func (o *Offer) CreatedAt() time.Time      { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time      { return o.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the offer belongs to the given caretaker.
func (o *Offer) IsOwnedBy(caretakerID uuid.UUID) bool {
	return o.caretakerID == caretakerID
}

// IsActive returns true if the offer can still be booked.
func (o *Offer) IsActive() bool {
	return o.status == StatusActive
}

// UnsupportedOptions returns the selected options the offer does not list.
func (o *Offer) UnsupportedOptions(selected animal.OptionSet) []animal.Option {
	return o.options.Missing(selected)
}

// Update applies partial updates. Zero values leave a field unchanged; a nil
// option set keeps the current options.
func (o *Offer) Update(dailyPriceCents int64, description string, options animal.OptionSet) error {
	if dailyPriceCents < 0 {
		return domain.NewValidationError("daily price must be positive")
	}
	if dailyPriceCents > 0 {
		o.dailyPriceCents = dailyPriceCents
	}
	if description != "" {
		o.description = description
	}
	if options != nil {
		o.options = options
	}
	o.version++
	o.updatedAt = time.Now().UTC()
	return nil
}

// Archive marks the offer as archived.
func (o *Offer) Archive() {
	o.status = StatusArchived
	o.version++
	o.updatedAt = time.Now().UTC()
}

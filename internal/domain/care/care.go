package care

import (
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	"github.com/google/uuid"
)

const maxDescriptionLength = 1000

// Care is the aggregate root for a pet-sitting reservation between a client
// and a caretaker. Its two status fields only change through the StateMachine.
type Care struct {
	id          uuid.UUID
	clientID    uuid.UUID
	caretakerID uuid.UUID
	offerID     uuid.UUID

	animalType animal.Type
	options    animal.OptionSet

	dailyPriceCents int64
	currency        string
	description     string

	careStart time.Time
	careEnd   time.Time

	clientStatus    Status
	caretakerStatus Status

	submittedAt time.Time
	version     int64
	updatedAt   time.Time
}

// Terms holds the commercial terms a caretaker may still edit.
type Terms struct {
	DailyPriceCents int64
	CareStart       time.Time
	CareEnd         time.Time
	Description     string
}

// DateOf truncates t to a UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateTerms(terms Terms, today time.Time) error {
	if terms.DailyPriceCents <= 0 {
		return domain.NewValidationError("daily price must be positive")
	}
	if terms.CareStart.IsZero() || terms.CareEnd.IsZero() {
		return domain.NewValidationError("care start and end dates are required")
	}
	start, end := DateOf(terms.CareStart), DateOf(terms.CareEnd)
	if end.Before(start) {
		return domain.NewValidationError("care end must not be before care start")
	}
	if start.Before(DateOf(today)) {
		return domain.NewValidationError("care start must not be in the past")
	}
	if len(terms.Description) > maxDescriptionLength {
		return domain.NewValidationError(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return nil
}

// NewCare creates a care request. The client's side starts accepted (the
// request is their own) and the caretaker's side starts pending.
func NewCare(
	clientID, caretakerID, offerID uuid.UUID,
	animalType animal.Type,
	options animal.OptionSet,
	terms Terms,
	currency string,
	now time.Time,
) (*Care, error) {
	if clientID == uuid.Nil || caretakerID == uuid.Nil {
		return nil, domain.NewValidationError("client and caretaker are required")
	}
	if clientID == caretakerID {
		return nil, domain.NewValidationError("a user cannot book themselves")
	}
	if !animalType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid animal type: %s", animalType))
	}
	if err := validateTerms(terms, now); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Care{
		id:              uuid.New(),
		clientID:        clientID,
		caretakerID:     caretakerID,
		offerID:         offerID,
		animalType:      animalType,
		options:         options,
		dailyPriceCents: terms.DailyPriceCents,
		currency:        currency,
		description:     terms.Description,
		careStart:       DateOf(terms.CareStart),
		careEnd:         DateOf(terms.CareEnd),
		clientStatus:    StatusAccepted,
		caretakerStatus: StatusPending,
		submittedAt:     now,
		version:         1,
		updatedAt:       now,
	}, nil
}

// ReconstructCare rebuilds a Care from persistence data (no validation).
func ReconstructCare(
	id, clientID, caretakerID, offerID uuid.UUID,
	animalType animal.Type,
	options animal.OptionSet,
	dailyPriceCents int64,
	currency, description string,
	careStart, careEnd time.Time,
	clientStatus, caretakerStatus Status,
	submittedAt time.Time,
	version int64,
	updatedAt time.Time,
) *Care {
	return &Care{
		id:              id,
		clientID:        clientID,
		caretakerID:     caretakerID,
		offerID:         offerID,
		animalType:      animalType,
		options:         options,
		dailyPriceCents: dailyPriceCents,
		currency:        currency,
		description:     description,
		careStart:       DateOf(careStart),
		careEnd:         DateOf(careEnd),
		clientStatus:    clientStatus,
		caretakerStatus: caretakerStatus,
		submittedAt:     submittedAt,
		version:         version,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (c *Care) ID() uuid.UUID                 { return c.id }
func (c *Care) ClientID() uuid.UUID           { return c.clientID }
func (c *Care) CaretakerID() uuid.UUID        { return c.caretakerID }
func (c *Care) OfferID() uuid.UUID            { return c.offerID }
func (c *Care) AnimalType() animal.Type       { return c.animalType }
func (c *Care) Options() animal.OptionSet     { return c.options }
func (c *Care) DailyPriceCents() int64        { return c.dailyPriceCents }
func (c *Care) Currency() string              { return c.currency }
func (c *Care) Description() string           { return c.description }
func (c *Care) CareStart() time.Time          { return c.careStart }
func (c *Care) CareEnd() time.Time            { return c.careEnd }
func (c *Care) ClientStatus() Status          { return c.clientStatus }
func (c *Care) CaretakerStatus() Status       { return c.caretakerStatus }
func (c *Care) SubmittedAt() time.Time        { return c.submittedAt }
func (c *Care) Version() int64                { return c.version }
func (c *Care) UpdatedAt() time.Time          { return c.updatedAt }

// --- Behavior ---

// ActorFor returns the role the user holds on this care.
func (c *Care) ActorFor(userID uuid.UUID) (Actor, bool) {
	switch userID {
	case c.clientID:
		return ActorClient, true
	case c.caretakerID:
		return ActorCaretaker, true
	}
	return "", false
}

// IsParticipant reports whether the user is the client or the caretaker.
func (c *Care) IsParticipant(userID uuid.UUID) bool {
	_, ok := c.ActorFor(userID)
	return ok
}

// IsFinished reports whether both sides have reached a terminal status.
func (c *Care) IsFinished() bool {
	return c.clientStatus.IsTerminal() && c.caretakerStatus.IsTerminal()
}

// StatusFor returns the status of the side the actor drives. The system actor
// reads the caretaker side.
func (c *Care) StatusFor(actor Actor) Status {
	if actor == ActorClient {
		return c.clientStatus
	}
	return c.caretakerStatus
}

// HasStarted reports whether the care start date is on or before today.
func (c *Care) HasStarted(today time.Time) bool {
	return !c.careStart.After(DateOf(today))
}

// UpdateTerms replaces the editable terms. Callers must check the state
// machine's edit guard first.
func (c *Care) UpdateTerms(terms Terms, now time.Time) error {
	if err := validateTerms(terms, now); err != nil {
		return err
	}
	c.dailyPriceCents = terms.DailyPriceCents
	c.careStart = DateOf(terms.CareStart)
	c.careEnd = DateOf(terms.CareEnd)
	c.description = terms.Description
	c.updatedAt = now.UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (c *Care) IncrementVersion() {
	c.version++
	c.updatedAt = time.Now().UTC()
}

func (c *Care) setStatuses(client, caretaker Status) {
	c.clientStatus = client
	c.caretakerStatus = caretaker
}

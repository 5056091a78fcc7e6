package application

import (
	"time"

	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	"github.com/google/uuid"
)

// DateLayout is the wire format of care dates.
const DateLayout = "2006-01-02"

// MakeReservationRequest holds the data a client sends to book a caretaker.
type MakeReservationRequest struct {
	CaretakerID string   `json:"caretaker_id" binding:"required"`
	AnimalType  string   `json:"animal_type" binding:"required"`
	Options     []string `json:"options"`
	CareStart   string   `json:"care_start" binding:"required"`
	CareEnd     string   `json:"care_end" binding:"required"`
	Description string   `json:"description"`
}

// UpdateCareRequest holds the terms a caretaker wants to change. Nil fields
// keep their current value.
type UpdateCareRequest struct {
	DailyPriceCents *int64  `json:"daily_price_cents"`
	CareStart       *string `json:"care_start"`
	CareEnd         *string `json:"care_end"`
	Description     *string `json:"description"`
}

// ChangeStatusRequest asks to move the caller's side of a care.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CareDTO is the response representation of a care.
type CareDTO struct {
	ID              uuid.UUID `json:"id"`
	ClientID        uuid.UUID `json:"client_id"`
	CaretakerID     uuid.UUID `json:"caretaker_id"`
	OfferID         uuid.UUID `json:"offer_id"`
	AnimalType      string    `json:"animal_type"`
	Options         []string  `json:"options"`
	DailyPriceCents int64     `json:"daily_price_cents"`
	Days            int       `json:"days"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Currency        string    `json:"currency"`
	Description     string    `json:"description,omitempty"`
	CareStart       string    `json:"care_start"`
	CareEnd         string    `json:"care_end"`
	ClientStatus    string    `json:"client_status"`
	CaretakerStatus string    `json:"caretaker_status"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Version         int64     `json:"version"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CareStatsDTO holds care statistics for the admin dashboard.
type CareStatsDTO struct {
	TotalCares int64            `json:"total_cares"`
	ByStatus   map[string]int64 `json:"by_status"`
}

// SweepResultDTO reports a manual sweep run.
type SweepResultDTO struct {
	Outdated int `json:"outdated"`
}

func toCareDTO(c *careDomain.Care) CareDTO {
	return CareDTO{
		ID:              c.ID(),
		ClientID:        c.ClientID(),
		CaretakerID:     c.CaretakerID(),
		OfferID:         c.OfferID(),
		AnimalType:      string(c.AnimalType()),
		Options:         c.Options().Strings(),
		DailyPriceCents: c.DailyPriceCents(),
		Days:            c.Days(),
		TotalPriceCents: c.TotalPriceCents(),
		Currency:        c.Currency(),
		Description:     c.Description(),
		CareStart:       c.CareStart().Format(DateLayout),
		CareEnd:         c.CareEnd().Format(DateLayout),
		ClientStatus:    string(c.ClientStatus()),
		CaretakerStatus: string(c.CaretakerStatus()),
		SubmittedAt:     c.SubmittedAt(),
		Version:         c.Version(),
		UpdatedAt:       c.UpdatedAt(),
	}
}

func toCareDTOs(cares []*careDomain.Care) []CareDTO {
	dtos := make([]CareDTO, len(cares))
	for i, c := range cares {
		dtos[i] = toCareDTO(c)
	}
	return dtos
}

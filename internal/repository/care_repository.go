package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareModel is the GORM model for the cares table.
type CareModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CaretakerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	OfferID         uuid.UUID       `gorm:"type:uuid;not null"`
	AnimalType      string          `gorm:"not null;size:20"`
	Options         json.RawMessage `gorm:"type:jsonb;not null"`
	DailyPriceCents int64           `gorm:"not null"`
	Currency        string          `gorm:"not null;size:3;default:'MYR'"`
	Description     string          `gorm:"size:1000"`
	CareStart       time.Time       `gorm:"type:date;not null"`
	CareEnd         time.Time       `gorm:"type:date;not null"`
	ClientStatus    string          `gorm:"not null;size:30"`
	CaretakerStatus string          `gorm:"not null;size:30"`
	SubmittedAt     time.Time       `gorm:"not null"`
	Version         int64           `gorm:"not null;default:1"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CareModel) TableName() string {
	return "cares"
}

// GormCareRepository is the GORM-based implementation of CareRepository.
type GormCareRepository struct {
	db *gorm.DB
}

// NewGormCareRepository creates a new GormCareRepository.
func NewGormCareRepository(db *gorm.DB) *GormCareRepository {
	return &GormCareRepository{db: db}
}

func terminalStatuses() []string {
	out := make([]string, len(careDomain.TerminalStatuses))
	for i, s := range careDomain.TerminalStatuses {
		out[i] = string(s)
	}
	return out
}

// nonTerminal restricts a query to cares where at least one side is still open.
func nonTerminal(db *gorm.DB) *gorm.DB {
	terminal := terminalStatuses()
	return db.Where("(client_status NOT IN ? OR caretaker_status NOT IN ?)", terminal, terminal)
}

// FindByID retrieves a care by its unique identifier.
func (r *GormCareRepository) FindByID(ctx context.Context, id uuid.UUID) (*careDomain.Care, error) {
	var model CareModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Care", id.String())
		}
		return nil, fmt.Errorf("failed to find care by ID: %w", err)
	}
	return toDomainCare(&model)
}

// FindByClientID retrieves cares booked by a client with pagination.
func (r *GormCareRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*careDomain.Care, int64, error) {
	return r.findPage(ctx, "client_id = ?", clientID, page, limit)
}

// FindByCaretakerID retrieves cares requested from a caretaker with pagination.
func (r *GormCareRepository) FindByCaretakerID(ctx context.Context, caretakerID uuid.UUID, page, limit int) ([]*careDomain.Care, int64, error) {
	return r.findPage(ctx, "caretaker_id = ?", caretakerID, page, limit)
}

// ListAll retrieves all cares with pagination (admin).
func (r *GormCareRepository) ListAll(ctx context.Context, page, limit int) ([]*careDomain.Care, int64, error) {
	return r.findPage(ctx, "", nil, page, limit)
}

func (r *GormCareRepository) findPage(ctx context.Context, where string, arg interface{}, page, limit int) ([]*careDomain.Care, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if where == "" {
			return db
		}
		return db.Where(where, arg)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&CareModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cares: %w", err)
	}

	var models []CareModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("submitted_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find cares: %w", err)
	}

	cares, err := toDomainCares(models)
	if err != nil {
		return nil, 0, err
	}
	return cares, total, nil
}

// FindNonTerminal retrieves every care that is not finished on both sides.
func (r *GormCareRepository) FindNonTerminal(ctx context.Context) ([]*careDomain.Care, error) {
	var models []CareModel
	if err := r.db.WithContext(ctx).
		Scopes(nonTerminal).
		Order("care_start ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find open cares: %w", err)
	}
	return toDomainCares(models)
}

// FindBetweenParticipants retrieves open cares between two users in either role.
func (r *GormCareRepository) FindBetweenParticipants(ctx context.Context, userA, userB uuid.UUID) ([]*careDomain.Care, error) {
	var models []CareModel
	if err := r.db.WithContext(ctx).
		Where("((client_id = ? AND caretaker_id = ?) OR (client_id = ? AND caretaker_id = ?))", userA, userB, userB, userA).
		Scopes(nonTerminal).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find cares between participants: %w", err)
	}
	return toDomainCares(models)
}

// CountByStatus returns care counts grouped by caretaker status (admin).
func (r *GormCareRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&CareModel{}).
		Select("caretaker_status AS status, count(*) AS count").
		Group("caretaker_status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new care.
func (r *GormCareRepository) Save(ctx context.Context, c *careDomain.Care) error {
	model, err := toCareModel(c)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save care: %w", err)
	}
	return nil
}

// Update persists changes to an existing care. The row is only written when
// its stored version is the one the care was loaded with.
func (r *GormCareRepository) Update(ctx context.Context, c *careDomain.Care) error {
	model, err := toCareModel(c)
	if err != nil {
		return err
	}

	expectedVersion := c.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&CareModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"daily_price_cents": model.DailyPriceCents,
			"description":       model.Description,
			"care_start":        model.CareStart,
			"care_end":          model.CareEnd,
			"client_status":     model.ClientStatus,
			"caretaker_status":  model.CaretakerStatus,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update care: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("care was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toCareModel(c *careDomain.Care) (*CareModel, error) {
	options, err := json.Marshal(c.Options().Strings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal care options: %w", err)
	}
	return &CareModel{
		ID:              c.ID(),
		ClientID:        c.ClientID(),
		CaretakerID:     c.CaretakerID(),
		OfferID:         c.OfferID(),
		AnimalType:      string(c.AnimalType()),
		Options:         options,
		DailyPriceCents: c.DailyPriceCents(),
		Currency:        c.Currency(),
		Description:     c.Description(),
		CareStart:       c.CareStart(),
		CareEnd:         c.CareEnd(),
		ClientStatus:    string(c.ClientStatus()),
		CaretakerStatus: string(c.CaretakerStatus()),
		SubmittedAt:     c.SubmittedAt(),
		Version:         c.Version(),
		UpdatedAt:       c.UpdatedAt(),
	}, nil
}

func toDomainCare(m *CareModel) (*careDomain.Care, error) {
	options, err := decodeOptions(m.Options)
	if err != nil {
		return nil, fmt.Errorf("care %s: %w", m.ID, err)
	}
	return careDomain.ReconstructCare(
		m.ID, m.ClientID, m.CaretakerID, m.OfferID,
		animal.Type(m.AnimalType),
		options,
		m.DailyPriceCents,
		m.Currency, m.Description,
		m.CareStart, m.CareEnd,
		careDomain.Status(m.ClientStatus), careDomain.Status(m.CaretakerStatus),
		m.SubmittedAt,
		m.Version,
		m.UpdatedAt,
	), nil
}

func toDomainCares(models []CareModel) ([]*careDomain.Care, error) {
	cares := make([]*careDomain.Care, len(models))
	for i := range models {
		c, err := toDomainCare(&models[i])
		if err != nil {
			return nil, err
		}
		cares[i] = c
	}
	return cares, nil
}

func decodeOptions(raw json.RawMessage) (animal.OptionSet, error) {
	if len(raw) == 0 {
		return animal.OptionSet{}, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	return animal.NewOptionSet(values)
}

package care

import (
	"context"

	"github.com/google/uuid"
)

// CareRepository defines the persistence contract for care aggregates.
type CareRepository interface {
	// FindByID retrieves a care by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Care, error)

	// FindByClientID retrieves cares booked by a client with pagination.
	FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*Care, int64, error)

	// FindByCaretakerID retrieves cares requested from a caretaker with pagination.
	FindByCaretakerID(ctx context.Context, caretakerID uuid.UUID, page, limit int) ([]*Care, int64, error)

	// FindNonTerminal retrieves every care where at least one side is not
	// paid, cancelled or outdated.
	FindNonTerminal(ctx context.Context) ([]*Care, error)

	// FindBetweenParticipants retrieves non-terminal cares in which the two
	// users are client and caretaker, in either order.
	FindBetweenParticipants(ctx context.Context, userA, userB uuid.UUID) ([]*Care, error)

	// ListAll retrieves all cares with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Care, int64, error)

	// CountByStatus returns care counts grouped by caretaker status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new care.
	Save(ctx context.Context, c *Care) error

	// Update persists changes to an existing care with optimistic locking.
	Update(ctx context.Context, c *Care) error
}

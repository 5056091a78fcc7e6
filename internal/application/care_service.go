package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	blockDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/block"
	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	offerDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/offer"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/Kilat-Pet-Delivery/service-care/internal/application"

// CareService is the application service orchestrating care use cases. It is
// the only caller of the care state machine outside the domain package.
type CareService struct {
	repo     careDomain.CareRepository
	offers   offerDomain.OfferRepository
	blocks   blockDomain.BlockRepository
	machine  *careDomain.StateMachine
	notifier Notifier
	currency string
	location *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

// CareServiceOption customises a CareService.
type CareServiceOption func(*CareService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CareServiceOption {
	return func(s *CareService) { s.now = now }
}

// WithLocation sets the timezone used to decide what "today" is.
func WithLocation(loc *time.Location) CareServiceOption {
	return func(s *CareService) { s.location = loc }
}

// WithMetrics records transition and sweep metrics.
func WithMetrics(m *metrics.Metrics) CareServiceOption {
	return func(s *CareService) { s.metrics = m }
}

// NewCareService creates a new CareService.
func NewCareService(
	repo careDomain.CareRepository,
	offers offerDomain.OfferRepository,
	blocks blockDomain.BlockRepository,
	machine *careDomain.StateMachine,
	notifier Notifier,
	currency string,
	logger *zap.Logger,
	opts ...CareServiceOption,
) *CareService {
	s := &CareService{
		repo:     repo,
		offers:   offers,
		blocks:   blocks,
		machine:  machine,
		notifier: notifier,
		currency: currency,
		location: time.UTC,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CareService) today() time.Time {
	return s.now().In(s.location)
}

// MakeReservation books a caretaker for the calling client.
func (s *CareService) MakeReservation(ctx context.Context, clientID uuid.UUID, req MakeReservationRequest) (_ *CareDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "CareService.MakeReservation")
	defer func() { endSpan(span, err) }()

	caretakerID, err := uuid.Parse(req.CaretakerID)
	if err != nil {
		return nil, domain.NewValidationError("invalid caretaker ID")
	}
	if caretakerID == clientID {
		return nil, domain.NewValidationError("a user cannot book themselves")
	}

	blocked, err := s.blocks.ExistsEitherWay(ctx, clientID, caretakerID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, domain.NewForbiddenError("a care cannot be booked between these users")
	}

	animalType, err := animal.ParseType(req.AnimalType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	options, err := animal.NewOptionSet(req.Options)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	of, err := s.offers.FindActive(ctx, caretakerID, animalType)
	if err != nil {
		return nil, err
	}
	if unsupported := of.UnsupportedOptions(options); len(unsupported) > 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("offer does not accept options: %s", joinOptions(unsupported)))
	}

	start, end, err := parseDates(req.CareStart, req.CareEnd)
	if err != nil {
		return nil, err
	}

	c, err := careDomain.NewCare(
		clientID, caretakerID, of.ID(),
		animalType,
		options,
		careDomain.Terms{
			DailyPriceCents: of.DailyPriceCents(),
			CareStart:       start,
			CareEnd:         end,
			Description:     req.Description,
		},
		s.currency,
		s.today(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save care: %w", err)
	}
	span.SetAttributes(attribute.String("care.id", c.ID().String()))

	s.logger.Info("care reserved",
		zap.String("care_id", c.ID().String()),
		zap.String("client_id", clientID.String()),
		zap.String("caretaker_id", caretakerID.String()),
	)
	s.notify(ctx, c.CaretakerID(), c.ID(), MessageCareCreated)

	result := toCareDTO(c)
	return &result, nil
}

// ClientChangeStatus moves the client's side of a care and notifies the caretaker.
func (s *CareService) ClientChangeStatus(ctx context.Context, careID, clientID uuid.UUID, req ChangeStatusRequest) (*CareDTO, error) {
	return s.changeStatus(ctx, careDomain.ActorClient, careID, clientID, req.Status)
}

// CaretakerChangeStatus moves the caretaker's side of a care and notifies the client.
func (s *CareService) CaretakerChangeStatus(ctx context.Context, careID, caretakerID uuid.UUID, req ChangeStatusRequest) (*CareDTO, error) {
	return s.changeStatus(ctx, careDomain.ActorCaretaker, careID, caretakerID, req.Status)
}

func (s *CareService) changeStatus(ctx context.Context, actor careDomain.Actor, careID, userID uuid.UUID, rawStatus string) (_ *CareDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "CareService.ChangeStatus", trace.WithAttributes(
		attribute.String("care.id", careID.String()),
		attribute.String("care.actor", actor.String()),
		attribute.String("care.requested_status", rawStatus),
	))
	defer func() { endSpan(span, err) }()

	requested, err := careDomain.ParseStatus(strings.ToLower(rawStatus))
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	c, err := s.repo.FindByID(ctx, careID)
	if err != nil {
		return nil, err
	}
	if role, ok := c.ActorFor(userID); !ok || role != actor {
		return nil, domain.NewForbiddenError(fmt.Sprintf("care does not belong to this %s", actor))
	}

	from := c.StatusFor(actor)
	_, err = s.machine.Transition(actor, c, requested)
	s.metrics.ObserveTransition(actor.String(), from.String(), requested.String(), err)
	if err != nil {
		return nil, err
	}

	message := statusChangeMessage(actor, requested)

	c.IncrementVersion()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("care status changed",
		zap.String("care_id", c.ID().String()),
		zap.String("actor", actor.String()),
		zap.String("from", from.String()),
		zap.String("requested", requested.String()),
		zap.String("client_status", c.ClientStatus().String()),
		zap.String("caretaker_status", c.CaretakerStatus().String()),
	)

	recipient := c.CaretakerID()
	if actor == careDomain.ActorCaretaker {
		recipient = c.ClientID()
	}
	s.notify(ctx, recipient, c.ID(), message)

	result := toCareDTO(c)
	return &result, nil
}

// statusChangeMessage picks the notification for a successful status change.
// Reaching a status with no message means the transition table and this
// function disagree, which is a programming error.
func statusChangeMessage(actor careDomain.Actor, requested careDomain.Status) Message {
	switch {
	case actor == careDomain.ActorClient && requested == careDomain.StatusAccepted:
		return MessageCareAcceptedByClient
	case actor == careDomain.ActorClient && requested == careDomain.StatusCancelled:
		return MessageCareCancelledByClient
	case actor == careDomain.ActorCaretaker && requested == careDomain.StatusAccepted:
		return MessageCareAcceptedByCaretaker
	case actor == careDomain.ActorCaretaker && requested == careDomain.StatusCancelled:
		return MessageCareCancelledByCaretaker
	case actor == careDomain.ActorCaretaker && requested == careDomain.StatusPaid:
		return MessageCarePaid
	}
	panic(fmt.Sprintf("unsupported operation: no notification for %s moving a care to %s", actor, requested))
}

// UpdateCare lets the caretaker change the terms while neither side has locked
// them. The client is notified.
func (s *CareService) UpdateCare(ctx context.Context, careID, caretakerID uuid.UUID, req UpdateCareRequest) (_ *CareDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "CareService.UpdateCare", trace.WithAttributes(
		attribute.String("care.id", careID.String()),
	))
	defer func() { endSpan(span, err) }()

	c, err := s.repo.FindByID(ctx, careID)
	if err != nil {
		return nil, err
	}
	if c.CaretakerID() != caretakerID {
		return nil, domain.NewForbiddenError("only the caretaker can edit this care")
	}
	if err := s.machine.EnsureEditable(careDomain.ActorCaretaker, c); err != nil {
		return nil, err
	}

	terms := careDomain.Terms{
		DailyPriceCents: c.DailyPriceCents(),
		CareStart:       c.CareStart(),
		CareEnd:         c.CareEnd(),
		Description:     c.Description(),
	}
	if req.DailyPriceCents != nil {
		terms.DailyPriceCents = *req.DailyPriceCents
	}
	if req.CareStart != nil {
		if terms.CareStart, err = parseDate("care_start", *req.CareStart); err != nil {
			return nil, err
		}
	}
	if req.CareEnd != nil {
		if terms.CareEnd, err = parseDate("care_end", *req.CareEnd); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		terms.Description = *req.Description
	}

	if err := c.UpdateTerms(terms, s.today()); err != nil {
		return nil, err
	}

	c.IncrementVersion()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("care terms updated", zap.String("care_id", c.ID().String()))
	s.notify(ctx, c.ClientID(), c.ID(), MessageCareEdited)

	result := toCareDTO(c)
	return &result, nil
}

// GetCare returns a care to one of its participants.
func (s *CareService) GetCare(ctx context.Context, careID, userID uuid.UUID) (*CareDTO, error) {
	c, err := s.repo.FindByID(ctx, careID)
	if err != nil {
		return nil, err
	}
	if !c.IsParticipant(userID) {
		return nil, domain.NewForbiddenError("care does not belong to this user")
	}
	result := toCareDTO(c)
	return &result, nil
}

// ListClientCares retrieves paginated cares booked by a client.
func (s *CareService) ListClientCares(ctx context.Context, clientID uuid.UUID, page, limit int) (*domain.PaginatedResult[CareDTO], error) {
	cares, total, err := s.repo.FindByClientID(ctx, clientID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toCareDTOs(cares), total, page, limit)
	return &result, nil
}

// ListCaretakerCares retrieves paginated cares requested from a caretaker.
func (s *CareService) ListCaretakerCares(ctx context.Context, caretakerID uuid.UUID, page, limit int) (*domain.PaginatedResult[CareDTO], error) {
	cares, total, err := s.repo.FindByCaretakerID(ctx, caretakerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toCareDTOs(cares), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// ListAllCares returns a paginated list of all cares (admin).
func (s *CareService) ListAllCares(ctx context.Context, page, limit int) ([]CareDTO, int64, error) {
	cares, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cares: %w", err)
	}
	return toCareDTOs(cares), total, nil
}

// CareStats returns care counts by caretaker status (admin).
func (s *CareService) CareStats(ctx context.Context) (*CareStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get care stats: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &CareStatsDTO{TotalCares: total, ByStatus: counts}, nil
}

// --- Batch operations ---

// OutdateExpiredCares moves every open care whose start date has been reached
// to outdated and returns how many it saved. A care modified concurrently is
// skipped and picked up again by the next run; any other persistence error
// aborts the run, keeping what was already saved.
func (s *CareService) OutdateExpiredCares(ctx context.Context) (saved int, err error) {
	ctx, span := s.tracer.Start(ctx, "CareService.OutdateExpiredCares")
	defer func() {
		span.SetAttributes(attribute.Int("care.outdated", saved))
		endSpan(span, err)
		s.metrics.ObserveSweep(saved, err)
	}()

	open, err := s.repo.FindNonTerminal(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open cares: %w", err)
	}

	outdated := s.machine.OutdateExpired(open, s.today())
	for _, c := range outdated {
		c.IncrementVersion()
		if err := s.repo.Update(ctx, c); err != nil {
			if domain.IsConflict(err) {
				s.logger.Warn("care changed during sweep, skipping", zap.String("care_id", c.ID().String()))
				continue
			}
			return saved, fmt.Errorf("failed to outdate care %s: %w", c.ID(), err)
		}
		saved++
	}

	s.logger.Info("expired cares outdated",
		zap.Int("open", len(open)),
		zap.Int("outdated", saved),
	)
	return saved, nil
}

// CancelCaresIfStatePermitsAndSave cancels the open cares between two users on
// behalf of actingUser, skipping any care whose state has no cancel
// transition. No booking notifications are sent.
func (s *CareService) CancelCaresIfStatePermitsAndSave(ctx context.Context, actingUser, otherUser uuid.UUID) (saved int, err error) {
	ctx, span := s.tracer.Start(ctx, "CareService.CancelCaresIfStatePermitsAndSave")
	defer func() { endSpan(span, err) }()

	cares, err := s.repo.FindBetweenParticipants(ctx, actingUser, otherUser)
	if err != nil {
		return 0, fmt.Errorf("failed to load cares between users: %w", err)
	}

	var errs []error
	for _, c := range s.machine.CancelIfPermitted(cares, actingUser) {
		c.IncrementVersion()
		if err := s.repo.Update(ctx, c); err != nil {
			if domain.IsConflict(err) {
				s.logger.Warn("care changed during block cancellation, skipping", zap.String("care_id", c.ID().String()))
				continue
			}
			errs = append(errs, fmt.Errorf("care %s: %w", c.ID(), err))
			continue
		}
		saved++
	}

	s.logger.Info("cares cancelled after block",
		zap.String("acting_user", actingUser.String()),
		zap.String("other_user", otherUser.String()),
		zap.Int("candidates", len(cares)),
		zap.Int("cancelled", saved),
	)
	return saved, errors.Join(errs...)
}

// --- Helpers ---

func (s *CareService) notify(ctx context.Context, recipient, careID uuid.UUID, message Message) {
	s.notifier.Notify(ctx, Notification{
		RecipientID: recipient,
		ObjectID:    careID,
		ObjectType:  ObjectTypeCare,
		Template:    message,
		OccurredAt:  s.now().UTC(),
	})
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field))
	}
	return t, nil
}

func parseDates(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := parseDate("care_start", rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("care_end", rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func joinOptions(options []animal.Option) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

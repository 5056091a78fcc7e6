package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/animal"
	blockDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/block"
	careDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	offerDomain "github.com/Kilat-Pet-Delivery/service-care/internal/domain/offer"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/kafka"
	"github.com/google/uuid"
)

// memCareRepo stores copies so that unsaved changes never leak into the store.
type memCareRepo struct {
	mu        sync.Mutex
	cares     map[uuid.UUID]careDomain.Care
	updateErr func(c *careDomain.Care) error
	updates   int
}

func newMemCareRepo() *memCareRepo {
	return &memCareRepo{cares: make(map[uuid.UUID]careDomain.Care)}
}

func (r *memCareRepo) put(c *careDomain.Care) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cares[c.ID()] = *c
}

func (r *memCareRepo) get(id uuid.UUID) *careDomain.Care {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cares[id]
	if !ok {
		return nil
	}
	return &c
}

func (r *memCareRepo) all(filter func(*careDomain.Care) bool) []*careDomain.Care {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*careDomain.Care
	for _, stored := range r.cares {
		c := stored
		if filter == nil || filter(&c) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt().After(out[j].SubmittedAt()) })
	return out
}

func page(cares []*careDomain.Care, pageNum, limit int) ([]*careDomain.Care, int64) {
	total := int64(len(cares))
	start := (pageNum - 1) * limit
	if start >= len(cares) {
		return nil, total
	}
	end := start + limit
	if end > len(cares) {
		end = len(cares)
	}
	return cares[start:end], total
}

func (r *memCareRepo) FindByID(_ context.Context, id uuid.UUID) (*careDomain.Care, error) {
	if c := r.get(id); c != nil {
		return c, nil
	}
	return nil, domain.NewNotFoundError("Care", id.String())
}

func (r *memCareRepo) FindByClientID(_ context.Context, clientID uuid.UUID, p, limit int) ([]*careDomain.Care, int64, error) {
	cares, total := page(r.all(func(c *careDomain.Care) bool { return c.ClientID() == clientID }), p, limit)
	return cares, total, nil
}

func (r *memCareRepo) FindByCaretakerID(_ context.Context, caretakerID uuid.UUID, p, limit int) ([]*careDomain.Care, int64, error) {
	cares, total := page(r.all(func(c *careDomain.Care) bool { return c.CaretakerID() == caretakerID }), p, limit)
	return cares, total, nil
}

func (r *memCareRepo) FindNonTerminal(context.Context) ([]*careDomain.Care, error) {
	return r.all(func(c *careDomain.Care) bool { return !c.IsFinished() }), nil
}

func (r *memCareRepo) FindBetweenParticipants(_ context.Context, a, b uuid.UUID) ([]*careDomain.Care, error) {
	return r.all(func(c *careDomain.Care) bool {
		between := (c.ClientID() == a && c.CaretakerID() == b) || (c.ClientID() == b && c.CaretakerID() == a)
		return between && !c.IsFinished()
	}), nil
}

func (r *memCareRepo) ListAll(_ context.Context, p, limit int) ([]*careDomain.Care, int64, error) {
	cares, total := page(r.all(nil), p, limit)
	return cares, total, nil
}

func (r *memCareRepo) CountByStatus(context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range r.all(nil) {
		counts[string(c.CaretakerStatus())]++
	}
	return counts, nil
}

func (r *memCareRepo) Save(_ context.Context, c *careDomain.Care) error {
	r.put(c)
	return nil
}

func (r *memCareRepo) Update(_ context.Context, c *careDomain.Care) error {
	if r.updateErr != nil {
		if err := r.updateErr(c); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.cares[c.ID()]
	if !ok || stored.Version() != c.Version()-1 {
		return domain.NewConflictError("care was modified by another transaction")
	}
	r.cares[c.ID()] = *c
	r.updates++
	return nil
}

type memOfferRepo struct {
	offers map[uuid.UUID]*offerDomain.Offer
}

func newMemOfferRepo(offers ...*offerDomain.Offer) *memOfferRepo {
	r := &memOfferRepo{offers: make(map[uuid.UUID]*offerDomain.Offer)}
	for _, o := range offers {
		r.offers[o.ID()] = o
	}
	return r
}

func (r *memOfferRepo) FindByID(_ context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	if o, ok := r.offers[id]; ok {
		return o, nil
	}
	return nil, domain.NewNotFoundError("Offer", id.String())
}

func (r *memOfferRepo) FindByCaretakerID(_ context.Context, caretakerID uuid.UUID) ([]*offerDomain.Offer, error) {
	var out []*offerDomain.Offer
	for _, o := range r.offers {
		if o.CaretakerID() == caretakerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOfferRepo) FindActive(_ context.Context, caretakerID uuid.UUID, animalType animal.Type) (*offerDomain.Offer, error) {
	for _, o := range r.offers {
		if o.CaretakerID() == caretakerID && o.AnimalType() == animalType && o.IsActive() {
			return o, nil
		}
	}
	return nil, domain.NewNotFoundError("Offer", "")
}

func (r *memOfferRepo) Save(_ context.Context, o *offerDomain.Offer) error {
	r.offers[o.ID()] = o
	return nil
}

func (r *memOfferRepo) Update(_ context.Context, o *offerDomain.Offer) error {
	r.offers[o.ID()] = o
	return nil
}

type memBlockRepo struct {
	blocks map[[2]uuid.UUID]blockDomain.Block
}

func newMemBlockRepo() *memBlockRepo {
	return &memBlockRepo{blocks: make(map[[2]uuid.UUID]blockDomain.Block)}
}

func (r *memBlockRepo) Save(_ context.Context, b blockDomain.Block) error {
	key := [2]uuid.UUID{b.BlockerID, b.BlockedID}
	if _, ok := r.blocks[key]; !ok {
		r.blocks[key] = b
	}
	return nil
}

func (r *memBlockRepo) Delete(_ context.Context, blockerID, blockedID uuid.UUID) error {
	delete(r.blocks, [2]uuid.UUID{blockerID, blockedID})
	return nil
}

func (r *memBlockRepo) ExistsEitherWay(_ context.Context, a, b uuid.UUID) (bool, error) {
	_, ab := r.blocks[[2]uuid.UUID{a, b}]
	_, ba := r.blocks[[2]uuid.UUID{b, a}]
	return ab || ba, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.sent...)
}

type publishedEvent struct {
	topic string
	key   string
	event kafka.CloudEvent
}

type stubPublisher struct {
	published []publishedEvent
	err       error
}

func (p *stubPublisher) PublishEvent(_ context.Context, topic, key string, event kafka.CloudEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

// fixedClock is 2026-03-10 09:00 UTC.
func fixedClock() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

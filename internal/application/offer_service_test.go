package application

import (
	"context"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOfferService() (*OfferService, *memOfferRepo) {
	repo := newMemOfferRepo()
	return NewOfferService(repo, zap.NewNop()), repo
}

func TestCreateOffer(t *testing.T) {
	svc, _ := newTestOfferService()
	caretakerID := uuid.New()

	result, err := svc.CreateOffer(context.Background(), caretakerID, CreateOfferRequest{
		AnimalType:      "Cat",
		DailyPriceCents: 3500,
		Options:         []string{"size:small", "age:senior"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cat", result.AnimalType)
	assert.Equal(t, "active", result.Status)
	assert.ElementsMatch(t, []string{"size:small", "age:senior"}, result.Options)

	_, err = svc.CreateOffer(context.Background(), caretakerID, CreateOfferRequest{AnimalType: "cat", DailyPriceCents: 4000})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestCreateOffer_Invalid(t *testing.T) {
	svc, _ := newTestOfferService()

	_, err := svc.CreateOffer(context.Background(), uuid.New(), CreateOfferRequest{AnimalType: "unicorn", DailyPriceCents: 100})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateOffer(context.Background(), uuid.New(), CreateOfferRequest{AnimalType: "dog", DailyPriceCents: 100, Options: []string{"large"}})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateOffer(context.Background(), uuid.New(), CreateOfferRequest{AnimalType: "dog", DailyPriceCents: -5})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateAndArchiveOffer(t *testing.T) {
	svc, _ := newTestOfferService()
	caretakerID := uuid.New()
	created, err := svc.CreateOffer(context.Background(), caretakerID, CreateOfferRequest{AnimalType: "dog", DailyPriceCents: 5000})
	require.NoError(t, err)

	_, err = svc.UpdateOffer(context.Background(), uuid.New(), created.ID, UpdateOfferRequest{DailyPriceCents: 6000})
	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))

	updated, err := svc.UpdateOffer(context.Background(), caretakerID, created.ID, UpdateOfferRequest{DailyPriceCents: 6000})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), updated.DailyPriceCents)

	require.NoError(t, svc.ArchiveOffer(context.Background(), caretakerID, created.ID))

	err = svc.ArchiveOffer(context.Background(), caretakerID, created.ID)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))

	_, err = svc.UpdateOffer(context.Background(), caretakerID, created.ID, UpdateOfferRequest{DailyPriceCents: 7000})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidState(err))
}

func TestListOffers(t *testing.T) {
	svc, _ := newTestOfferService()
	caretakerID := uuid.New()
	dog, err := svc.CreateOffer(context.Background(), caretakerID, CreateOfferRequest{AnimalType: "dog", DailyPriceCents: 5000})
	require.NoError(t, err)
	_, err = svc.CreateOffer(context.Background(), caretakerID, CreateOfferRequest{AnimalType: "cat", DailyPriceCents: 3000})
	require.NoError(t, err)
	require.NoError(t, svc.ArchiveOffer(context.Background(), caretakerID, dog.ID))

	mine, err := svc.ListMyOffers(context.Background(), caretakerID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	public, err := svc.ListCaretakerOffers(context.Background(), caretakerID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "cat", public[0].AnimalType)

	got, err := svc.GetOffer(context.Background(), dog.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", got.Status)
}

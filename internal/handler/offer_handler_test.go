package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOffers struct {
	archived []uuid.UUID
}

func (s *stubOffers) CreateOffer(_ context.Context, caretakerID uuid.UUID, req application.CreateOfferRequest) (*application.OfferDTO, error) {
	if req.DailyPriceCents <= 0 {
		return nil, domain.NewValidationError("daily price must be positive")
	}
	return &application.OfferDTO{ID: uuid.New(), CaretakerID: caretakerID, AnimalType: req.AnimalType, Status: "active"}, nil
}

func (s *stubOffers) GetOffer(_ context.Context, offerID uuid.UUID) (*application.OfferDTO, error) {
	return nil, domain.NewNotFoundError("Offer", offerID.String())
}

func (s *stubOffers) ListMyOffers(context.Context, uuid.UUID) ([]application.OfferDTO, error) {
	return []application.OfferDTO{}, nil
}

func (s *stubOffers) ListCaretakerOffers(_ context.Context, caretakerID uuid.UUID) ([]application.OfferDTO, error) {
	return []application.OfferDTO{{CaretakerID: caretakerID, Status: "active"}}, nil
}

func (s *stubOffers) UpdateOffer(context.Context, uuid.UUID, uuid.UUID, application.UpdateOfferRequest) (*application.OfferDTO, error) {
	return nil, domain.NewForbiddenError("you do not own this offer")
}

func (s *stubOffers) ArchiveOffer(_ context.Context, _, offerID uuid.UUID) error {
	s.archived = append(s.archived, offerID)
	return nil
}

func TestOfferRoutes(t *testing.T) {
	offers := &stubOffers{}
	jwtManager := auth.NewJWTManager(testSecret, time.Hour, 24*time.Hour)
	router := gin.New()
	NewOfferHandler(offers).RegisterRoutes(&router.RouterGroup, jwtManager)
	token := bearer(t, jwtManager, uuid.New(), auth.RoleUser)

	w := doJSON(router, http.MethodPost, "/api/v1/offers", token, application.CreateOfferRequest{AnimalType: "cat", DailyPriceCents: 3000})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/offers", token, map[string]interface{}{"animal_type": "cat", "daily_price_cents": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/offers/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPut, "/api/v1/offers/"+uuid.NewString(), token, map[string]interface{}{"daily_price_cents": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)

	offerID := uuid.New()
	w = doJSON(router, http.MethodDelete, "/api/v1/offers/"+offerID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{offerID}, offers.archived)

	w = doJSON(router, http.MethodGet, "/api/v1/caretakers/"+uuid.NewString()+"/offers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

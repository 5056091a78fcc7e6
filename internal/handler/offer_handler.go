package handler

import (
	"context"
	"net/http"

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfferUseCases is what the offer routes need from the application layer.
type OfferUseCases interface {
	CreateOffer(ctx context.Context, caretakerID uuid.UUID, req application.CreateOfferRequest) (*application.OfferDTO, error)
	GetOffer(ctx context.Context, offerID uuid.UUID) (*application.OfferDTO, error)
	ListMyOffers(ctx context.Context, caretakerID uuid.UUID) ([]application.OfferDTO, error)
	ListCaretakerOffers(ctx context.Context, caretakerID uuid.UUID) ([]application.OfferDTO, error)
	UpdateOffer(ctx context.Context, caretakerID, offerID uuid.UUID, req application.UpdateOfferRequest) (*application.OfferDTO, error)
	ArchiveOffer(ctx context.Context, caretakerID, offerID uuid.UUID) error
}

// OfferHandler handles HTTP requests for the offer catalog.
type OfferHandler struct {
	service OfferUseCases
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service OfferUseCases) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers offer routes.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	offers := r.Group("/api/v1/offers")
	offers.Use(authMW)
	{
		offers.POST("", h.CreateOffer)
		offers.GET("", h.ListMyOffers)
		offers.GET("/:id", h.GetOffer)
		offers.PUT("/:id", h.UpdateOffer)
		offers.DELETE("/:id", h.ArchiveOffer)
	}

	caretakers := r.Group("/api/v1/caretakers")
	caretakers.Use(authMW)
	caretakers.GET("/:id/offers", h.ListCaretakerOffers)
}

// CreateOffer handles POST /api/v1/offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req application.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateOffer(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListMyOffers handles GET /api/v1/offers.
func (h *OfferHandler) ListMyOffers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.ListMyOffers(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOffer handles GET /api/v1/offers/:id.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offerID, ok := pathID(c, "id", "offer")
	if !ok {
		return
	}

	result, err := h.service.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateOffer handles PUT /api/v1/offers/:id.
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	offerID, ok := pathID(c, "id", "offer")
	if !ok {
		return
	}

	var req application.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateOffer(c.Request.Context(), userID, offerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ArchiveOffer handles DELETE /api/v1/offers/:id.
func (h *OfferHandler) ArchiveOffer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	offerID, ok := pathID(c, "id", "offer")
	if !ok {
		return
	}

	if err := h.service.ArchiveOffer(c.Request.Context(), userID, offerID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCaretakerOffers handles GET /api/v1/caretakers/:id/offers.
func (h *OfferHandler) ListCaretakerOffers(c *gin.Context) {
	caretakerID, ok := pathID(c, "id", "caretaker")
	if !ok {
		return
	}

	result, err := h.service.ListCaretakerOffers(c.Request.Context(), caretakerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

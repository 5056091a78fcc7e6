package handler

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CareUseCases is what the care routes need from the application layer.
type CareUseCases interface {
	MakeReservation(ctx context.Context, clientID uuid.UUID, req application.MakeReservationRequest) (*application.CareDTO, error)
	GetCare(ctx context.Context, careID, userID uuid.UUID) (*application.CareDTO, error)
	ListClientCares(ctx context.Context, clientID uuid.UUID, page, limit int) (*domain.PaginatedResult[application.CareDTO], error)
	ListCaretakerCares(ctx context.Context, caretakerID uuid.UUID, page, limit int) (*domain.PaginatedResult[application.CareDTO], error)
	UpdateCare(ctx context.Context, careID, caretakerID uuid.UUID, req application.UpdateCareRequest) (*application.CareDTO, error)
	ClientChangeStatus(ctx context.Context, careID, clientID uuid.UUID, req application.ChangeStatusRequest) (*application.CareDTO, error)
	CaretakerChangeStatus(ctx context.Context, careID, caretakerID uuid.UUID, req application.ChangeStatusRequest) (*application.CareDTO, error)
}

// CareHandler handles HTTP requests for care operations.
type CareHandler struct {
	service CareUseCases
}

// NewCareHandler creates a new CareHandler.
func NewCareHandler(service CareUseCases) *CareHandler {
	return &CareHandler{service: service}
}

// RegisterRoutes registers all care routes on the given router group. Any
// authenticated user may act as client or caretaker; the role on a care is
// decided by the care itself.
func (h *CareHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cares := r.Group("/api/v1/cares")
	cares.Use(middleware.AuthMiddleware(jwtManager))
	{
		cares.POST("", h.MakeReservation)
		cares.GET("", h.ListCares)
		cares.GET("/:id", h.GetCare)
		cares.PUT("/:id", h.UpdateCare)
		cares.PUT("/:id/client-status", h.ClientChangeStatus)
		cares.PUT("/:id/caretaker-status", h.CaretakerChangeStatus)
	}
}

// MakeReservation handles POST /api/v1/cares.
func (h *CareHandler) MakeReservation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req application.MakeReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.MakeReservation(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListCares handles GET /api/v1/cares?as=client|caretaker.
func (h *CareHandler) ListCares(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)

	var (
		result *domain.PaginatedResult[application.CareDTO]
		err    error
	)
	switch c.DefaultQuery("as", "client") {
	case "client":
		result, err = h.service.ListClientCares(c.Request.Context(), userID, page, limit)
	case "caretaker":
		result, err = h.service.ListCaretakerCares(c.Request.Context(), userID, page, limit)
	default:
		response.BadRequest(c, "as must be client or caretaker")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetCare handles GET /api/v1/cares/:id.
func (h *CareHandler) GetCare(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	careID, ok := pathID(c, "id", "care")
	if !ok {
		return
	}

	result, err := h.service.GetCare(c.Request.Context(), careID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCare handles PUT /api/v1/cares/:id.
func (h *CareHandler) UpdateCare(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	careID, ok := pathID(c, "id", "care")
	if !ok {
		return
	}

	var req application.UpdateCareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCare(c.Request.Context(), careID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ClientChangeStatus handles PUT /api/v1/cares/:id/client-status.
func (h *CareHandler) ClientChangeStatus(c *gin.Context) {
	h.changeStatus(c, h.service.ClientChangeStatus)
}

// CaretakerChangeStatus handles PUT /api/v1/cares/:id/caretaker-status.
func (h *CareHandler) CaretakerChangeStatus(c *gin.Context) {
	h.changeStatus(c, h.service.CaretakerChangeStatus)
}

type changeStatusFunc func(ctx context.Context, careID, userID uuid.UUID, req application.ChangeStatusRequest) (*application.CareDTO, error)

func (h *CareHandler) changeStatus(c *gin.Context, change changeStatusFunc) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	careID, ok := pathID(c, "id", "care")
	if !ok {
		return
	}

	var req application.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := change(c.Request.Context(), careID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

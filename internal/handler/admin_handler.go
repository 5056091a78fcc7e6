package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-care/internal/application"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/auth"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/response"
)

// AdminCareUseCases is what the admin routes need from the application layer.
type AdminCareUseCases interface {
	ListAllCares(ctx context.Context, page, limit int) ([]application.CareDTO, int64, error)
	CareStats(ctx context.Context) (*application.CareStatsDTO, error)
}

// SweepRunner runs the outdating sweep once.
type SweepRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

// AdminCareHandler handles admin HTTP requests for care management.
type AdminCareHandler struct {
	service AdminCareUseCases
	sweep   SweepRunner
}

// NewAdminCareHandler creates a new AdminCareHandler.
func NewAdminCareHandler(service AdminCareUseCases, sweep SweepRunner) *AdminCareHandler {
	return &AdminCareHandler{service: service, sweep: sweep}
}

// RegisterRoutes registers admin care routes.
func (h *AdminCareHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/cares", h.ListCares)
		admin.GET("/stats/cares", h.CareStats)
		admin.POST("/cares/sweep", h.RunSweep)
	}
}

// ListCares handles GET /api/v1/admin/cares.
func (h *AdminCareHandler) ListCares(c *gin.Context) {
	page, limit := parsePagination(c)

	cares, total, err := h.service.ListAllCares(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, cares, total, page, limit)
}

// CareStats handles GET /api/v1/admin/stats/cares.
func (h *AdminCareHandler) CareStats(c *gin.Context) {
	stats, err := h.service.CareStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// RunSweep handles POST /api/v1/admin/cares/sweep.
func (h *AdminCareHandler) RunSweep(c *gin.Context) {
	outdated, err := h.sweep.RunOnce(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, application.SweepResultDTO{Outdated: outdated})
}

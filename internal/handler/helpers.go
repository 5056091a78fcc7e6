package handler

import (
	"strconv"

	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-care/internal/platform/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

// currentUser returns the authenticated caller or writes 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
	}
	return userID, ok
}

// pathID parses the named path parameter as a UUID or writes 400.
func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

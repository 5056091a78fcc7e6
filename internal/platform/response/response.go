// Package response writes the JSON envelope used by every endpoint.
package response

import (
	"errors"
	"net/http"

	"github.com/Kilat-Pet-Delivery/service-care/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-care/internal/domain/care"
	"github.com/gin-gonic/gin"
)

// Envelope is the body shape of every response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries paging information.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

// BadRequest writes 400 with a message.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: msg})
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Error: "unauthorized"})
}

// ErrorWithDetails writes status with a message and structured details.
func ErrorWithDetails(c *gin.Context, status int, msg string, details interface{}) {
	c.AbortWithStatusJSON(status, Envelope{Error: msg, Details: details})
}

// IllegalTransitionMessage is shown for every rejected care status change.
const IllegalTransitionMessage = "this action is not allowed in the care's current state"

// Error maps a domain error to its HTTP status. Unknown errors become 500
// with a generic message; the original is attached to the gin context for
// the request logger.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var illegal *care.IllegalTransitionError
	if errors.As(err, &illegal) {
		ErrorWithDetails(c, http.StatusConflict, IllegalTransitionMessage, gin.H{
			"current_status":   illegal.From,
			"requested_status": illegal.To,
			"role":             illegal.Actor,
		})
		return
	}

	switch {
	case domain.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: err.Error()})
	case domain.IsForbidden(err):
		c.AbortWithStatusJSON(http.StatusForbidden, Envelope{Error: err.Error()})
	case domain.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, Envelope{Error: err.Error()})
	case domain.IsConflict(err), domain.IsInvalidState(err):
		c.AbortWithStatusJSON(http.StatusConflict, Envelope{Error: err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Error: "internal server error"})
	}
}

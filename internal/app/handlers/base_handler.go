// Package handlers holds the shared HTTP plumbing: the response envelope,
// domain-error to status mapping, and request binding with aggregated
// validation messages.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// RespondData writes the success envelope with a payload.
func (h *BaseHandler) RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.Response{Success: true, Data: data})
}

// RespondMessage writes the success envelope with only a message.
func (h *BaseHandler) RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, models.Response{Success: true, Message: message})
}

// RespondList writes the success envelope for a paginated collection.
func (h *BaseHandler) RespondList(c *gin.Context, data interface{}, pagination *models.Pagination) {
	c.JSON(http.StatusOK, models.Response{Success: true, Data: data, Pagination: pagination})
}

// RespondError maps a domain error to its HTTP status. Unexpected errors
// become a generic 500 so internals never leak to clients.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	}

	message := "Internal server error"
	var statusErr *models.StatusError
	if errors.As(err, &statusErr) {
		message = statusErr.Message
	} else if status == http.StatusInternalServerError {
		h.Logger.Error("Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.JSON(status, models.Response{Success: false, Message: message})
}

// BindJSON binds and validates the request body. Every violated field is
// collected into one aggregated 400; the handler proceeds only on true.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.respondValidation(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters the same way.
func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.respondValidation(c, err)
		return false
	}
	return true
}

// ParseUUIDParam validates a path parameter as a UUID. label names the
// entity in the 400 message, e.g. "student".
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: fmt.Sprintf("Validation error: Invalid %s ID", label),
		})
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *BaseHandler) respondValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	message := "Validation error: invalid request body"
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldMessage(fe))
		}
		message = "Validation error: " + strings.Join(parts, ", ")
	}
	c.JSON(http.StatusBadRequest, models.Response{Success: false, Message: message})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "uuid":
		return fmt.Sprintf("Invalid %s", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

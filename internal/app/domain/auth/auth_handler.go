package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN TEACHER STUDENT"`
}

type AuthHandlers struct {
	*handlers.BaseHandler
	service AuthService
}

func NewAuthHandlers(base *handlers.BaseHandler, service AuthService) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base, service: service}
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, result)
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, result)
}

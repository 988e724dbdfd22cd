package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Role     *string `json:"role" binding:"omitempty,oneof=ADMIN TEACHER STUDENT"`
}

type ListUsersQuery struct {
	handlers.PageQuery
	Role string `form:"role" binding:"omitempty,oneof=ADMIN TEACHER STUDENT"`
}

type UserHandlers struct {
	*handlers.BaseHandler
	service UserService
}

func NewUserHandlers(base *handlers.BaseHandler, service UserService) *UserHandlers {
	return &UserHandlers{BaseHandler: base, service: service}
}

func (h *UserHandlers) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, user)
}

func (h *UserHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, user)
}

func (h *UserHandlers) List(c *gin.Context) {
	var q ListUsersQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	input := ListUsersInput{Page: q.Page, Limit: q.Limit}
	if q.Role != "" {
		role := models.Role(q.Role)
		input.Role = &role
	}

	users, pagination, err := h.service.List(c.Request.Context(), input)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, users, pagination)
}

func (h *UserHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := UpdateUserInput{Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, user)
}

func (h *UserHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "User deleted successfully")
}

package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
)

type CreateTeacherRequest struct {
	UserID     string  `json:"userId" binding:"required,uuid"`
	FirstName  string  `json:"firstName" binding:"required,min=1"`
	LastName   string  `json:"lastName" binding:"required,min=1"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

type UpdateTeacherRequest struct {
	FirstName  *string `json:"firstName" binding:"omitempty,min=1"`
	LastName   *string `json:"lastName" binding:"omitempty,min=1"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

type ListTeachersQuery struct {
	handlers.PageQuery
	Search string `form:"search"`
}

type TeacherHandlers struct {
	*handlers.BaseHandler
	service TeacherService
}

func NewTeacherHandlers(base *handlers.BaseHandler, service TeacherService) *TeacherHandlers {
	return &TeacherHandlers{BaseHandler: base, service: service}
}

func (h *TeacherHandlers) Create(c *gin.Context) {
	var req CreateTeacherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The uuid binding tag already validated the format.
	userID, _ := uuid.Parse(req.UserID)

	teacher, err := h.service.Create(c.Request.Context(), CreateTeacherInput{
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, teacher)
}

func (h *TeacherHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "teacher")
	if !ok {
		return
	}

	teacher, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, teacher)
}

func (h *TeacherHandlers) List(c *gin.Context) {
	var q ListTeachersQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	teachers, pagination, err := h.service.List(c.Request.Context(), ListTeachersInput{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, teachers, pagination)
}

func (h *TeacherHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "teacher")
	if !ok {
		return
	}

	var req UpdateTeacherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	teacher, err := h.service.Update(c.Request.Context(), id, UpdateTeacherInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, teacher)
}

func (h *TeacherHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "teacher")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Teacher deleted successfully")
}

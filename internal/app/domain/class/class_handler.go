package class

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
)

type CreateClassRequest struct {
	Name         string  `json:"name" binding:"required,min=1"`
	Grade        int     `json:"grade" binding:"required,gte=1,lte=12"`
	Section      *string `json:"section"`
	AcademicYear string  `json:"academicYear" binding:"required,min=1"`
}

type UpdateClassRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Grade        *int    `json:"grade" binding:"omitempty,gte=1,lte=12"`
	Section      *string `json:"section"`
	AcademicYear *string `json:"academicYear" binding:"omitempty,min=1"`
}

type ListClassesQuery struct {
	handlers.PageQuery
	Grade        *int   `form:"grade" binding:"omitempty,gte=1,lte=12"`
	AcademicYear string `form:"academicYear"`
}

type ClassHandlers struct {
	*handlers.BaseHandler
	service ClassService
}

func NewClassHandlers(base *handlers.BaseHandler, service ClassService) *ClassHandlers {
	return &ClassHandlers{BaseHandler: base, service: service}
}

func (h *ClassHandlers) Create(c *gin.Context) {
	var req CreateClassRequest
	if !h.BindJSON(c, &req) {
		return
	}

	class, err := h.service.Create(c.Request.Context(), CreateClassInput{
		Name:         req.Name,
		Grade:        req.Grade,
		Section:      req.Section,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, class)
}

func (h *ClassHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "class")
	if !ok {
		return
	}

	class, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, class)
}

func (h *ClassHandlers) List(c *gin.Context) {
	var q ListClassesQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	classes, pagination, err := h.service.List(c.Request.Context(), ListClassesInput{
		Grade:        q.Grade,
		AcademicYear: q.AcademicYear,
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, classes, pagination)
}

func (h *ClassHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "class")
	if !ok {
		return
	}

	var req UpdateClassRequest
	if !h.BindJSON(c, &req) {
		return
	}

	class, err := h.service.Update(c.Request.Context(), id, UpdateClassInput{
		Name:         req.Name,
		Grade:        req.Grade,
		Section:      req.Section,
		AcademicYear: req.AcademicYear,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, class)
}

func (h *ClassHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "class")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Class deleted successfully")
}

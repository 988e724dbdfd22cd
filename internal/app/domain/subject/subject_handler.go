package subject

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
)

type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1"`
	Code        string  `json:"code" binding:"required,min=1"`
	Description *string `json:"description"`
}

type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Code        *string `json:"code" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

type ListSubjectsQuery struct {
	handlers.PageQuery
	Search string `form:"search"`
}

type AssignTeacherRequest struct {
	TeacherID string `json:"teacherId" binding:"required,uuid"`
}

type SubjectHandlers struct {
	*handlers.BaseHandler
	service SubjectService
}

func NewSubjectHandlers(base *handlers.BaseHandler, service SubjectService) *SubjectHandlers {
	return &SubjectHandlers{BaseHandler: base, service: service}
}

func (h *SubjectHandlers) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	subject, err := h.service.Create(c.Request.Context(), CreateSubjectInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, subject)
}

func (h *SubjectHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "subject")
	if !ok {
		return
	}

	subject, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, subject)
}

func (h *SubjectHandlers) List(c *gin.Context) {
	var q ListSubjectsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	subjects, pagination, err := h.service.List(c.Request.Context(), ListSubjectsInput{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, subjects, pagination)
}

func (h *SubjectHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "subject")
	if !ok {
		return
	}

	var req UpdateSubjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	subject, err := h.service.Update(c.Request.Context(), id, UpdateSubjectInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, subject)
}

func (h *SubjectHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "subject")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Subject deleted successfully")
}

func (h *SubjectHandlers) AssignTeacher(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "subject")
	if !ok {
		return
	}

	var req AssignTeacherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The uuid binding tag already validated the format.
	teacherID, _ := uuid.Parse(req.TeacherID)

	assignment, err := h.service.AssignTeacher(c.Request.Context(), id, teacherID)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, assignment)
}

func (h *SubjectHandlers) UnassignTeacher(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "subject")
	if !ok {
		return
	}
	teacherID, ok := h.ParseUUIDParam(c, "teacherId", "teacher")
	if !ok {
		return
	}

	if err := h.service.UnassignTeacher(c.Request.Context(), id, teacherID); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Teacher unassigned successfully")
}

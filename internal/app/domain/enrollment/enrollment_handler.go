package enrollment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
)

type CreateEnrollmentRequest struct {
	StudentID string `json:"studentId" binding:"required,uuid"`
	ClassID   string `json:"classId" binding:"required,uuid"`
	SubjectID string `json:"subjectId" binding:"required,uuid"`
}

type ListEnrollmentsQuery struct {
	handlers.PageQuery
	StudentID string `form:"studentId" binding:"omitempty,uuid"`
	ClassID   string `form:"classId" binding:"omitempty,uuid"`
	SubjectID string `form:"subjectId" binding:"omitempty,uuid"`
}

type EnrollmentHandlers struct {
	*handlers.BaseHandler
	service EnrollmentService
}

func NewEnrollmentHandlers(base *handlers.BaseHandler, service EnrollmentService) *EnrollmentHandlers {
	return &EnrollmentHandlers{BaseHandler: base, service: service}
}

func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

func (h *EnrollmentHandlers) Create(c *gin.Context) {
	var req CreateEnrollmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The uuid binding tags already validated the formats.
	studentID, _ := uuid.Parse(req.StudentID)
	classID, _ := uuid.Parse(req.ClassID)
	subjectID, _ := uuid.Parse(req.SubjectID)

	enrollment, err := h.service.Create(c.Request.Context(), CreateEnrollmentInput{
		StudentID: studentID,
		ClassID:   classID,
		SubjectID: subjectID,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, enrollment)
}

func (h *EnrollmentHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "enrollment")
	if !ok {
		return
	}

	enrollment, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, enrollment)
}

func (h *EnrollmentHandlers) List(c *gin.Context) {
	var q ListEnrollmentsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	enrollments, pagination, err := h.service.List(c.Request.Context(), ListEnrollmentsInput{
		StudentID: optionalUUID(q.StudentID),
		ClassID:   optionalUUID(q.ClassID),
		SubjectID: optionalUUID(q.SubjectID),
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, enrollments, pagination)
}

func (h *EnrollmentHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "enrollment")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Enrollment deleted successfully")
}

package attendance

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
	"github.com/Patilgrv/student-management-api/internal/app/middleware"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type CreateAttendanceRequest struct {
	StudentID string  `json:"studentId" binding:"required,uuid"`
	ClassID   string  `json:"classId" binding:"required,uuid"`
	SubjectID string  `json:"subjectId" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	Status    string  `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Remarks   *string `json:"remarks"`
}

type UpdateAttendanceRequest struct {
	Status  *string `json:"status" binding:"omitempty,oneof=PRESENT ABSENT LATE EXCUSED"`
	Remarks *string `json:"remarks"`
}

type ListAttendanceQuery struct {
	handlers.PageQuery
	StudentID string `form:"studentId" binding:"omitempty,uuid"`
	ClassID   string `form:"classId" binding:"omitempty,uuid"`
	SubjectID string `form:"subjectId" binding:"omitempty,uuid"`
	Date      string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

type StudentAttendanceQuery struct {
	ClassID   string `form:"classId" binding:"omitempty,uuid"`
	SubjectID string `form:"subjectId" binding:"omitempty,uuid"`
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// studentAttendanceResponse carries the aggregate beside the records.
type studentAttendanceResponse struct {
	Success    bool                        `json:"success"`
	Data       []models.Attendance         `json:"data"`
	Statistics models.AttendanceStatistics `json:"statistics"`
}

type reportsResponse struct {
	Success bool                             `json:"success"`
	Data    []models.StudentAttendanceReport `json:"data"`
	Summary models.AttendanceReportSummary   `json:"summary"`
}

type AttendanceHandlers struct {
	*handlers.BaseHandler
	service AttendanceService
}

func NewAttendanceHandlers(base *handlers.BaseHandler, service AttendanceService) *AttendanceHandlers {
	return &AttendanceHandlers{BaseHandler: base, service: service}
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

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *AttendanceHandlers) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		h.RespondError(c, models.Unauthenticated("Authentication required"))
		return
	}

	var req CreateAttendanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The binding tags already validated the formats.
	studentID, _ := uuid.Parse(req.StudentID)
	classID, _ := uuid.Parse(req.ClassID)
	subjectID, _ := uuid.Parse(req.SubjectID)
	date, _ := time.Parse("2006-01-02", req.Date)

	attendance, err := h.service.Create(c.Request.Context(), identity.UserID, CreateAttendanceInput{
		StudentID: studentID,
		ClassID:   classID,
		SubjectID: subjectID,
		Date:      date,
		Status:    models.AttendanceStatus(req.Status),
		Remarks:   req.Remarks,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, attendance)
}

func (h *AttendanceHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "attendance")
	if !ok {
		return
	}

	attendance, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, attendance)
}

func (h *AttendanceHandlers) List(c *gin.Context) {
	var q ListAttendanceQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	records, pagination, err := h.service.List(c.Request.Context(), ListAttendanceInput{
		StudentID: optionalUUID(q.StudentID),
		ClassID:   optionalUUID(q.ClassID),
		SubjectID: optionalUUID(q.SubjectID),
		Date:      optionalDate(q.Date),
		StartDate: optionalDate(q.StartDate),
		EndDate:   optionalDate(q.EndDate),
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, records, pagination)
}

// GetStudentAttendance returns one student's records plus the aggregate. A
// STUDENT may only query their own record.
func (h *AttendanceHandlers) GetStudentAttendance(c *gin.Context) {
	studentID, ok := h.ParseUUIDParam(c, "studentId", "student")
	if !ok {
		return
	}

	var q StudentAttendanceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	if identity, ok := middleware.GetIdentity(c); ok && identity.Role == models.RoleStudent {
		ownID, err := h.service.StudentIDForUser(c.Request.Context(), identity.UserID)
		if err != nil || ownID != studentID {
			h.RespondError(c, models.Forbidden("Insufficient permissions"))
			return
		}
	}

	result, err := h.service.GetStudentAttendance(c.Request.Context(), studentID, StudentAttendanceInput{
		ClassID:   optionalUUID(q.ClassID),
		SubjectID: optionalUUID(q.SubjectID),
		StartDate: optionalDate(q.StartDate),
		EndDate:   optionalDate(q.EndDate),
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, studentAttendanceResponse{
		Success:    true,
		Data:       result.Records,
		Statistics: result.Statistics,
	})
}

func (h *AttendanceHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "attendance")
	if !ok {
		return
	}

	var req UpdateAttendanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input := UpdateAttendanceInput{Remarks: req.Remarks}
	if req.Status != nil {
		status := models.AttendanceStatus(*req.Status)
		input.Status = &status
	}

	attendance, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, attendance)
}

func (h *AttendanceHandlers) GetReports(c *gin.Context) {
	var q StudentAttendanceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.GetReports(c.Request.Context(), StudentAttendanceInput{
		ClassID:   optionalUUID(q.ClassID),
		SubjectID: optionalUUID(q.SubjectID),
		StartDate: optionalDate(q.StartDate),
		EndDate:   optionalDate(q.EndDate),
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reportsResponse{
		Success: true,
		Data:    result.Reports,
		Summary: result.Summary,
	})
}

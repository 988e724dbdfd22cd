package student

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/handlers"
	"github.com/Patilgrv/student-management-api/internal/app/middleware"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type CreateStudentRequest struct {
	UserID      string  `json:"userId" binding:"required,uuid"`
	FirstName   string  `json:"firstName" binding:"required,min=1"`
	LastName    string  `json:"lastName" binding:"required,min=1"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

type UpdateStudentRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,min=1"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

type ListStudentsQuery struct {
	handlers.PageQuery
	Search string `form:"search"`
}

type StudentHandlers struct {
	*handlers.BaseHandler
	service StudentService
}

func NewStudentHandlers(base *handlers.BaseHandler, service StudentService) *StudentHandlers {
	return &StudentHandlers{BaseHandler: base, service: service}
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *StudentHandlers) Create(c *gin.Context) {
	var req CreateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The uuid binding tag already validated the format.
	userID, _ := uuid.Parse(req.UserID)

	student, err := h.service.Create(c.Request.Context(), CreateStudentInput{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: parseDate(req.DateOfBirth),
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusCreated, student)
}

// GetByID allows a STUDENT only to read their own profile.
func (h *StudentHandlers) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "student")
	if !ok {
		return
	}

	student, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	if identity, ok := middleware.GetIdentity(c); ok && !models.CanAccessOwned(identity, student.UserID) {
		h.RespondError(c, models.Forbidden("Insufficient permissions"))
		return
	}

	h.RespondData(c, http.StatusOK, student)
}

func (h *StudentHandlers) List(c *gin.Context) {
	var q ListStudentsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Normalize()

	students, pagination, err := h.service.List(c.Request.Context(), ListStudentsInput{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondList(c, students, pagination)
}

func (h *StudentHandlers) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "student")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	student, err := h.service.Update(c.Request.Context(), id, UpdateStudentInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: parseDate(req.DateOfBirth),
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondData(c, http.StatusOK, student)
}

func (h *StudentHandlers) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", "student")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondError(c, err)
		return
	}

	h.RespondMessage(c, http.StatusOK, "Student deleted successfully")
}

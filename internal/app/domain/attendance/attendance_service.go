package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ AttendanceService = (*AttendanceServiceImpl)(nil)

type CreateAttendanceInput struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
	Date      time.Time
	Status    models.AttendanceStatus
	Remarks   *string
}

type UpdateAttendanceInput struct {
	Status  *models.AttendanceStatus
	Remarks *string
}

type ListAttendanceInput struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type StudentAttendanceInput struct {
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// StudentAttendanceResult pairs the raw records with their aggregate.
type StudentAttendanceResult struct {
	Records    []models.Attendance
	Statistics models.AttendanceStatistics
}

// ReportsResult groups attendance per student over the filtered window.
type ReportsResult struct {
	Reports []models.StudentAttendanceReport
	Summary models.AttendanceReportSummary
}

type AttendanceService interface {
	Create(ctx context.Context, markerUserID uuid.UUID, input CreateAttendanceInput) (*models.Attendance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)
	List(ctx context.Context, input ListAttendanceInput) ([]models.Attendance, *models.Pagination, error)
	GetStudentAttendance(ctx context.Context, studentID uuid.UUID, input StudentAttendanceInput) (*StudentAttendanceResult, error)
	StudentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAttendanceInput) (*models.Attendance, error)
	GetReports(ctx context.Context, input StudentAttendanceInput) (*ReportsResult, error)
}

type AttendanceServiceImpl struct {
	logger *zap.Logger
	repo   AttendanceRepo
}

func NewAttendanceService(repo AttendanceRepo, logger *zap.Logger) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{logger: logger, repo: repo}
}

// Create marks attendance on behalf of the authenticated teacher: the
// teacher id is resolved from markerUserID, never taken from the request.
// All referenced records must exist and the (student, class, subject, date)
// slot must be unmarked.
func (s *AttendanceServiceImpl) Create(ctx context.Context, markerUserID uuid.UUID, input CreateAttendanceInput) (*models.Attendance, error) {
	l := s.logger.With(zap.String("method", "Create"),
		zap.String("studentID", input.StudentID.String()),
		zap.String("date", input.Date.Format("2006-01-02")))
	l.Debug("Marking attendance")

	teacherID, err := s.repo.TeacherIDForUser(ctx, markerUserID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.StudentExists(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("Student not found")
	}

	exists, err = s.repo.ClassExists(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("Class not found")
	}

	exists, err = s.repo.SubjectExists(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("Subject not found")
	}

	marked, err := s.repo.AttendanceExists(ctx, input.StudentID, input.ClassID, input.SubjectID, input.Date)
	if err != nil {
		return nil, err
	}
	if marked {
		return nil, models.Conflict("Attendance already marked for this date")
	}

	attendance, err := s.repo.Create(ctx, CreateAttendanceParams{
		StudentID: input.StudentID,
		TeacherID: teacherID,
		ClassID:   input.ClassID,
		SubjectID: input.SubjectID,
		Date:      input.Date,
		Status:    input.Status,
		Remarks:   input.Remarks,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Attendance marked", zap.String("attendanceID", attendance.ID.String()))
	return attendance, nil
}

func (s *AttendanceServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AttendanceServiceImpl) List(ctx context.Context, input ListAttendanceInput) ([]models.Attendance, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, ListAttendanceFilter{
		StudentID: input.StudentID,
		ClassID:   input.ClassID,
		SubjectID: input.SubjectID,
		Date:      input.Date,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return records, models.NewPagination(input.Page, input.Limit, total), nil
}

func (s *AttendanceServiceImpl) GetStudentAttendance(ctx context.Context, studentID uuid.UUID, input StudentAttendanceInput) (*StudentAttendanceResult, error) {
	records, err := s.repo.ListForStudent(ctx, studentID, StudentAttendanceFilter{
		ClassID:   input.ClassID,
		SubjectID: input.SubjectID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, err
	}
	return &StudentAttendanceResult{
		Records:    records,
		Statistics: ComputeStatistics(records),
	}, nil
}

func (s *AttendanceServiceImpl) StudentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.repo.StudentIDForUser(ctx, userID)
}

func (s *AttendanceServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateAttendanceInput) (*models.Attendance, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("attendanceID", id.String()))
	l.Debug("Updating attendance")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	attendance, err := s.repo.Update(ctx, id, UpdateAttendanceParams{
		Status:  input.Status,
		Remarks: input.Remarks,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Attendance updated")
	return attendance, nil
}

func (s *AttendanceServiceImpl) GetReports(ctx context.Context, input StudentAttendanceInput) (*ReportsResult, error) {
	records, err := s.repo.ListForReport(ctx, StudentAttendanceFilter{
		ClassID:   input.ClassID,
		SubjectID: input.SubjectID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	reports, summary := BuildReports(records)
	return &ReportsResult{Reports: reports, Summary: summary}, nil
}

// ComputeStatistics aggregates per-status counts. LATE and EXCUSED count as
// attended; an empty set yields a zero rate, not NaN.
func ComputeStatistics(records []models.Attendance) models.AttendanceStatistics {
	stats := models.AttendanceStatistics{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			stats.Present++
		case models.StatusAbsent:
			stats.Absent++
		case models.StatusLate:
			stats.Late++
		case models.StatusExcused:
			stats.Excused++
		}
	}
	if stats.Total > 0 {
		stats.AttendanceRate = float64(stats.Present+stats.Late+stats.Excused) / float64(stats.Total) * 100
	}
	return stats
}

// BuildReports groups records per student and averages the per-student
// rates. The summary average weighs each student equally, not each record.
func BuildReports(records []models.Attendance) ([]models.StudentAttendanceReport, models.AttendanceReportSummary) {
	grouped := make(map[uuid.UUID]*models.StudentAttendanceReport)
	order := make([]uuid.UUID, 0)

	for i := range records {
		r := &records[i]
		report, ok := grouped[r.StudentID]
		if !ok {
			report = &models.StudentAttendanceReport{Student: r.Student}
			grouped[r.StudentID] = report
			order = append(order, r.StudentID)
		}
		report.Total++
		switch r.Status {
		case models.StatusPresent:
			report.Present++
		case models.StatusAbsent:
			report.Absent++
		case models.StatusLate:
			report.Late++
		case models.StatusExcused:
			report.Excused++
		}
	}

	reports := make([]models.StudentAttendanceReport, 0, len(order))
	var rateSum float64
	for _, id := range order {
		report := grouped[id]
		if report.Total > 0 {
			report.AttendanceRate = float64(report.Present+report.Late+report.Excused) / float64(report.Total) * 100
		}
		rateSum += report.AttendanceRate
		reports = append(reports, *report)
	}

	summary := models.AttendanceReportSummary{TotalStudents: len(reports)}
	if len(reports) > 0 {
		summary.AverageAttendanceRate = rateSum / float64(len(reports))
	}
	return reports, summary
}

package enrollment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ EnrollmentService = (*EnrollmentServiceImpl)(nil)

type CreateEnrollmentInput struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
}

type ListEnrollmentsInput struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	Page      int
	Limit     int
}

type EnrollmentService interface {
	Create(ctx context.Context, input CreateEnrollmentInput) (*models.Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	List(ctx context.Context, input ListEnrollmentsInput) ([]models.Enrollment, *models.Pagination, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EnrollmentServiceImpl struct {
	logger *zap.Logger
	repo   EnrollmentRepo
}

func NewEnrollmentService(repo EnrollmentRepo, logger *zap.Logger) *EnrollmentServiceImpl {
	return &EnrollmentServiceImpl{logger: logger, repo: repo}
}

// Create verifies all three referenced records exist, then rejects a
// duplicate (student, class, subject) triple.
func (s *EnrollmentServiceImpl) Create(ctx context.Context, input CreateEnrollmentInput) (*models.Enrollment, error) {
	l := s.logger.With(zap.String("method", "Create"),
		zap.String("studentID", input.StudentID.String()),
		zap.String("classID", input.ClassID.String()),
		zap.String("subjectID", input.SubjectID.String()))
	l.Debug("Creating enrollment")

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

	enrolled, err := s.repo.EnrollmentExists(ctx, input.StudentID, input.ClassID, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, models.Conflict("Student is already enrolled in this class and subject")
	}

	enrollment, err := s.repo.Create(ctx, input.StudentID, input.ClassID, input.SubjectID)
	if err != nil {
		return nil, err
	}

	l.Info("Enrollment created", zap.String("enrollmentID", enrollment.ID.String()))
	return enrollment, nil
}

func (s *EnrollmentServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EnrollmentServiceImpl) List(ctx context.Context, input ListEnrollmentsInput) ([]models.Enrollment, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, ListEnrollmentsFilter{
		StudentID: input.StudentID,
		ClassID:   input.ClassID,
		SubjectID: input.SubjectID,
	}, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return enrollments, models.NewPagination(input.Page, input.Limit, total), nil
}

func (s *EnrollmentServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("enrollmentID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("Enrollment deleted")
	return nil
}

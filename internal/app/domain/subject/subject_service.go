package subject

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ SubjectService = (*SubjectServiceImpl)(nil)

type CreateSubjectInput struct {
	Name        string
	Code        string
	Description *string
}

type UpdateSubjectInput struct {
	Name        *string
	Code        *string
	Description *string
}

type ListSubjectsInput struct {
	Search string
	Page   int
	Limit  int
}

type SubjectService interface {
	Create(ctx context.Context, input CreateSubjectInput) (*models.Subject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	List(ctx context.Context, input ListSubjectsInput) ([]models.Subject, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSubjectInput) (*models.Subject, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) (*models.SubjectAssignment, error)
	UnassignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) error
}

type SubjectServiceImpl struct {
	logger *zap.Logger
	repo   SubjectRepo
}

func NewSubjectService(repo SubjectRepo, logger *zap.Logger) *SubjectServiceImpl {
	return &SubjectServiceImpl{logger: logger, repo: repo}
}

// Create rejects a duplicate code. The subjects.code constraint backs the
// pre-check.
func (s *SubjectServiceImpl) Create(ctx context.Context, input CreateSubjectInput) (*models.Subject, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("code", input.Code))
	l.Debug("Creating subject")

	taken, err := s.repo.CodeTaken(ctx, input.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.Conflict("Subject with this code already exists")
	}

	subject, err := s.repo.Create(ctx, CreateSubjectParams{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Subject created", zap.String("subjectID", subject.ID.String()))
	return subject, nil
}

func (s *SubjectServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SubjectServiceImpl) List(ctx context.Context, input ListSubjectsInput) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, input.Search, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return subjects, models.NewPagination(input.Page, input.Limit, total), nil
}

func (s *SubjectServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateSubjectInput) (*models.Subject, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("subjectID", id.String()))
	l.Debug("Updating subject")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != existing.Code {
		taken, err := s.repo.CodeTaken(ctx, *input.Code, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.Conflict("Subject with this code already exists")
		}
	}

	subject, err := s.repo.Update(ctx, id, UpdateSubjectParams{
		Name:        input.Name,
		Code:        input.Code,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Subject updated")
	return subject, nil
}

func (s *SubjectServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("subjectID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("Subject deleted")
	return nil
}

// AssignTeacher links a teacher to a subject. Both sides must exist and the
// pair must not already be linked.
func (s *SubjectServiceImpl) AssignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) (*models.SubjectAssignment, error) {
	l := s.logger.With(zap.String("method", "AssignTeacher"),
		zap.String("subjectID", subjectID.String()), zap.String("teacherID", teacherID.String()))
	l.Debug("Assigning teacher to subject")

	if _, err := s.repo.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	exists, err := s.repo.TeacherExists(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NotFound("Teacher not found")
	}

	assigned, err := s.repo.AssignmentExists(ctx, teacherID, subjectID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, models.Conflict("Teacher is already assigned to this subject")
	}

	assignment, err := s.repo.CreateAssignment(ctx, teacherID, subjectID)
	if err != nil {
		return nil, err
	}

	l.Info("Teacher assigned to subject")
	return assignment, nil
}

func (s *SubjectServiceImpl) UnassignTeacher(ctx context.Context, subjectID, teacherID uuid.UUID) error {
	l := s.logger.With(zap.String("method", "UnassignTeacher"),
		zap.String("subjectID", subjectID.String()), zap.String("teacherID", teacherID.String()))

	if err := s.repo.DeleteAssignment(ctx, teacherID, subjectID); err != nil {
		return err
	}

	l.Info("Teacher unassigned from subject")
	return nil
}

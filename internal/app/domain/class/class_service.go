package class

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ ClassService = (*ClassServiceImpl)(nil)

type CreateClassInput struct {
	Name         string
	Grade        int
	Section      *string
	AcademicYear string
}

type UpdateClassInput struct {
	Name         *string
	Grade        *int
	Section      *string
	AcademicYear *string
}

type ListClassesInput struct {
	Grade        *int
	AcademicYear string
	Page         int
	Limit        int
}

type ClassService interface {
	Create(ctx context.Context, input CreateClassInput) (*models.Class, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error)
	List(ctx context.Context, input ListClassesInput) ([]models.Class, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClassInput) (*models.Class, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ClassServiceImpl struct {
	logger *zap.Logger
	repo   ClassRepo
}

func NewClassService(repo ClassRepo, logger *zap.Logger) *ClassServiceImpl {
	return &ClassServiceImpl{logger: logger, repo: repo}
}

// Create rejects a duplicate (name, grade, section, academicYear) tuple. The
// unique index backs the pre-check.
func (s *ClassServiceImpl) Create(ctx context.Context, input CreateClassInput) (*models.Class, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("name", input.Name))
	l.Debug("Creating class")

	dup, err := s.repo.DuplicateExists(ctx, input.Name, input.Grade, input.Section, input.AcademicYear, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, models.Conflict("Class with these details already exists")
	}

	class, err := s.repo.Create(ctx, CreateClassParams{
		Name:         input.Name,
		Grade:        input.Grade,
		Section:      input.Section,
		AcademicYear: input.AcademicYear,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Class created", zap.String("classID", class.ID.String()))
	return class, nil
}

func (s *ClassServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClassServiceImpl) List(ctx context.Context, input ListClassesInput) ([]models.Class, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, ListClassesFilter{
		Grade:        input.Grade,
		AcademicYear: input.AcademicYear,
	}, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return classes, models.NewPagination(input.Page, input.Limit, total), nil
}

// Update re-checks the composite key against the merged record, excluding
// the class's own row.
func (s *ClassServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateClassInput) (*models.Class, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("classID", id.String()))
	l.Debug("Updating class")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.Grade != nil || input.Section != nil || input.AcademicYear != nil {
		name := existing.Name
		if input.Name != nil {
			name = *input.Name
		}
		grade := existing.Grade
		if input.Grade != nil {
			grade = *input.Grade
		}
		section := existing.Section
		if input.Section != nil {
			section = input.Section
		}
		academicYear := existing.AcademicYear
		if input.AcademicYear != nil {
			academicYear = *input.AcademicYear
		}

		dup, err := s.repo.DuplicateExists(ctx, name, grade, section, academicYear, id)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, models.Conflict("Class with these details already exists")
		}
	}

	class, err := s.repo.Update(ctx, id, UpdateClassParams{
		Name:         input.Name,
		Grade:        input.Grade,
		Section:      input.Section,
		AcademicYear: input.AcademicYear,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Class updated")
	return class, nil
}

func (s *ClassServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("classID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("Class deleted")
	return nil
}

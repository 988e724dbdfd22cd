package teacher

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ TeacherService = (*TeacherServiceImpl)(nil)

type CreateTeacherInput struct {
	UserID     uuid.UUID
	FirstName  string
	LastName   string
	Phone      *string
	Department *string
}

type UpdateTeacherInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Department *string
}

type ListTeachersInput struct {
	Search string
	Page   int
	Limit  int
}

type TeacherService interface {
	Create(ctx context.Context, input CreateTeacherInput) (*models.Teacher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error)
	List(ctx context.Context, input ListTeachersInput) ([]models.Teacher, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTeacherInput) (*models.Teacher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeacherServiceImpl struct {
	logger *zap.Logger
	repo   TeacherRepo
}

func NewTeacherService(repo TeacherRepo, logger *zap.Logger) *TeacherServiceImpl {
	return &TeacherServiceImpl{logger: logger, repo: repo}
}

// Create requires an existing user holding the TEACHER role with no profile
// yet. The teachers.user_id constraint backs the pre-check.
func (s *TeacherServiceImpl) Create(ctx context.Context, input CreateTeacherInput) (*models.Teacher, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("userID", input.UserID.String()))
	l.Debug("Creating teacher profile")

	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTeacher {
		return nil, models.BadRequest("User must have TEACHER role")
	}

	exists, err := s.repo.ExistsForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.Conflict("Teacher profile already exists for this user")
	}

	teacher, err := s.repo.Create(ctx, CreateTeacherParams{
		UserID:     input.UserID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Department: input.Department,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Teacher profile created", zap.String("teacherID", teacher.ID.String()))
	return teacher, nil
}

func (s *TeacherServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TeacherServiceImpl) List(ctx context.Context, input ListTeachersInput) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, input.Search, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return teachers, models.NewPagination(input.Page, input.Limit, total), nil
}

func (s *TeacherServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateTeacherInput) (*models.Teacher, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("teacherID", id.String()))
	l.Debug("Updating teacher profile")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Update(ctx, id, UpdateTeacherParams{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Department: input.Department,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Teacher profile updated")
	return teacher, nil
}

func (s *TeacherServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("teacherID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("Teacher profile deleted")
	return nil
}

package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ StudentService = (*StudentServiceImpl)(nil)

type CreateStudentInput struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Phone       *string
	Address     *string
}

type UpdateStudentInput struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Phone       *string
	Address     *string
}

type ListStudentsInput struct {
	Search string
	Page   int
	Limit  int
}

type StudentService interface {
	Create(ctx context.Context, input CreateStudentInput) (*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	List(ctx context.Context, input ListStudentsInput) ([]models.Student, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStudentInput) (*models.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StudentServiceImpl struct {
	logger *zap.Logger
	repo   StudentRepo
}

func NewStudentService(repo StudentRepo, logger *zap.Logger) *StudentServiceImpl {
	return &StudentServiceImpl{logger: logger, repo: repo}
}

// Create requires an existing user holding the STUDENT role with no profile
// yet. The students.user_id constraint backs the pre-check.
func (s *StudentServiceImpl) Create(ctx context.Context, input CreateStudentInput) (*models.Student, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("userID", input.UserID.String()))
	l.Debug("Creating student profile")

	user, err := s.repo.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, models.BadRequest("User must have STUDENT role")
	}

	exists, err := s.repo.ExistsForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.Conflict("Student profile already exists for this user")
	}

	student, err := s.repo.Create(ctx, CreateStudentParams{
		UserID:      input.UserID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		Phone:       input.Phone,
		Address:     input.Address,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Student profile created", zap.String("studentID", student.ID.String()))
	return student, nil
}

func (s *StudentServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *StudentServiceImpl) List(ctx context.Context, input ListStudentsInput) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, input.Search, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return students, models.NewPagination(input.Page, input.Limit, total), nil
}

func (s *StudentServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateStudentInput) (*models.Student, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("studentID", id.String()))
	l.Debug("Updating student profile")

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	student, err := s.repo.Update(ctx, id, UpdateStudentParams{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DateOfBirth: input.DateOfBirth,
		Phone:       input.Phone,
		Address:     input.Address,
	})
	if err != nil {
		return nil, err
	}

	l.Info("Student profile updated")
	return student, nil
}

func (s *StudentServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("studentID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("Student profile deleted")
	return nil
}

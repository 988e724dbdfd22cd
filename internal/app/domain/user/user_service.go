package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ UserService = (*UserServiceImpl)(nil)

// CreateUserInput is the validated create payload.
type CreateUserInput struct {
	Email    string
	Password string
	Role     models.Role
}

// UpdateUserInput carries only fields present in the request.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Role     *models.Role
}

// ListUsersInput filters and paginates the user list.
type ListUsersInput struct {
	Role  *models.Role
	Page  int
	Limit int
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, input ListUsersInput) ([]models.User, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserServiceImpl struct {
	logger *zap.Logger
	repo   UserRepo
}

func NewUserService(repo UserRepo, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{logger: logger, repo: repo}
}

// Create checks email uniqueness as a fast path, hashes the password and
// persists. The users.email constraint is the real guard against races.
func (s *UserServiceImpl) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("email", input.Email))
	l.Debug("Creating user")

	taken, err := s.repo.EmailTaken(ctx, input.Email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if taken {
		return nil, models.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("could not process password: %w", err)
	}

	user, err := s.repo.Create(ctx, input.Email, string(hash), input.Role)
	if err != nil {
		return nil, err
	}

	l.Info("User created", zap.String("userID", user.ID.String()))
	return user, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context, input ListUsersInput) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, input.Role, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, nil, err
	}
	return users, models.NewPagination(input.Page, input.Limit, total), nil
}

// Update applies only the fields present in the request. An email change
// re-checks uniqueness excluding the record's own id.
func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("userID", id.String()))
	l.Debug("Updating user")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	params := UpdateUserParams{Role: input.Role}

	if input.Email != nil && *input.Email != existing.Email {
		taken, err := s.repo.EmailTaken(ctx, *input.Email, id)
		if err != nil {
			return nil, fmt.Errorf("error checking email uniqueness: %w", err)
		}
		if taken {
			return nil, models.Conflict("User with this email already exists")
		}
		params.Email = input.Email
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			l.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("could not process password: %w", err)
		}
		hashStr := string(hash)
		params.PasswordHash = &hashStr
	}

	user, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	l.Info("User updated")
	return user, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.String("userID", id.String()))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	l.Info("User deleted")
	return nil
}

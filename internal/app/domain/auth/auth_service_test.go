package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, email, hashedPassword, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(repo AuthRepo) *AuthServiceImpl {
	return NewAuthService(repo, NewTokenService("test-secret", time.Hour), zap.NewNop())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	user := &models.User{
		ID:       uuid.New(),
		Email:    "teacher@school.test",
		Password: hashOf(t, "correct-horse"),
		Role:     models.RoleTeacher,
	}
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	result, err := svc.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, models.RoleTeacher, result.User.Role)

	decoded, err := svc.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, decoded.UserID)
	repo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	user := &models.User{
		ID:       uuid.New(),
		Email:    "teacher@school.test",
		Password: hashOf(t, "correct-horse"),
		Role:     models.RoleTeacher,
	}
	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), user.Email, "wrong-horse")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	repo.On("GetUserByEmail", mock.Anything, "ghost@school.test").
		Return(nil, models.NotFound("user with email not found"))

	_, err := svc.Login(context.Background(), "ghost@school.test", "whatever")
	// Same failure as a wrong password; existence is not revealed.
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestRegisterDefaultsToStudentRole(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	created := &models.User{ID: uuid.New(), Email: "new@school.test", Role: models.RoleStudent}
	repo.On("CreateUser", mock.Anything, "new@school.test", mock.AnythingOfType("string"), models.RoleStudent).
		Return(created, nil)

	result, err := svc.Register(context.Background(), "new@school.test", "secret-123", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, result.User.Role)
	repo.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := newTestService(repo)

	repo.On("CreateUser", mock.Anything, "dupe@school.test", mock.AnythingOfType("string"), models.RoleAdmin).
		Return(nil, models.Conflict("User with this email already exists"))

	_, err := svc.Register(context.Background(), "dupe@school.test", "secret-123", models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrConflict)
}

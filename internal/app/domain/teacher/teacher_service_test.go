package teacher

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

type MockTeacherRepo struct {
	mock.Mock
}

func (m *MockTeacherRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRef), args.Error(1)
}

func (m *MockTeacherRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeacherRepo) Create(ctx context.Context, params CreateTeacherParams) (*models.Teacher, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepo) List(ctx context.Context, search string, limit, offset int) ([]models.Teacher, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Teacher), args.Int(1), args.Error(2)
}

func (m *MockTeacherRepo) Update(ctx context.Context, id uuid.UUID, params UpdateTeacherParams) (*models.Teacher, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *MockTeacherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateRejectsWrongRole(t *testing.T) {
	repo := new(MockTeacherRepo)
	svc := NewTeacherService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).
		Return(&models.UserRef{ID: userID, Email: "s@school.test", Role: models.RoleStudent}, nil)

	_, err := svc.Create(context.Background(), CreateTeacherInput{UserID: userID, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	var statusErr *models.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "User must have TEACHER role", statusErr.Message)
}

func TestCreateRejectsExistingProfile(t *testing.T) {
	repo := new(MockTeacherRepo)
	svc := NewTeacherService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).
		Return(&models.UserRef{ID: userID, Email: "t@school.test", Role: models.RoleTeacher}, nil)
	repo.On("ExistsForUser", mock.Anything, userID).Return(true, nil)

	_, err := svc.Create(context.Background(), CreateTeacherInput{UserID: userID, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Create")
}

func TestUpdateHonorsExplicitEmptyDepartment(t *testing.T) {
	repo := new(MockTeacherRepo)
	svc := NewTeacherService(repo, zap.NewNop())

	id := uuid.New()
	existing := &models.Teacher{ID: id, FirstName: "Grace", LastName: "Hopper"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p UpdateTeacherParams) bool {
		return p.Department != nil && *p.Department == "" && p.FirstName == nil
	})).Return(existing, nil)

	empty := ""
	_, err := svc.Update(context.Background(), id, UpdateTeacherInput{Department: &empty})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

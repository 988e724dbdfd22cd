package student

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

type MockStudentRepo struct {
	mock.Mock
}

func (m *MockStudentRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRef), args.Error(1)
}

func (m *MockStudentRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepo) Create(ctx context.Context, params CreateStudentParams) (*models.Student, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepo) List(ctx context.Context, search string, limit, offset int) ([]models.Student, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Student), args.Int(1), args.Error(2)
}

func (m *MockStudentRepo) Update(ctx context.Context, id uuid.UUID, params UpdateStudentParams) (*models.Student, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateRejectsMissingUser(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).Return(nil, models.NotFound("User not found"))

	_, err := svc.Create(context.Background(), CreateStudentInput{UserID: userID, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateRejectsWrongRole(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).
		Return(&models.UserRef{ID: userID, Email: "t@school.test", Role: models.RoleTeacher}, nil)

	_, err := svc.Create(context.Background(), CreateStudentInput{UserID: userID, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	var statusErr *models.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "User must have STUDENT role", statusErr.Message)
}

func TestCreateRejectsExistingProfile(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).
		Return(&models.UserRef{ID: userID, Email: "s@school.test", Role: models.RoleStudent}, nil)
	repo.On("ExistsForUser", mock.Anything, userID).Return(true, nil)

	_, err := svc.Create(context.Background(), CreateStudentInput{UserID: userID, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateSuccess(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	userID := uuid.New()
	created := &models.Student{ID: uuid.New(), UserID: userID, FirstName: "Ada", LastName: "Lovelace"}
	repo.On("GetUserByID", mock.Anything, userID).
		Return(&models.UserRef{ID: userID, Email: "ada@school.test", Role: models.RoleStudent}, nil)
	repo.On("ExistsForUser", mock.Anything, userID).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p CreateStudentParams) bool {
		return p.UserID == userID && p.FirstName == "Ada"
	})).Return(created, nil)

	student, err := svc.Create(context.Background(), CreateStudentInput{
		UserID: userID, FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, student.ID)
	repo.AssertExpectations(t)
}

func TestUpdateLeavesOmittedFieldsUntouched(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	id := uuid.New()
	existing := &models.Student{ID: id, FirstName: "Ada", LastName: "Lovelace"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p UpdateStudentParams) bool {
		return p.FirstName != nil && *p.FirstName == "Augusta" &&
			p.LastName == nil && p.Phone == nil && p.Address == nil
	})).Return(existing, nil)

	first := "Augusta"
	_, err := svc.Update(context.Background(), id, UpdateStudentInput{FirstName: &first})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateHonorsExplicitEmptyPhone(t *testing.T) {
	repo := new(MockStudentRepo)
	svc := NewStudentService(repo, zap.NewNop())

	id := uuid.New()
	existing := &models.Student{ID: id, FirstName: "Ada", LastName: "Lovelace"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p UpdateStudentParams) bool {
		return p.Phone != nil && *p.Phone == ""
	})).Return(existing, nil)

	empty := ""
	_, err := svc.Update(context.Background(), id, UpdateStudentInput{Phone: &empty})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

package enrollment

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

type MockEnrollmentRepo struct {
	mock.Mock
}

func (m *MockEnrollmentRepo) StudentExists(ctx context.Context, studentID uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepo) ClassExists(ctx context.Context, classID uuid.UUID) (bool, error) {
	args := m.Called(ctx, classID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepo) SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subjectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepo) EnrollmentExists(ctx context.Context, studentID, classID, subjectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID, classID, subjectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepo) Create(ctx context.Context, studentID, classID, subjectID uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, studentID, classID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) List(ctx context.Context, filter ListEnrollmentsFilter, limit, offset int) ([]models.Enrollment, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Enrollment), args.Int(1), args.Error(2)
}

func (m *MockEnrollmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateMissingStudent(t *testing.T) {
	repo := new(MockEnrollmentRepo)
	svc := NewEnrollmentService(repo, zap.NewNop())

	input := CreateEnrollmentInput{StudentID: uuid.New(), ClassID: uuid.New(), SubjectID: uuid.New()}
	repo.On("StudentExists", mock.Anything, input.StudentID).Return(false, nil)

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var statusErr *models.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Student not found", statusErr.Message)
	repo.AssertNotCalled(t, "ClassExists")
}

func TestCreateMissingClass(t *testing.T) {
	repo := new(MockEnrollmentRepo)
	svc := NewEnrollmentService(repo, zap.NewNop())

	input := CreateEnrollmentInput{StudentID: uuid.New(), ClassID: uuid.New(), SubjectID: uuid.New()}
	repo.On("StudentExists", mock.Anything, input.StudentID).Return(true, nil)
	repo.On("ClassExists", mock.Anything, input.ClassID).Return(false, nil)

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var statusErr *models.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Class not found", statusErr.Message)
}

func TestCreateDuplicateEnrollment(t *testing.T) {
	repo := new(MockEnrollmentRepo)
	svc := NewEnrollmentService(repo, zap.NewNop())

	input := CreateEnrollmentInput{StudentID: uuid.New(), ClassID: uuid.New(), SubjectID: uuid.New()}
	repo.On("StudentExists", mock.Anything, input.StudentID).Return(true, nil)
	repo.On("ClassExists", mock.Anything, input.ClassID).Return(true, nil)
	repo.On("SubjectExists", mock.Anything, input.SubjectID).Return(true, nil)
	repo.On("EnrollmentExists", mock.Anything, input.StudentID, input.ClassID, input.SubjectID).Return(true, nil)

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateSuccess(t *testing.T) {
	repo := new(MockEnrollmentRepo)
	svc := NewEnrollmentService(repo, zap.NewNop())

	input := CreateEnrollmentInput{StudentID: uuid.New(), ClassID: uuid.New(), SubjectID: uuid.New()}
	created := &models.Enrollment{ID: uuid.New(), StudentID: input.StudentID, ClassID: input.ClassID, SubjectID: input.SubjectID}
	repo.On("StudentExists", mock.Anything, input.StudentID).Return(true, nil)
	repo.On("ClassExists", mock.Anything, input.ClassID).Return(true, nil)
	repo.On("SubjectExists", mock.Anything, input.SubjectID).Return(true, nil)
	repo.On("EnrollmentExists", mock.Anything, input.StudentID, input.ClassID, input.SubjectID).Return(false, nil)
	repo.On("Create", mock.Anything, input.StudentID, input.ClassID, input.SubjectID).Return(created, nil)

	enrollment, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, created.ID, enrollment.ID)
	repo.AssertExpectations(t)
}

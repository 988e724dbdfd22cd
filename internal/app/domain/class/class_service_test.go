package class

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

type MockClassRepo struct {
	mock.Mock
}

func (m *MockClassRepo) DuplicateExists(ctx context.Context, name string, grade int, section *string, academicYear string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, grade, section, academicYear, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepo) Create(ctx context.Context, params CreateClassParams) (*models.Class, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassRepo) List(ctx context.Context, filter ListClassesFilter, limit, offset int) ([]models.Class, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Class), args.Int(1), args.Error(2)
}

func (m *MockClassRepo) Update(ctx context.Context, id uuid.UUID, params UpdateClassParams) (*models.Class, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateDuplicateClass(t *testing.T) {
	repo := new(MockClassRepo)
	svc := NewClassService(repo, zap.NewNop())

	repo.On("DuplicateExists", mock.Anything, "Math 101", 10, (*string)(nil), "2025-2026", uuid.Nil).
		Return(true, nil)

	_, err := svc.Create(context.Background(), CreateClassInput{
		Name: "Math 101", Grade: 10, AcademicYear: "2025-2026",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateSuccess(t *testing.T) {
	repo := new(MockClassRepo)
	svc := NewClassService(repo, zap.NewNop())

	created := &models.Class{ID: uuid.New(), Name: "Math 101", Grade: 10, AcademicYear: "2025-2026"}
	repo.On("DuplicateExists", mock.Anything, "Math 101", 10, (*string)(nil), "2025-2026", uuid.Nil).
		Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(created, nil)

	class, err := svc.Create(context.Background(), CreateClassInput{
		Name: "Math 101", Grade: 10, AcademicYear: "2025-2026",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, class.ID)
}

// Updating only the section still checks the merged composite key against
// the rest of the existing record.
func TestUpdateChecksMergedCompositeKey(t *testing.T) {
	repo := new(MockClassRepo)
	svc := NewClassService(repo, zap.NewNop())

	id := uuid.New()
	existing := &models.Class{ID: id, Name: "Math 101", Grade: 10, AcademicYear: "2025-2026"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)

	section := "B"
	repo.On("DuplicateExists", mock.Anything, "Math 101", 10, &section, "2025-2026", id).
		Return(true, nil)

	_, err := svc.Update(context.Background(), id, UpdateClassInput{Section: &section})
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdateNoCompositeFieldsSkipsCheck(t *testing.T) {
	repo := new(MockClassRepo)
	svc := NewClassService(repo, zap.NewNop())

	id := uuid.New()
	existing := &models.Class{ID: id, Name: "Math 101", Grade: 10, AcademicYear: "2025-2026"}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, id, UpdateClassParams{}).Return(existing, nil)

	_, err := svc.Update(context.Background(), id, UpdateClassInput{})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "DuplicateExists")
}

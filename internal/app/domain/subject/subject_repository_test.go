package subject

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresSubjectRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresSubjectRepo(mock, zap.NewNop())
}

func TestRepoCreateSubject(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO subjects`).
		WithArgs("Mathematics", "MATH101", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "description", "created_at", "updated_at"}).
			AddRow(id, "Mathematics", "MATH101", (*string)(nil), now, now))

	subject, err := repo.Create(context.Background(), CreateSubjectParams{
		Name: "Mathematics", Code: "MATH101",
	})
	require.NoError(t, err)
	assert.Equal(t, id, subject.ID)
	assert.Equal(t, "MATH101", subject.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoCreateSubjectDuplicateCode(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO subjects`).
		WithArgs("Mathematics", "MATH101", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "subjects_code_key"})

	_, err := repo.Create(context.Background(), CreateSubjectParams{
		Name: "Mathematics", Code: "MATH101",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoCodeTaken(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("MATH101", uuid.Nil).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.CodeTaken(context.Background(), "MATH101", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM subjects s WHERE s\.id`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code", "description", "created_at", "updated_at", "count"}))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoDeleteAssignmentNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	teacherID, subjectID := uuid.New(), uuid.New()
	mock.ExpectExec(`DELETE FROM subject_assignments`).
		WithArgs(teacherID, subjectID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteAssignment(context.Background(), teacherID, subjectID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package attendance

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

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAttendanceRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresAttendanceRepo(mock, zap.NewNop())
}

var attendanceRowColumns = []string{
	"id", "student_id", "teacher_id", "class_id", "subject_id", "date", "status", "remarks", "created_at", "updated_at",
	"st_id", "st_user_id", "st_first_name", "st_last_name", "st_date_of_birth", "st_phone", "st_address", "st_created_at", "st_updated_at",
	"su_id", "su_email",
	"t_id", "t_user_id", "t_first_name", "t_last_name", "t_phone", "t_department", "t_created_at", "t_updated_at",
	"tu_id", "tu_email",
	"c_id", "c_name", "c_grade", "c_section", "c_academic_year", "c_created_at", "c_updated_at",
	"sub_id", "sub_name", "sub_code", "sub_description", "sub_created_at", "sub_updated_at",
}

func TestRepoTeacherIDForUser(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID, teacherID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT id FROM teachers WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(teacherID))

	id, err := repo.TeacherIDForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, teacherID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoTeacherIDForUserNoProfile(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id FROM teachers WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.TeacherIDForUser(context.Background(), userID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Contains(t, err.Error(), "Teacher profile not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoStudentIDForUserNoProfile(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id FROM students WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.StudentIDForUser(context.Background(), userID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoGetByIDScansRelations(t *testing.T) {
	mock, repo := newMockRepo(t)

	now := time.Now()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	studentID, teacherID, classID, subjectID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	studentUserID, teacherUserID := uuid.New(), uuid.New()
	remarks := "Arrived late"

	mock.ExpectQuery(`SELECT .+ FROM attendance a`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns).AddRow(
			id, studentID, teacherID, classID, subjectID, date, models.StatusLate, &remarks, now, now,
			studentID, studentUserID, "Alice", "Smith", (*time.Time)(nil), (*string)(nil), (*string)(nil), now, now,
			studentUserID, "alice@school.test",
			teacherID, teacherUserID, "Bob", "Jones", (*string)(nil), (*string)(nil), now, now,
			teacherUserID, "bob@school.test",
			classID, "Grade 5A", 5, (*string)(nil), "2024-2025", now, now,
			subjectID, "Mathematics", "MATH101", (*string)(nil), now, now,
		))

	record, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLate, record.Status)
	require.NotNil(t, record.Remarks)
	assert.Equal(t, "Arrived late", *record.Remarks)
	require.NotNil(t, record.Student)
	assert.Equal(t, "Alice", record.Student.FirstName)
	require.NotNil(t, record.Student.User)
	assert.Equal(t, "alice@school.test", record.Student.User.Email)
	require.NotNil(t, record.Teacher)
	assert.Equal(t, "bob@school.test", record.Teacher.User.Email)
	require.NotNil(t, record.Class)
	assert.Equal(t, 5, record.Class.Grade)
	require.NotNil(t, record.Subject)
	assert.Equal(t, "MATH101", record.Subject.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM attendance a`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(attendanceRowColumns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoCreateDuplicateSlot(t *testing.T) {
	mock, repo := newMockRepo(t)

	params := CreateAttendanceParams{
		StudentID: uuid.New(),
		TeacherID: uuid.New(),
		ClassID:   uuid.New(),
		SubjectID: uuid.New(),
		Date:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:    models.StatusPresent,
	}
	mock.ExpectQuery(`INSERT INTO attendance`).
		WithArgs(params.StudentID, params.TeacherID, params.ClassID, params.SubjectID,
			params.Date, params.Status, (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "attendance_student_id_class_id_subject_id_date_key"})

	_, err := repo.Create(context.Background(), params)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoUpdateNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	status := models.StatusExcused
	mock.ExpectQuery(`UPDATE attendance SET`).
		WithArgs(status, id).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.Update(context.Background(), id, UpdateAttendanceParams{Status: &status})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoAttendanceExists(t *testing.T) {
	mock, repo := newMockRepo(t)

	studentID, classID, subjectID := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM attendance`).
		WithArgs(studentID, classID, subjectID, date).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	marked, err := repo.AttendanceExists(context.Background(), studentID, classID, subjectID, date)
	require.NoError(t, err)
	assert.True(t, marked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

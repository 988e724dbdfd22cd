package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
	"github.com/Patilgrv/student-management-api/internal/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ AttendanceRepo = (*PostgresAttendanceRepo)(nil)

type CreateAttendanceParams struct {
	StudentID uuid.UUID
	TeacherID uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
	Date      time.Time
	Status    models.AttendanceStatus
	Remarks   *string
}

// UpdateAttendanceParams carries only status and remarks; nothing else on a
// marked record may change.
type UpdateAttendanceParams struct {
	Status  *models.AttendanceStatus
	Remarks *string
}

type ListAttendanceFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
}

// StudentAttendanceFilter scopes a single student's records.
type StudentAttendanceFilter struct {
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

type AttendanceRepo interface {
	TeacherIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	StudentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	StudentExists(ctx context.Context, studentID uuid.UUID) (bool, error)
	TeacherExists(ctx context.Context, teacherID uuid.UUID) (bool, error)
	ClassExists(ctx context.Context, classID uuid.UUID) (bool, error)
	SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error)
	AttendanceExists(ctx context.Context, studentID, classID, subjectID uuid.UUID, date time.Time) (bool, error)
	Create(ctx context.Context, params CreateAttendanceParams) (*models.Attendance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)
	List(ctx context.Context, filter ListAttendanceFilter, limit, offset int) ([]models.Attendance, int, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID, filter StudentAttendanceFilter) ([]models.Attendance, error)
	ListForReport(ctx context.Context, filter StudentAttendanceFilter) ([]models.Attendance, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateAttendanceParams) (*models.Attendance, error)
}

type PostgresAttendanceRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresAttendanceRepo(pgpool db.Querier, logger *zap.Logger) *PostgresAttendanceRepo {
	return &PostgresAttendanceRepo{logger: logger, pgpool: pgpool}
}

const attendanceColumns = `a.id, a.student_id, a.teacher_id, a.class_id, a.subject_id, a.date, a.status, a.remarks, a.created_at, a.updated_at,
	st.id, st.user_id, st.first_name, st.last_name, st.date_of_birth, st.phone, st.address, st.created_at, st.updated_at,
	su.id, su.email,
	t.id, t.user_id, t.first_name, t.last_name, t.phone, t.department, t.created_at, t.updated_at,
	tu.id, tu.email,
	c.id, c.name, c.grade, c.section, c.academic_year, c.created_at, c.updated_at,
	sub.id, sub.name, sub.code, sub.description, sub.created_at, sub.updated_at`

const attendanceFrom = ` FROM attendance a
	JOIN students st ON st.id = a.student_id
	JOIN users su ON su.id = st.user_id
	JOIN teachers t ON t.id = a.teacher_id
	JOIN users tu ON tu.id = t.user_id
	JOIN classes c ON c.id = a.class_id
	JOIN subjects sub ON sub.id = a.subject_id`

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var a models.Attendance
	var st models.Student
	var su models.UserRef
	var t models.Teacher
	var tu models.UserRef
	var cl models.Class
	var sub models.Subject
	err := row.Scan(&a.ID, &a.StudentID, &a.TeacherID, &a.ClassID, &a.SubjectID,
		&a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt,
		&st.ID, &st.UserID, &st.FirstName, &st.LastName, &st.DateOfBirth, &st.Phone, &st.Address, &st.CreatedAt, &st.UpdatedAt,
		&su.ID, &su.Email,
		&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Department, &t.CreatedAt, &t.UpdatedAt,
		&tu.ID, &tu.Email,
		&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear, &cl.CreatedAt, &cl.UpdatedAt,
		&sub.ID, &sub.Name, &sub.Code, &sub.Description, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st.User = &su
	t.User = &tu
	a.Student = &st
	a.Teacher = &t
	a.Class = &cl
	a.Subject = &sub
	return &a, nil
}

func (r *PostgresAttendanceRepo) TeacherIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, `SELECT id FROM teachers WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, models.Forbidden("Teacher profile not found")
		}
		r.logger.Error("Error resolving teacher profile", zap.String("userID", userID.String()), zap.Error(err))
		return uuid.Nil, fmt.Errorf("database error resolving teacher profile: %w", err)
	}
	return id, nil
}

func (r *PostgresAttendanceRepo) StudentIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, `SELECT id FROM students WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, models.Forbidden("Insufficient permissions")
		}
		r.logger.Error("Error resolving student profile", zap.String("userID", userID.String()), zap.Error(err))
		return uuid.Nil, fmt.Errorf("database error resolving student profile: %w", err)
	}
	return id, nil
}

func (r *PostgresAttendanceRepo) StudentExists(ctx context.Context, studentID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, studentID)
}

func (r *PostgresAttendanceRepo) TeacherExists(ctx context.Context, teacherID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)`, teacherID)
}

func (r *PostgresAttendanceRepo) ClassExists(ctx context.Context, classID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, classID)
}

func (r *PostgresAttendanceRepo) SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM subjects WHERE id = $1)`, subjectID)
}

func (r *PostgresAttendanceRepo) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("Error checking record existence", zap.String("id", id.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking record: %w", err)
	}
	return exists, nil
}

func (r *PostgresAttendanceRepo) AttendanceExists(ctx context.Context, studentID, classID, subjectID uuid.UUID, date time.Time) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attendance WHERE student_id = $1 AND class_id = $2 AND subject_id = $3 AND date = $4)`,
		studentID, classID, subjectID, date).Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking attendance", zap.String("studentID", studentID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking attendance: %w", err)
	}
	return exists, nil
}

func (r *PostgresAttendanceRepo) Create(ctx context.Context, params CreateAttendanceParams) (*models.Attendance, error) {
	query := `INSERT INTO attendance (student_id, teacher_id, class_id, subject_id, date, status, remarks)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, params.StudentID, params.TeacherID, params.ClassID,
		params.SubjectID, params.Date, params.Status, params.Remarks).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Attendance already marked for this date")
		}
		r.logger.Error("Error inserting attendance", zap.String("studentID", params.StudentID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error creating attendance: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresAttendanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + attendanceFrom + ` WHERE a.id = $1`
	attendance, err := scanAttendance(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Attendance record not found")
		}
		r.logger.Error("Error fetching attendance", zap.String("attendanceID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching attendance: %w", err)
	}
	return attendance, nil
}

func attendanceJoins(qb sq.SelectBuilder) sq.SelectBuilder {
	return qb.
		Join("students st ON st.id = a.student_id").
		Join("users su ON su.id = st.user_id").
		Join("teachers t ON t.id = a.teacher_id").
		Join("users tu ON tu.id = t.user_id").
		Join("classes c ON c.id = a.class_id").
		Join("subjects sub ON sub.id = a.subject_id")
}

// applyDateRange narrows on a single date when set, otherwise on the
// optional start/end bounds.
func applyDateRange(qb sq.SelectBuilder, date, start, end *time.Time) sq.SelectBuilder {
	if date != nil {
		return qb.Where(sq.Eq{"a.date": *date})
	}
	if start != nil {
		qb = qb.Where(sq.GtOrEq{"a.date": *start})
	}
	if end != nil {
		qb = qb.Where(sq.LtOrEq{"a.date": *end})
	}
	return qb
}

func (r *PostgresAttendanceRepo) List(ctx context.Context, filter ListAttendanceFilter, limit, offset int) ([]models.Attendance, int, error) {
	countQB := psql.Select("COUNT(*)").From("attendance a")
	listQB := attendanceJoins(psql.Select(attendanceColumns).From("attendance a")).
		OrderBy("a.date DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if filter.StudentID != nil {
		countQB = countQB.Where(sq.Eq{"a.student_id": *filter.StudentID})
		listQB = listQB.Where(sq.Eq{"a.student_id": *filter.StudentID})
	}
	if filter.ClassID != nil {
		countQB = countQB.Where(sq.Eq{"a.class_id": *filter.ClassID})
		listQB = listQB.Where(sq.Eq{"a.class_id": *filter.ClassID})
	}
	if filter.SubjectID != nil {
		countQB = countQB.Where(sq.Eq{"a.subject_id": *filter.SubjectID})
		listQB = listQB.Where(sq.Eq{"a.subject_id": *filter.SubjectID})
	}
	countQB = applyDateRange(countQB, filter.Date, filter.StartDate, filter.EndDate)
	listQB = applyDateRange(listQB, filter.Date, filter.StartDate, filter.EndDate)

	var total int
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Error counting attendance", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting attendance: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	records, err := r.queryAttendance(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *PostgresAttendanceRepo) ListForStudent(ctx context.Context, studentID uuid.UUID, filter StudentAttendanceFilter) ([]models.Attendance, error) {
	qb := attendanceJoins(psql.Select(attendanceColumns).From("attendance a")).
		Where(sq.Eq{"a.student_id": studentID}).
		OrderBy("a.date DESC")

	if filter.ClassID != nil {
		qb = qb.Where(sq.Eq{"a.class_id": *filter.ClassID})
	}
	if filter.SubjectID != nil {
		qb = qb.Where(sq.Eq{"a.subject_id": *filter.SubjectID})
	}
	qb = applyDateRange(qb, nil, filter.StartDate, filter.EndDate)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building student attendance query: %w", err)
	}
	return r.queryAttendance(ctx, query, args...)
}

func (r *PostgresAttendanceRepo) ListForReport(ctx context.Context, filter StudentAttendanceFilter) ([]models.Attendance, error) {
	qb := attendanceJoins(psql.Select(attendanceColumns).From("attendance a")).
		OrderBy("a.date DESC")

	if filter.ClassID != nil {
		qb = qb.Where(sq.Eq{"a.class_id": *filter.ClassID})
	}
	if filter.SubjectID != nil {
		qb = qb.Where(sq.Eq{"a.subject_id": *filter.SubjectID})
	}
	qb = applyDateRange(qb, nil, filter.StartDate, filter.EndDate)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building report query: %w", err)
	}
	return r.queryAttendance(ctx, query, args...)
}

func (r *PostgresAttendanceRepo) queryAttendance(ctx context.Context, query string, args ...any) ([]models.Attendance, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying attendance", zap.Error(err))
		return nil, fmt.Errorf("database error querying attendance: %w", err)
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		var st models.Student
		var su models.UserRef
		var t models.Teacher
		var tu models.UserRef
		var cl models.Class
		var sub models.Subject
		if err := rows.Scan(&a.ID, &a.StudentID, &a.TeacherID, &a.ClassID, &a.SubjectID,
			&a.Date, &a.Status, &a.Remarks, &a.CreatedAt, &a.UpdatedAt,
			&st.ID, &st.UserID, &st.FirstName, &st.LastName, &st.DateOfBirth, &st.Phone, &st.Address, &st.CreatedAt, &st.UpdatedAt,
			&su.ID, &su.Email,
			&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Department, &t.CreatedAt, &t.UpdatedAt,
			&tu.ID, &tu.Email,
			&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear, &cl.CreatedAt, &cl.UpdatedAt,
			&sub.ID, &sub.Name, &sub.Code, &sub.Description, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning attendance: %w", err)
		}
		st.User = &su
		t.User = &tu
		a.Student = &st
		a.Teacher = &t
		a.Class = &cl
		a.Subject = &sub
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading attendance: %w", err)
	}
	return records, nil
}

func (r *PostgresAttendanceRepo) Update(ctx context.Context, id uuid.UUID, params UpdateAttendanceParams) (*models.Attendance, error) {
	qb := psql.Update("attendance").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")

	if params.Status != nil {
		qb = qb.Set("status", *params.Status)
	}
	if params.Remarks != nil {
		qb = qb.Set("remarks", *params.Remarks)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Attendance record not found")
		}
		r.logger.Error("Error updating attendance", zap.String("attendanceID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating attendance: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

package enrollment

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
	"github.com/Patilgrv/student-management-api/internal/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ EnrollmentRepo = (*PostgresEnrollmentRepo)(nil)

type ListEnrollmentsFilter struct {
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
}

type EnrollmentRepo interface {
	StudentExists(ctx context.Context, studentID uuid.UUID) (bool, error)
	ClassExists(ctx context.Context, classID uuid.UUID) (bool, error)
	SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error)
	EnrollmentExists(ctx context.Context, studentID, classID, subjectID uuid.UUID) (bool, error)
	Create(ctx context.Context, studentID, classID, subjectID uuid.UUID) (*models.Enrollment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	List(ctx context.Context, filter ListEnrollmentsFilter, limit, offset int) ([]models.Enrollment, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresEnrollmentRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresEnrollmentRepo(pgpool db.Querier, logger *zap.Logger) *PostgresEnrollmentRepo {
	return &PostgresEnrollmentRepo{logger: logger, pgpool: pgpool}
}

// enrollmentColumns joins the three related records plus the student's user.
const enrollmentColumns = `e.id, e.student_id, e.class_id, e.subject_id, e.enrolled_at,
	st.id, st.user_id, st.first_name, st.last_name, st.date_of_birth, st.phone, st.address, st.created_at, st.updated_at,
	u.id, u.email,
	c.id, c.name, c.grade, c.section, c.academic_year, c.created_at, c.updated_at,
	sub.id, sub.name, sub.code, sub.description, sub.created_at, sub.updated_at`

const enrollmentFrom = ` FROM student_enrollments e
	JOIN students st ON st.id = e.student_id
	JOIN users u ON u.id = st.user_id
	JOIN classes c ON c.id = e.class_id
	JOIN subjects sub ON sub.id = e.subject_id`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var en models.Enrollment
	var st models.Student
	var u models.UserRef
	var cl models.Class
	var sub models.Subject
	err := row.Scan(&en.ID, &en.StudentID, &en.ClassID, &en.SubjectID, &en.EnrolledAt,
		&st.ID, &st.UserID, &st.FirstName, &st.LastName, &st.DateOfBirth, &st.Phone, &st.Address, &st.CreatedAt, &st.UpdatedAt,
		&u.ID, &u.Email,
		&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear, &cl.CreatedAt, &cl.UpdatedAt,
		&sub.ID, &sub.Name, &sub.Code, &sub.Description, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st.User = &u
	en.Student = &st
	en.Class = &cl
	en.Subject = &sub
	return &en, nil
}

func (r *PostgresEnrollmentRepo) StudentExists(ctx context.Context, studentID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, studentID)
}

func (r *PostgresEnrollmentRepo) ClassExists(ctx context.Context, classID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, classID)
}

func (r *PostgresEnrollmentRepo) SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM subjects WHERE id = $1)`, subjectID)
}

func (r *PostgresEnrollmentRepo) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("Error checking record existence", zap.String("id", id.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking record: %w", err)
	}
	return exists, nil
}

func (r *PostgresEnrollmentRepo) EnrollmentExists(ctx context.Context, studentID, classID, subjectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM student_enrollments WHERE student_id = $1 AND class_id = $2 AND subject_id = $3)`,
		studentID, classID, subjectID).Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking enrollment", zap.String("studentID", studentID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking enrollment: %w", err)
	}
	return exists, nil
}

func (r *PostgresEnrollmentRepo) Create(ctx context.Context, studentID, classID, subjectID uuid.UUID) (*models.Enrollment, error) {
	query := `INSERT INTO student_enrollments (student_id, class_id, subject_id)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, studentID, classID, subjectID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Student is already enrolled in this class and subject")
		}
		r.logger.Error("Error inserting enrollment", zap.String("studentID", studentID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error creating enrollment: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresEnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + enrollmentFrom + ` WHERE e.id = $1`
	enrollment, err := scanEnrollment(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Enrollment not found")
		}
		r.logger.Error("Error fetching enrollment", zap.String("enrollmentID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching enrollment: %w", err)
	}
	return enrollment, nil
}

func (r *PostgresEnrollmentRepo) List(ctx context.Context, filter ListEnrollmentsFilter, limit, offset int) ([]models.Enrollment, int, error) {
	countQB := psql.Select("COUNT(*)").From("student_enrollments e")
	listQB := psql.Select(enrollmentColumns).
		From("student_enrollments e").
		Join("students st ON st.id = e.student_id").
		Join("users u ON u.id = st.user_id").
		Join("classes c ON c.id = e.class_id").
		Join("subjects sub ON sub.id = e.subject_id").
		OrderBy("e.enrolled_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if filter.StudentID != nil {
		countQB = countQB.Where(sq.Eq{"e.student_id": *filter.StudentID})
		listQB = listQB.Where(sq.Eq{"e.student_id": *filter.StudentID})
	}
	if filter.ClassID != nil {
		countQB = countQB.Where(sq.Eq{"e.class_id": *filter.ClassID})
		listQB = listQB.Where(sq.Eq{"e.class_id": *filter.ClassID})
	}
	if filter.SubjectID != nil {
		countQB = countQB.Where(sq.Eq{"e.subject_id": *filter.SubjectID})
		listQB = listQB.Where(sq.Eq{"e.subject_id": *filter.SubjectID})
	}

	var total int
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Error counting enrollments", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting enrollments: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing enrollments", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.Enrollment, 0, limit)
	for rows.Next() {
		var en models.Enrollment
		var st models.Student
		var u models.UserRef
		var cl models.Class
		var sub models.Subject
		if err := rows.Scan(&en.ID, &en.StudentID, &en.ClassID, &en.SubjectID, &en.EnrolledAt,
			&st.ID, &st.UserID, &st.FirstName, &st.LastName, &st.DateOfBirth, &st.Phone, &st.Address, &st.CreatedAt, &st.UpdatedAt,
			&u.ID, &u.Email,
			&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear, &cl.CreatedAt, &cl.UpdatedAt,
			&sub.ID, &sub.Name, &sub.Code, &sub.Description, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("database error scanning enrollment: %w", err)
		}
		st.User = &u
		en.Student = &st
		en.Class = &cl
		en.Subject = &sub
		enrollments = append(enrollments, en)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading enrollments: %w", err)
	}

	return enrollments, total, nil
}

func (r *PostgresEnrollmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM student_enrollments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting enrollment", zap.String("enrollmentID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Enrollment not found")
	}
	return nil
}

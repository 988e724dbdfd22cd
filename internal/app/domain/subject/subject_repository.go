package subject

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

var _ SubjectRepo = (*PostgresSubjectRepo)(nil)

type CreateSubjectParams struct {
	Name        string
	Code        string
	Description *string
}

// UpdateSubjectParams carries only the fields present in the request.
// Description accepts an explicit empty string; nil means untouched.
type UpdateSubjectParams struct {
	Name        *string
	Code        *string
	Description *string
}

type SubjectRepo interface {
	CodeTaken(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateSubjectParams) (*models.Subject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Subject, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateSubjectParams) (*models.Subject, error)
	Delete(ctx context.Context, id uuid.UUID) error

	TeacherExists(ctx context.Context, teacherID uuid.UUID) (bool, error)
	AssignmentExists(ctx context.Context, teacherID, subjectID uuid.UUID) (bool, error)
	CreateAssignment(ctx context.Context, teacherID, subjectID uuid.UUID) (*models.SubjectAssignment, error)
	DeleteAssignment(ctx context.Context, teacherID, subjectID uuid.UUID) error
}

type PostgresSubjectRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresSubjectRepo(pgpool db.Querier, logger *zap.Logger) *PostgresSubjectRepo {
	return &PostgresSubjectRepo{logger: logger, pgpool: pgpool}
}

const subjectColumns = `s.id, s.name, s.code, s.description, s.created_at, s.updated_at`

func (r *PostgresSubjectRepo) CodeTaken(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subjects WHERE code = $1 AND id <> $2)`, code, excludeID).
		Scan(&taken)
	if err != nil {
		r.logger.Error("Error checking subject code", zap.String("code", code), zap.Error(err))
		return false, fmt.Errorf("database error checking subject code: %w", err)
	}
	return taken, nil
}

func (r *PostgresSubjectRepo) Create(ctx context.Context, params CreateSubjectParams) (*models.Subject, error) {
	query := `INSERT INTO subjects (name, code, description)
	          VALUES ($1, $2, $3)
	          RETURNING id, name, code, description, created_at, updated_at`
	var s models.Subject
	err := r.pgpool.QueryRow(ctx, query, params.Name, params.Code, params.Description).
		Scan(&s.ID, &s.Name, &s.Code, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Subject with this code already exists")
		}
		r.logger.Error("Error inserting subject", zap.String("code", params.Code), zap.Error(err))
		return nil, fmt.Errorf("database error creating subject: %w", err)
	}
	return &s, nil
}

// GetByID expands teacher assignments and the live enrollment count.
func (r *PostgresSubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	query := `SELECT ` + subjectColumns + `,
	            (SELECT COUNT(*) FROM student_enrollments e WHERE e.subject_id = s.id)
	          FROM subjects s WHERE s.id = $1`
	var s models.Subject
	var enrollments int
	err := r.pgpool.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.Code, &s.Description, &s.CreatedAt, &s.UpdatedAt, &enrollments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Subject not found")
		}
		r.logger.Error("Error fetching subject", zap.String("subjectID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching subject: %w", err)
	}
	s.EnrollmentCount = &enrollments

	assignments, err := r.assignmentsForSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Assignments = assignments

	return &s, nil
}

func (r *PostgresSubjectRepo) assignmentsForSubject(ctx context.Context, subjectID uuid.UUID) ([]models.SubjectAssignment, error) {
	query := `SELECT a.id, a.teacher_id, a.subject_id, a.assigned_at,
	                 t.id, t.user_id, t.first_name, t.last_name, t.phone, t.department, t.created_at, t.updated_at,
	                 u.id, u.email
	          FROM subject_assignments a
	          JOIN teachers t ON t.id = a.teacher_id
	          JOIN users u ON u.id = t.user_id
	          WHERE a.subject_id = $1
	          ORDER BY a.assigned_at`
	rows, err := r.pgpool.Query(ctx, query, subjectID)
	if err != nil {
		r.logger.Error("Error fetching subject assignments", zap.String("subjectID", subjectID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.SubjectAssignment{}
	for rows.Next() {
		var a models.SubjectAssignment
		var t models.Teacher
		var u models.UserRef
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.SubjectID, &a.AssignedAt,
			&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Department, &t.CreatedAt, &t.UpdatedAt,
			&u.ID, &u.Email); err != nil {
			return nil, fmt.Errorf("database error scanning assignment: %w", err)
		}
		t.User = &u
		a.Teacher = &t
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading assignments: %w", err)
	}
	return assignments, nil
}

func (r *PostgresSubjectRepo) List(ctx context.Context, search string, limit, offset int) ([]models.Subject, int, error) {
	countQB := psql.Select("COUNT(*)").From("subjects s")
	listQB := psql.Select(subjectColumns,
		"(SELECT COUNT(*) FROM subject_assignments a WHERE a.subject_id = s.id) AS assignment_count",
		"(SELECT COUNT(*) FROM student_enrollments e WHERE e.subject_id = s.id) AS enrollment_count").
		From("subjects s").
		OrderBy("s.name ASC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if search != "" {
		pattern := "%" + search + "%"
		filter := sq.Or{
			sq.ILike{"s.name": pattern},
			sq.ILike{"s.code": pattern},
		}
		countQB = countQB.Where(filter)
		listQB = listQB.Where(filter)
	}

	var total int
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Error counting subjects", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting subjects: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing subjects", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]models.Subject, 0, limit)
	for rows.Next() {
		var s models.Subject
		var assignments, enrollments int
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Description, &s.CreatedAt, &s.UpdatedAt,
			&assignments, &enrollments); err != nil {
			return nil, 0, fmt.Errorf("database error scanning subject: %w", err)
		}
		s.AssignmentCount = &assignments
		s.EnrollmentCount = &enrollments
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading subjects: %w", err)
	}

	return subjects, total, nil
}

func (r *PostgresSubjectRepo) Update(ctx context.Context, id uuid.UUID, params UpdateSubjectParams) (*models.Subject, error) {
	qb := psql.Update("subjects").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")

	if params.Name != nil {
		qb = qb.Set("name", *params.Name)
	}
	if params.Code != nil {
		qb = qb.Set("code", *params.Code)
	}
	if params.Description != nil {
		qb = qb.Set("description", *params.Description)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Subject not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Subject with this code already exists")
		}
		r.logger.Error("Error updating subject", zap.String("subjectID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating subject: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *PostgresSubjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting subject", zap.String("subjectID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Subject not found")
	}
	return nil
}

func (r *PostgresSubjectRepo) TeacherExists(ctx context.Context, teacherID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)`, teacherID).
		Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking teacher", zap.String("teacherID", teacherID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking teacher: %w", err)
	}
	return exists, nil
}

func (r *PostgresSubjectRepo) AssignmentExists(ctx context.Context, teacherID, subjectID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subject_assignments WHERE teacher_id = $1 AND subject_id = $2)`,
		teacherID, subjectID).Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking assignment", zap.String("teacherID", teacherID.String()),
			zap.String("subjectID", subjectID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking assignment: %w", err)
	}
	return exists, nil
}

func (r *PostgresSubjectRepo) CreateAssignment(ctx context.Context, teacherID, subjectID uuid.UUID) (*models.SubjectAssignment, error) {
	query := `INSERT INTO subject_assignments (teacher_id, subject_id)
	          VALUES ($1, $2)
	          RETURNING id, teacher_id, subject_id, assigned_at`
	var a models.SubjectAssignment
	err := r.pgpool.QueryRow(ctx, query, teacherID, subjectID).
		Scan(&a.ID, &a.TeacherID, &a.SubjectID, &a.AssignedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Teacher is already assigned to this subject")
		}
		r.logger.Error("Error creating assignment", zap.String("teacherID", teacherID.String()),
			zap.String("subjectID", subjectID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error creating assignment: %w", err)
	}

	teacherQuery := `SELECT t.id, t.user_id, t.first_name, t.last_name, t.phone, t.department, t.created_at, t.updated_at,
	                        u.id, u.email
	                 FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.id = $1`
	var t models.Teacher
	var u models.UserRef
	if err := r.pgpool.QueryRow(ctx, teacherQuery, teacherID).
		Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone, &t.Department,
			&t.CreatedAt, &t.UpdatedAt, &u.ID, &u.Email); err == nil {
		t.User = &u
		a.Teacher = &t
	}

	subjectQuery := `SELECT id, name, code, description, created_at, updated_at FROM subjects WHERE id = $1`
	var s models.Subject
	if err := r.pgpool.QueryRow(ctx, subjectQuery, subjectID).
		Scan(&s.ID, &s.Name, &s.Code, &s.Description, &s.CreatedAt, &s.UpdatedAt); err == nil {
		a.Subject = &s
	}

	return &a, nil
}

func (r *PostgresSubjectRepo) DeleteAssignment(ctx context.Context, teacherID, subjectID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM subject_assignments WHERE teacher_id = $1 AND subject_id = $2`, teacherID, subjectID)
	if err != nil {
		r.logger.Error("Error deleting assignment", zap.String("teacherID", teacherID.String()),
			zap.String("subjectID", subjectID.String()), zap.Error(err))
		return fmt.Errorf("database error deleting assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Assignment not found")
	}
	return nil
}

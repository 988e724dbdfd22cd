package class

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

var _ ClassRepo = (*PostgresClassRepo)(nil)

type CreateClassParams struct {
	Name         string
	Grade        int
	Section      *string
	AcademicYear string
}

// UpdateClassParams carries only the fields present in the request. Section
// accepts an explicit empty string, stored as NULL for uniqueness.
type UpdateClassParams struct {
	Name         *string
	Grade        *int
	Section      *string
	AcademicYear *string
}

type ListClassesFilter struct {
	Grade        *int
	AcademicYear string
}

type ClassRepo interface {
	DuplicateExists(ctx context.Context, name string, grade int, section *string, academicYear string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateClassParams) (*models.Class, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error)
	List(ctx context.Context, filter ListClassesFilter, limit, offset int) ([]models.Class, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateClassParams) (*models.Class, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresClassRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresClassRepo(pgpool db.Querier, logger *zap.Logger) *PostgresClassRepo {
	return &PostgresClassRepo{logger: logger, pgpool: pgpool}
}

const classColumns = `c.id, c.name, c.grade, c.section, c.academic_year, c.created_at, c.updated_at`

// classWithCount includes the live enrollment count the clients render.
const classWithCount = classColumns + `, (SELECT COUNT(*) FROM student_enrollments e WHERE e.class_id = c.id) AS enrollment_count`

func scanClass(row pgx.Row) (*models.Class, error) {
	var cl models.Class
	var count int
	err := row.Scan(&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear,
		&cl.CreatedAt, &cl.UpdatedAt, &count)
	if err != nil {
		return nil, err
	}
	cl.EnrollmentCount = &count
	return &cl, nil
}

// DuplicateExists checks the composite (name, grade, section, academic_year)
// key. NULL and empty section compare equal, matching the unique index.
func (r *PostgresClassRepo) DuplicateExists(ctx context.Context, name string, grade int, section *string, academicYear string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM classes
	            WHERE name = $1 AND grade = $2
	              AND COALESCE(section, '') = COALESCE($3, '')
	              AND academic_year = $4
	              AND id <> $5)`
	var exists bool
	err := r.pgpool.QueryRow(ctx, query, name, grade, section, academicYear, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking class uniqueness", zap.String("name", name), zap.Error(err))
		return false, fmt.Errorf("database error checking class uniqueness: %w", err)
	}
	return exists, nil
}

func (r *PostgresClassRepo) Create(ctx context.Context, params CreateClassParams) (*models.Class, error) {
	query := `INSERT INTO classes (name, grade, section, academic_year)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, params.Name, params.Grade, params.Section, params.AcademicYear).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Class with these details already exists")
		}
		r.logger.Error("Error inserting class", zap.String("name", params.Name), zap.Error(err))
		return nil, fmt.Errorf("database error creating class: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresClassRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error) {
	query := `SELECT ` + classWithCount + ` FROM classes c WHERE c.id = $1`
	class, err := scanClass(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Class not found")
		}
		r.logger.Error("Error fetching class", zap.String("classID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching class: %w", err)
	}
	return class, nil
}

func (r *PostgresClassRepo) List(ctx context.Context, filter ListClassesFilter, limit, offset int) ([]models.Class, int, error) {
	countQB := psql.Select("COUNT(*)").From("classes c")
	listQB := psql.Select(classWithCount).From("classes c").
		OrderBy("c.grade ASC", "c.name ASC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if filter.Grade != nil {
		countQB = countQB.Where(sq.Eq{"c.grade": *filter.Grade})
		listQB = listQB.Where(sq.Eq{"c.grade": *filter.Grade})
	}
	if filter.AcademicYear != "" {
		countQB = countQB.Where(sq.Eq{"c.academic_year": filter.AcademicYear})
		listQB = listQB.Where(sq.Eq{"c.academic_year": filter.AcademicYear})
	}

	var total int
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Error counting classes", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting classes: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing classes", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing classes: %w", err)
	}
	defer rows.Close()

	classes := make([]models.Class, 0, limit)
	for rows.Next() {
		var cl models.Class
		var count int
		if err := rows.Scan(&cl.ID, &cl.Name, &cl.Grade, &cl.Section, &cl.AcademicYear,
			&cl.CreatedAt, &cl.UpdatedAt, &count); err != nil {
			return nil, 0, fmt.Errorf("database error scanning class: %w", err)
		}
		cl.EnrollmentCount = &count
		classes = append(classes, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading classes: %w", err)
	}

	return classes, total, nil
}

func (r *PostgresClassRepo) Update(ctx context.Context, id uuid.UUID, params UpdateClassParams) (*models.Class, error) {
	qb := psql.Update("classes").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")

	if params.Name != nil {
		qb = qb.Set("name", *params.Name)
	}
	if params.Grade != nil {
		qb = qb.Set("grade", *params.Grade)
	}
	if params.Section != nil {
		qb = qb.Set("section", *params.Section)
	}
	if params.AcademicYear != nil {
		qb = qb.Set("academic_year", *params.AcademicYear)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Class not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Class with these details already exists")
		}
		r.logger.Error("Error updating class", zap.String("classID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating class: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *PostgresClassRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting class", zap.String("classID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Class not found")
	}
	return nil
}

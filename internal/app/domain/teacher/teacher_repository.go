package teacher

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

var _ TeacherRepo = (*PostgresTeacherRepo)(nil)

type CreateTeacherParams struct {
	UserID     uuid.UUID
	FirstName  string
	LastName   string
	Phone      *string
	Department *string
}

// UpdateTeacherParams carries only the fields present in the request. Phone
// and department accept explicit empty strings; nil means untouched.
type UpdateTeacherParams struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Department *string
}

type TeacherRepo interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateTeacherParams) (*models.Teacher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Teacher, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateTeacherParams) (*models.Teacher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresTeacherRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresTeacherRepo(pgpool db.Querier, logger *zap.Logger) *PostgresTeacherRepo {
	return &PostgresTeacherRepo{logger: logger, pgpool: pgpool}
}

const teacherColumns = `t.id, t.user_id, t.first_name, t.last_name, t.phone, t.department, t.created_at, t.updated_at, u.id, u.email, u.role`

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	var u models.UserRef
	err := row.Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone,
		&t.Department, &t.CreatedAt, &t.UpdatedAt, &u.ID, &u.Email, &u.Role)
	if err != nil {
		return nil, err
	}
	t.User = &u
	return &t, nil
}

func (r *PostgresTeacherRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error) {
	var u models.UserRef
	err := r.pgpool.QueryRow(ctx, `SELECT id, email, role FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("User not found")
		}
		r.logger.Error("Error fetching user", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &u, nil
}

func (r *PostgresTeacherRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teachers WHERE user_id = $1)`, userID).
		Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking teacher profile", zap.String("userID", userID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking teacher profile: %w", err)
	}
	return exists, nil
}

func (r *PostgresTeacherRepo) Create(ctx context.Context, params CreateTeacherParams) (*models.Teacher, error) {
	query := `INSERT INTO teachers (user_id, first_name, last_name, phone, department)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, params.UserID, params.FirstName, params.LastName,
		params.Phone, params.Department).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Teacher profile already exists for this user")
		}
		r.logger.Error("Error inserting teacher", zap.String("userID", params.UserID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error creating teacher: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresTeacherRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers t JOIN users u ON u.id = t.user_id WHERE t.id = $1`
	teacher, err := scanTeacher(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Teacher not found")
		}
		r.logger.Error("Error fetching teacher", zap.String("teacherID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching teacher: %w", err)
	}
	return teacher, nil
}

func (r *PostgresTeacherRepo) List(ctx context.Context, search string, limit, offset int) ([]models.Teacher, int, error) {
	countQB := psql.Select("COUNT(*)").From("teachers t").Join("users u ON u.id = t.user_id")
	listQB := psql.Select(teacherColumns).From("teachers t").Join("users u ON u.id = t.user_id").
		OrderBy("t.created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if search != "" {
		pattern := "%" + search + "%"
		filter := sq.Or{
			sq.ILike{"t.first_name": pattern},
			sq.ILike{"t.last_name": pattern},
			sq.ILike{"u.email": pattern},
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
		r.logger.Error("Error counting teachers", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting teachers: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing teachers", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]models.Teacher, 0, limit)
	for rows.Next() {
		var t models.Teacher
		var u models.UserRef
		if err := rows.Scan(&t.ID, &t.UserID, &t.FirstName, &t.LastName, &t.Phone,
			&t.Department, &t.CreatedAt, &t.UpdatedAt, &u.ID, &u.Email, &u.Role); err != nil {
			return nil, 0, fmt.Errorf("database error scanning teacher: %w", err)
		}
		t.User = &u
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading teachers: %w", err)
	}

	return teachers, total, nil
}

func (r *PostgresTeacherRepo) Update(ctx context.Context, id uuid.UUID, params UpdateTeacherParams) (*models.Teacher, error) {
	qb := psql.Update("teachers").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")

	if params.FirstName != nil {
		qb = qb.Set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		qb = qb.Set("last_name", *params.LastName)
	}
	if params.Phone != nil {
		qb = qb.Set("phone", *params.Phone)
	}
	if params.Department != nil {
		qb = qb.Set("department", *params.Department)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Teacher not found")
		}
		r.logger.Error("Error updating teacher", zap.String("teacherID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating teacher: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *PostgresTeacherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting teacher", zap.String("teacherID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Teacher not found")
	}
	return nil
}

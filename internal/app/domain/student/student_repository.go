package student

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

var _ StudentRepo = (*PostgresStudentRepo)(nil)

type CreateStudentParams struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Phone       *string
	Address     *string
}

// UpdateStudentParams carries only the fields present in the request. Phone
// and address accept explicit empty strings; nil means untouched.
type UpdateStudentParams struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Phone       *string
	Address     *string
}

type StudentRepo interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, params CreateStudentParams) (*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	List(ctx context.Context, search string, limit, offset int) ([]models.Student, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateStudentParams) (*models.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresStudentRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresStudentRepo(pgpool db.Querier, logger *zap.Logger) *PostgresStudentRepo {
	return &PostgresStudentRepo{logger: logger, pgpool: pgpool}
}

const studentColumns = `s.id, s.user_id, s.first_name, s.last_name, s.date_of_birth, s.phone, s.address, s.created_at, s.updated_at, u.id, u.email, u.role`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var u models.UserRef
	err := row.Scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.DateOfBirth,
		&s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt, &u.ID, &u.Email, &u.Role)
	if err != nil {
		return nil, err
	}
	s.User = &u
	return &s, nil
}

func (r *PostgresStudentRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.UserRef, error) {
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

func (r *PostgresStudentRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE user_id = $1)`, userID).
		Scan(&exists)
	if err != nil {
		r.logger.Error("Error checking student profile", zap.String("userID", userID.String()), zap.Error(err))
		return false, fmt.Errorf("database error checking student profile: %w", err)
	}
	return exists, nil
}

func (r *PostgresStudentRepo) Create(ctx context.Context, params CreateStudentParams) (*models.Student, error) {
	query := `INSERT INTO students (user_id, first_name, last_name, date_of_birth, phone, address)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, params.UserID, params.FirstName, params.LastName,
		params.DateOfBirth, params.Phone, params.Address).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("Student profile already exists for this user")
		}
		r.logger.Error("Error inserting student", zap.String("userID", params.UserID.String()), zap.Error(err))
		return nil, fmt.Errorf("database error creating student: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s JOIN users u ON u.id = s.user_id WHERE s.id = $1`
	student, err := scanStudent(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Student not found")
		}
		r.logger.Error("Error fetching student", zap.String("studentID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching student: %w", err)
	}
	return student, nil
}

func (r *PostgresStudentRepo) List(ctx context.Context, search string, limit, offset int) ([]models.Student, int, error) {
	countQB := psql.Select("COUNT(*)").From("students s").Join("users u ON u.id = s.user_id")
	listQB := psql.Select(studentColumns).From("students s").Join("users u ON u.id = s.user_id").
		OrderBy("s.created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if search != "" {
		pattern := "%" + search + "%"
		filter := sq.Or{
			sq.ILike{"s.first_name": pattern},
			sq.ILike{"s.last_name": pattern},
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
		r.logger.Error("Error counting students", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting students: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing students", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0, limit)
	for rows.Next() {
		var s models.Student
		var u models.UserRef
		if err := rows.Scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.DateOfBirth,
			&s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt, &u.ID, &u.Email, &u.Role); err != nil {
			return nil, 0, fmt.Errorf("database error scanning student: %w", err)
		}
		s.User = &u
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading students: %w", err)
	}

	return students, total, nil
}

func (r *PostgresStudentRepo) Update(ctx context.Context, id uuid.UUID, params UpdateStudentParams) (*models.Student, error) {
	qb := psql.Update("students").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id")

	if params.FirstName != nil {
		qb = qb.Set("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		qb = qb.Set("last_name", *params.LastName)
	}
	if params.DateOfBirth != nil {
		qb = qb.Set("date_of_birth", *params.DateOfBirth)
	}
	if params.Phone != nil {
		qb = qb.Set("phone", *params.Phone)
	}
	if params.Address != nil {
		qb = qb.Set("address", *params.Address)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("Student not found")
		}
		r.logger.Error("Error updating student", zap.String("studentID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating student: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *PostgresStudentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting student", zap.String("studentID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("Student not found")
	}
	return nil
}

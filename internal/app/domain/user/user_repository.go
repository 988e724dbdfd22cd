package user

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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UpdateUserParams carries only the fields present in the request; nil
// pointers are left untouched.
type UpdateUserParams struct {
	Email        *string
	PasswordHash *string
	Role         *models.Role
}

type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error)
	List(ctx context.Context, role *models.Role, limit, offset int) ([]models.User, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresUserRepo struct {
	logger *zap.Logger
	pgpool db.Querier
}

func NewPostgresUserRepo(pgpool db.Querier, logger *zap.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{logger: logger, pgpool: pgpool}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("User not found")
		}
		r.logger.Error("Error fetching user by ID", zap.String("userID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var taken bool
	if err := r.pgpool.QueryRow(ctx, query, email, excludeID).Scan(&taken); err != nil {
		r.logger.Error("Error checking email uniqueness", zap.String("email", email), zap.Error(err))
		return false, fmt.Errorf("database error checking email: %w", err)
	}
	return taken, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error) {
	query := `INSERT INTO users (email, password_hash, role)
	          VALUES ($1, $2, $3)
	          RETURNING ` + userColumns
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email, hashedPassword, role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("User with this email already exists")
		}
		r.logger.Error("Error inserting user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) List(ctx context.Context, role *models.Role, limit, offset int) ([]models.User, int, error) {
	countQB := psql.Select("COUNT(*)").From("users")
	listQB := psql.Select(userColumns).From("users").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	if role != nil {
		countQB = countQB.Where(sq.Eq{"role": *role})
		listQB = listQB.Where(sq.Eq{"role": *role})
	}

	var total int
	countSQL, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building count query: %w", err)
	}
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Error counting users", zap.Error(err))
		return nil, 0, fmt.Errorf("database error counting users: %w", err)
	}

	listSQL, listArgs, err := listQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed building list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("Error listing users", zap.Error(err))
		return nil, 0, fmt.Errorf("database error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database error reading users: %w", err)
	}

	return users, total, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*models.User, error) {
	qb := psql.Update("users").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	if params.Email != nil {
		qb = qb.Set("email", *params.Email)
	}
	if params.PasswordHash != nil {
		qb = qb.Set("password_hash", *params.PasswordHash)
	}
	if params.Role != nil {
		qb = qb.Set("role", *params.Role)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed building update query: %w", err)
	}

	user, err := scanUser(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NotFound("User not found")
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("User with this email already exists")
		}
		r.logger.Error("Error updating user", zap.String("userID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("database error updating user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting user", zap.String("userID", id.String()), zap.Error(err))
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("User not found")
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUserByEmail fetches the account including the password hash.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser stores a new account with a HASHED password.
	CreateUser(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error)
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{logger: logger, pgpool: pgpool}
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email not found: %w", models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, email, hashedPassword string, role models.Role) (*models.User, error) {
	var user models.User
	query := `INSERT INTO users (email, password_hash, role)
	          VALUES ($1, $2, $3)
	          RETURNING id, email, password_hash, role, created_at, updated_at`
	err := r.pgpool.QueryRow(ctx, query, email, hashedPassword, role).Scan(
		&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.Conflict("User with this email already exists")
		}
		r.logger.Error("Error inserting user", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	return &user, nil
}

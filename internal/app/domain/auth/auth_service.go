package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthResult is the login/register payload: the session token plus the
// reduced user shape.
type AuthResult struct {
	Token string         `json:"token"`
	User  models.UserRef `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, email, password string, role models.Role) (*AuthResult, error)
}

type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	tokens *TokenService
}

func NewAuthService(repo AuthRepo, tokens *TokenService, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, tokens: tokens}
}

// Login verifies credentials against the stored hash and issues a token.
// Unknown email and wrong password produce the same message.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			l.Warn("Login for unknown email")
			return nil, models.Unauthenticated("Invalid email or password")
		}
		return nil, fmt.Errorf("error fetching user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID.String()))
		return nil, models.Unauthenticated("Invalid email or password")
	}

	return s.issue(user, l)
}

// Register creates an account (default role STUDENT) and issues a token.
// The route itself is ADMIN-gated.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string, role models.Role) (*AuthResult, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	if role == "" {
		role = models.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("could not process password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hash), role)
	if err != nil {
		return nil, err
	}

	l.Info("Registration successful", zap.String("userID", user.ID.String()))
	return s.issue(user, l)
}

func (s *AuthServiceImpl) issue(user *models.User, l *zap.Logger) (*AuthResult, error) {
	identity := models.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	token, err := s.tokens.Generate(identity)
	if err != nil {
		l.Error("Failed to generate token", zap.String("userID", user.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("internal error generating token: %w", err)
	}

	l.Info("Session token issued")
	return &AuthResult{
		Token: token,
		User:  models.UserRef{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

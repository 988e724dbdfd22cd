package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

// Claims is the signed session token payload.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService encodes and decodes signed, time-limited session tokens.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn}
}

// Generate signs a token carrying the identity with HS256.
func (t *TokenService) Generate(identity models.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: identity.UserID.String(),
		Email:  identity.Email,
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity. All
// failure modes collapse into one error; callers don't learn the sub-reason.
func (t *TokenService) Verify(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("malformed token subject: %w", err)
	}
	role := models.Role(claims.Role)
	if !role.IsValid() {
		return models.Identity{}, fmt.Errorf("malformed token role")
	}

	return models.Identity{UserID: userID, Email: claims.Email, Role: role}, nil
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/domain/auth"
	"github.com/Patilgrv/student-management-api/internal/app/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestRouter(tokens *auth.TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{Authenticate(tokens, zap.NewNop())}, extra...)
	chain = append(chain, func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": identity.Email, "role": string(identity.Role)})
	})
	r.GET("/probe", chain...)
	return r
}

func TestAuthenticateMissingHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	r := authTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	r := authTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	r := authTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	expired := auth.NewTokenService("test-secret", -time.Minute)
	token, err := expired.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "admin@school.test",
		Role:   models.RoleAdmin,
	})
	require.NoError(t, err)

	r := authTestRouter(auth.NewTokenService("test-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthenticateWrongSecret(t *testing.T) {
	other := auth.NewTokenService("other-secret", time.Hour)
	token, err := other.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "admin@school.test",
		Role:   models.RoleAdmin,
	})
	require.NoError(t, err)

	r := authTestRouter(auth.NewTokenService("test-secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "teacher@school.test",
		Role:   models.RoleTeacher,
	})
	require.NoError(t, err)

	r := authTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teacher@school.test")
	assert.Contains(t, w.Body.String(), "TEACHER")
}

func TestAuthorizeAllowsListedRole(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "teacher@school.test",
		Role:   models.RoleTeacher,
	})
	require.NoError(t, err)

	r := authTestRouter(tokens, Authorize(models.RoleAdmin, models.RoleTeacher))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizeRejectsUnlistedRole(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "student@school.test",
		Role:   models.RoleStudent,
	})
	require.NoError(t, err)

	r := authTestRouter(tokens, Authorize(models.RoleAdmin, models.RoleTeacher))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

func TestAuthorizeWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/probe", Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

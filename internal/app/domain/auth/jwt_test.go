package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Patilgrv/student-management-api/internal/app/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	identity := models.Identity{
		UserID: uuid.New(),
		Email:  "admin@school.test",
		Role:   models.RoleAdmin,
	}

	signed, err := tokens.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	decoded, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, identity, decoded)
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)
	signed, err := tokens.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "late@school.test",
		Role:   models.RoleStudent,
	})
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	signed, err := issuer.Generate(models.Identity{
		UserID: uuid.New(),
		Email:  "forged@school.test",
		Role:   models.RoleTeacher,
	})
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	_, err := tokens.Verify("not-a-token")
	assert.Error(t, err)
}

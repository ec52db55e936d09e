package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuitionterminal/backend/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := []byte("test-secret")
	userID := uuid.New()

	token, err := GenerateToken(secret, userID, "tutor@example.com", models.RoleTutor, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "tutor@example.com", claims.Email)
	assert.Equal(t, models.RoleTutor, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), uuid.New(), "user@example.com", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken([]byte("secret"), uuid.New(), "user@example.com", models.RoleStudent, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("secret"), token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken([]byte("secret"), "not-a-token")
	assert.Error(t, err)
}

package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtract(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := service.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), extracted)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-one").GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = NewJWTService("secret-two").ExtractUserID(token)
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	service := NewJWTService("test-secret")

	_, err := service.ExtractUserID("not-a-token")
	assert.Error(t, err)

	_, err = service.ExtractUserID("")
	assert.Error(t, err)
}

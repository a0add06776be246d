package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("secret", 42, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", 1, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestStateToken(t *testing.T) {
	state, err := GenerateStateToken("secret", 7, "youtube", "verifier-1", 10*time.Minute)
	require.NoError(t, err)

	claims, err := ValidateStateToken("secret", state, "youtube")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "verifier-1", claims.Verifier)
	assert.NotEmpty(t, claims.ID)

	_, err = ValidateStateToken("secret", state, "instagram")
	assert.Error(t, err)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	state, err := GenerateStateToken("secret", 7, "youtube", "", 10*time.Minute)
	require.NoError(t, err)
	session, err := GenerateToken("secret", 7, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken("secret", state)
	assert.Error(t, err)

	_, err = ValidateStateToken("secret", session, "youtube")
	assert.Error(t, err)
}

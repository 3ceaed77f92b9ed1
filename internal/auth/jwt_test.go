package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := &Tokens{Secret: []byte("test-secret")}

	access, refresh, err := tokens.Issue("user-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := tokens.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	// role survives the refresh token too
	claims, err = tokens.Verify(refresh)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := &Tokens{Secret: []byte("one")}
	verifier := &Tokens{Secret: []byte("two")}

	access, _, err := issuer.Issue("user-1", "user")
	require.NoError(t, err)

	_, err = verifier.Verify(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := &Tokens{Secret: []byte("test-secret")}
	_, err := tokens.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleDefaultsToUser(t *testing.T) {
	tokens := &Tokens{Secret: []byte("test-secret")}
	access, _, err := tokens.Issue("user-1", "")
	require.NoError(t, err)

	claims, err := tokens.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

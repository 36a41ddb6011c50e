package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "devevents")

	token, err := manager.Generate("01HQZX3Y4K6F7G8H9J0K1M2N3P", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "01HQZX3Y4K6F7G8H9J0K1M2N3P", claims.Subject)
	require.Equal(t, "ada@example.com", claims.Email)
	require.Equal(t, "devevents", claims.Issuer)
}

func TestGenerateRequiresSubject(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "devevents")

	_, err := manager.Generate("", "ada@example.com")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejects(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "devevents")

	_, err := manager.Validate("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = manager.Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTManager("different-secret", time.Hour, "devevents")
	token, err := other.Generate("subject", "a@b.co")
	require.NoError(t, err)
	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewJWTManager("test-secret", time.Hour, "someone-else")
	token, err = wrongIssuer.Generate("subject", "a@b.co")
	require.NoError(t, err)
	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, "devevents")

	token, err := manager.Generate("subject", "a@b.co")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = TokenFromHeader("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenFromHeader("Basic abc")
	require.ErrorIs(t, err, ErrMissingToken)
}

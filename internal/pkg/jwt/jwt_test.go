package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignerIssueAndParse(t *testing.T) {
	signer := NewSigner([]byte("secret"), time.Hour)
	token, err := signer.Issue("u1", "u1@example.com")
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "u1@example.com", claims.Email)
}

func TestSignerParseRejectsWrongSecret(t *testing.T) {
	token, err := NewSigner([]byte("one"), time.Hour).Issue("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = NewSigner([]byte("two"), time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerParseRejectsExpired(t *testing.T) {
	token, err := NewSigner([]byte("secret"), -time.Minute).Issue("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = NewSigner([]byte("secret"), time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerParseRejectsGarbage(t *testing.T) {
	_, err := NewSigner([]byte("secret"), time.Hour).Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

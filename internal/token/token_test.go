package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndResolve(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	signed, err := m.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	subject, err := m.Resolve(signed)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", subject)
}

func TestManager_Resolve_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	signed, err := m.Issue("user@example.com")
	require.NoError(t, err)

	_, err = m.Resolve(signed)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_Resolve_Malformed(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	_, err := m.Resolve("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Resolve_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", 30*time.Minute)
	resolver := NewManager("secret-b", 30*time.Minute)

	signed, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	_, err = resolver.Resolve(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Resolve_MissingSubject(t *testing.T) {
	m := NewManager("test-secret", 30*time.Minute)

	signed, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Resolve(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

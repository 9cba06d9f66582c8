package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", "esign", 3600)

	raw, err := issuer.Generate("a@example.com", "+15550001", "user-1", "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "+15550001", claims.Phone)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "doc-1", claims.DocumentID)
	assert.Equal(t, "esign", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewIssuer("secret-a", "esign", 3600).Generate("a@example.com", "", "user-1", "doc-1")
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", "esign", 3600).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	raw, err := NewIssuer("secret", "other-project", 3600).Generate("a@example.com", "", "user-1", "doc-1")
	require.NoError(t, err)

	_, err = NewIssuer("secret", "esign", 3600).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("secret", "esign", -60)

	raw, err := issuer.Generate("a@example.com", "", "user-1", "doc-1")
	require.NoError(t, err)

	_, err = issuer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", "esign", 3600).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
}

func TestIssuePairAndValidate(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("auth0|abc123", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := issuer.ValidateAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenNotUsableAsAccess(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("auth0|abc123", "")
	require.NoError(t, err)

	_, err = issuer.ValidateAccess(pair.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("auth0|abc123", "jane@example.com")
	require.NoError(t, err)

	renewed, err := issuer.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := issuer.ValidateAccess(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "auth0|abc123", claims.Subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("auth0|abc123", "")
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, 24*time.Hour)

	pair, err := issuer.IssuePair("auth0|abc123", "")
	require.NoError(t, err)

	_, err = issuer.ValidateAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	pair, err := newTestIssuer().IssuePair("auth0|abc123", "")
	require.NoError(t, err)

	other := NewTokenIssuer("different-secret", time.Hour, 24*time.Hour)
	_, err = other.ValidateAccess(pair.AccessToken)
	assert.Error(t, err)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusmart.com/internal/auth"
	"nexusmart.com/internal/domain"
)

func newTokenService(t *testing.T) (*TokenServiceImpl, *AccountServiceImpl) {
	t.Helper()
	accounts := NewAccountService(newTestDB(t))
	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	return NewTokenService(accounts, issuer), accounts
}

func TestRegisterThenLogin(t *testing.T) {
	tokens, accounts := newTokenService(t)
	ctx := context.Background()

	user, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	pair, err := tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	// The access token resolves back to the registered identity.
	resolved, err := tokens.Authorize(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Email, resolved.Email)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	tokens, accounts := newTokenService(t)
	ctx := context.Background()

	_, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	_, wrongPassword := tokens.Authenticate(ctx, "user@test.com", "WrongPass999")
	_, unknownEmail := tokens.Authenticate(ctx, "nobody@test.com", "TestPass123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	// Both failure modes surface the same error, revealing nothing about
	// which factor was wrong.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, domain.ErrUnauthorized)
	assert.ErrorIs(t, unknownEmail, domain.ErrUnauthorized)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	accounts := NewAccountService(newTestDB(t))
	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
	tokens := NewTokenService(accounts, issuer)
	ctx := context.Background()

	user, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	db := accounts.db
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err = tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	tokens, accounts := newTokenService(t)
	ctx := context.Background()

	_, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	pair, err := tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)

	access, err := tokens.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	_, err = tokens.Authorize(ctx, access)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	tokens, accounts := newTokenService(t)
	ctx := context.Background()

	_, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	pair, err := tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)

	// Token type confusion: an access token cannot be exchanged.
	_, err = tokens.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// And a refresh token cannot authorize a request.
	_, err = tokens.Authorize(ctx, pair.Refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTwoTokenPairsAreIndependent(t *testing.T) {
	tokens, accounts := newTokenService(t)
	ctx := context.Background()

	_, err := accounts.CreateUser(ctx, "user@test.com", "TestPass123", domain.UserFields{})
	require.NoError(t, err)

	first, err := tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)
	second, err := tokens.Authenticate(ctx, "user@test.com", "TestPass123")
	require.NoError(t, err)

	_, err = tokens.Authorize(ctx, first.Access)
	assert.NoError(t, err)
	_, err = tokens.Authorize(ctx, second.Access)
	assert.NoError(t, err)
}

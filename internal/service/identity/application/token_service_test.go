package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdomain "sneakerspot/internal/service/user/domain"
)

type memTokenStore struct {
	tokens map[string]struct {
		userID    int64
		expiresAt time.Time
	}
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: map[string]struct {
		userID    int64
		expiresAt time.Time
	}{}}
}

func (s *memTokenStore) Save(_ context.Context, userID int64, hash string, expiresAt time.Time) error {
	s.tokens[hash] = struct {
		userID    int64
		expiresAt time.Time
	}{userID, expiresAt}
	return nil
}

func (s *memTokenStore) Find(_ context.Context, hash string) (int64, error) {
	entry, ok := s.tokens[hash]
	if !ok || entry.expiresAt.Before(time.Now()) {
		return 0, userdomain.ErrUserNotFound
	}
	return entry.userID, nil
}

func (s *memTokenStore) Delete(_ context.Context, hash string) error {
	delete(s.tokens, hash)
	return nil
}

func (s *memTokenStore) DeleteForUser(_ context.Context, userID int64) error {
	for hash, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, hash)
		}
	}
	return nil
}

func testUser() *userdomain.User {
	return &userdomain.User{
		UserID: 42,
		Email:  "jane@example.com",
		Role:   userdomain.RoleCustomer,
	}
}

func newTokenService() (*TokenService, *memTokenStore) {
	store := newMemTokenStore()
	return NewTokenService("test-secret", store), store
}

func TestIssueAndVerify(t *testing.T) {
	svc, store := newTokenService()

	pair, err := svc.IssuePair(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, 900, pair.ExpiresIn)
	assert.Len(t, store.tokens, 1)

	identity, err := svc.Verify(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "jane@example.com", identity.Email)
	assert.Equal(t, userdomain.RoleCustomer, identity.Role)
}

// A refresh token must not pass as an access token.
func TestVerifyRejectsRefreshToken(t *testing.T) {
	svc, _ := newTokenService()

	pair, err := svc.IssuePair(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _ := newTokenService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc, _ := newTokenService()
	other := NewTokenService("different-secret", newMemTokenStore())

	pair, err := other.IssuePair(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, store := newTokenService()
	user := testUser()

	pair, err := svc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	lookup := func(context.Context, int64) (*userdomain.User, error) { return user, nil }
	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken, lookup)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)
	assert.Len(t, store.tokens, 1)

	// The old refresh token is spent.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken, lookup)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeAllEndsEverySession(t *testing.T) {
	svc, store := newTokenService()
	user := testUser()

	_, err := svc.IssuePair(context.Background(), user)
	require.NoError(t, err)
	_, err = svc.IssuePair(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, store.tokens, 2)

	require.NoError(t, svc.RevokeAll(context.Background(), user.UserID))
	assert.Empty(t, store.tokens)
}

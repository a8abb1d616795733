package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users        map[string]*models.User // username -> User
	getUserError error
}

func (m *mockUserStorage) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	user := &models.User{
		ID:           int64(len(m.users) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	m.users[username] = user
	return user, nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, id int64) error {
	for username, user := range m.users {
		if user.ID == id {
			delete(m.users, username)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func testResolver(t *testing.T, users *mockUserStorage) (*Resolver, *Sessions) {
	t.Helper()
	sessions, err := NewSessions("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(sessions, users, logger), sessions
}

func requestWithCookie(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestResolver_Resolve(t *testing.T) {
	users := &mockUserStorage{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", PasswordHash: "x", IsAdmin: true},
		"bob":   {ID: 2, Username: "bob", PasswordHash: "x", IsAdmin: false},
	}}
	resolver, sessions := testResolver(t, users)

	adminCookie, err := sessions.Issue("alice")
	require.NoError(t, err)
	userCookie, err := sessions.Issue("bob")
	require.NoError(t, err)
	ghostCookie, err := sessions.Issue("ghost")
	require.NoError(t, err)

	tests := []struct {
		cookie   *http.Cookie
		name     string
		wantKind PrincipalKind
	}{
		{name: "no cookie resolves to anonymous", cookie: nil, wantKind: Anonymous},
		{name: "admin session", cookie: adminCookie, wantKind: AdminUser},
		{name: "regular user session", cookie: userCookie, wantKind: AuthenticatedUser},
		{name: "session for deleted user", cookie: ghostCookie, wantKind: Anonymous},
		{
			name:     "garbage cookie resolves to anonymous",
			cookie:   &http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"},
			wantKind: Anonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := resolver.Resolve(context.Background(), requestWithCookie(tt.cookie))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, principal.Kind)
			if tt.wantKind == Anonymous {
				assert.False(t, principal.Authenticated())
				assert.Nil(t, principal.User)
			} else {
				assert.True(t, principal.Authenticated())
				require.NotNil(t, principal.User)
			}
			assert.Equal(t, tt.wantKind == AdminUser, principal.IsAdmin())
		})
	}
}

func TestResolver_Resolve_StoreError(t *testing.T) {
	users := &mockUserStorage{
		users:        map[string]*models.User{},
		getUserError: storage.ErrStoreUnavailable,
	}
	resolver, sessions := testResolver(t, users)

	cookie, err := sessions.Issue("alice")
	require.NoError(t, err)

	// недоступность хранилища не маскируется под Anonymous
	_, err = resolver.Resolve(context.Background(), requestWithCookie(cookie))
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestResolver_Login(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	users := &mockUserStorage{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", PasswordHash: hash, IsAdmin: true},
	}}
	resolver, _ := testResolver(t, users)
	ctx := context.Background()

	user, err := resolver.Login(ctx, "alice", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// неверный пароль и несуществующий пользователь дают одну ошибку
	_, wrongPassErr := resolver.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)

	_, noUserErr := resolver.Login(ctx, "nobody", "correct-password")
	assert.ErrorIs(t, noUserErr, ErrInvalidCredentials)

	assert.Equal(t, wrongPassErr.Error(), noUserErr.Error())
}

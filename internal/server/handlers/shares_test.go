package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/models"
	"github.com/iudanet/shortshare/internal/server/storage/sqlite"
	"github.com/iudanet/shortshare/internal/shares"
	"github.com/iudanet/shortshare/internal/token"
)

// testStack собирает handler поверх настоящего in-memory хранилища
func testStack(t *testing.T) (*ShareHandler, *shares.Service, *sqlite.Storage) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	codec, err := token.NewCodec(token.DefaultAlphabet)
	require.NoError(t, err)
	gen, err := token.NewGenerator(codec, token.DefaultMinLength, token.DefaultDelim, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := shares.NewService(store, gen, "http://short.test", time.Second, logger)
	return NewShareHandler(logger, service), service, store
}

func asAdmin(req *http.Request) *http.Request {
	principal := auth.Principal{
		Kind: auth.AdminUser,
		User: &models.User{ID: 1, Username: "admin", IsAdmin: true},
	}
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}

func asUser(req *http.Request) *http.Request {
	principal := auth.Principal{
		Kind: auth.AuthenticatedUser,
		User: &models.User{ID: 2, Username: "bob"},
	}
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
}

func createRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestShareHandler_Create(t *testing.T) {
	h, _, _ := testStack(t)

	rec := httptest.NewRecorder()
	h.Create(rec, asAdmin(createRequest(`{"url": "https://example.com"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	link := rec.Body.String()
	assert.True(t, strings.HasPrefix(link, "http://short.test/r/"), "unexpected link %q", link)

	// по выданной ссылке действительно резолвится редирект
	tok := strings.TrimPrefix(link, "http://short.test/r/")
	req := httptest.NewRequest(http.MethodGet, "/r/"+tok, nil)
	req.SetPathValue("token", tok)
	redirectRec := httptest.NewRecorder()
	h.Redirect(redirectRec, req)

	assert.Equal(t, http.StatusFound, redirectRec.Code)
	assert.Equal(t, "https://example.com", redirectRec.Header().Get("Location"))
}

func TestShareHandler_Create_Unauthorized(t *testing.T) {
	h, _, store := testStack(t)

	tests := []struct {
		decorate func(*http.Request) *http.Request
		name     string
	}{
		{name: "anonymous", decorate: func(r *http.Request) *http.Request { return r }},
		{name: "non-admin user", decorate: asUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, tt.decorate(createRequest(`{"url": "https://example.com"}`)))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	// ничего не записано
	list, err := store.ListShares(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShareHandler_Create_BadRequests(t *testing.T) {
	h, _, _ := testStack(t)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{"url": "https://example.com"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "missing content type",
			contentType: "",
			body:        `{"url": "https://example.com"}`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "payload too large",
			contentType: "application/json",
			body:        `{"url": "https://example.com/` + strings.Repeat("a", 2048) + `"}`,
			wantStatus:  http.StatusRequestEntityTooLarge,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"url": `,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "invalid destination url",
			contentType: "application/json",
			body:        `{"url": "not-a-url"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty url",
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			h.Create(rec, asAdmin(req))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestShareHandler_Create_WithExpiry(t *testing.T) {
	h, service, _ := testStack(t)

	exp := time.Now().Add(time.Hour).Unix()
	body := `{"url": "https://example.com", "exp": ` + strconv.FormatInt(exp, 10) + `}`

	rec := httptest.NewRecorder()
	h.Create(rec, asAdmin(createRequest(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	list, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, exp, list[0].ExpiresAt)
}

func TestShareHandler_Redirect_NotFound(t *testing.T) {
	h, _, _ := testStack(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "unknown but valid token", token: "zzgABC"},
		{name: "token with invalid characters", token: "!!!"},
		{name: "empty core", token: "gabcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/r/"+tt.token, nil)
			req.SetPathValue("token", tt.token)

			rec := httptest.NewRecorder()
			h.Redirect(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			// generic тело без внутренних деталей
			assert.Equal(t, "not found", strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestShareHandler_Redirect_Expired(t *testing.T) {
	h, service, _ := testStack(t)

	share, err := service.Shorten(context.Background(), "https://example.com", time.Now().Add(-time.Minute).Unix())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/r/"+share.Token, nil)
	req.SetPathValue("token", share.Token)
	rec := httptest.NewRecorder()
	h.Redirect(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShareHandler_Delete(t *testing.T) {
	h, service, _ := testStack(t)
	ctx := context.Background()

	share, err := service.Shorten(ctx, "https://example.com", 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/r/"+share.Token, nil)
	req.SetPathValue("token", share.Token)
	rec := httptest.NewRecorder()
	h.Delete(rec, asAdmin(req))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = service.Resolve(ctx, share.Token)
	assert.Error(t, err)
}

func TestShareHandler_Delete_Unauthorized(t *testing.T) {
	h, service, _ := testStack(t)
	ctx := context.Background()

	share, err := service.Shorten(ctx, "https://example.com", 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/r/"+share.Token, nil)
	req.SetPathValue("token", share.Token)
	rec := httptest.NewRecorder()
	h.Delete(rec, asUser(req))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// запись на месте
	resolved, err := service.Resolve(ctx, share.Token)
	require.NoError(t, err)
	assert.Equal(t, share.ID, resolved.ID)
}

func TestShareHandler_Delete_NotFound(t *testing.T) {
	h, _, _ := testStack(t)

	req := httptest.NewRequest(http.MethodDelete, "/r/zzgABC", nil)
	req.SetPathValue("token", "zzgABC")
	rec := httptest.NewRecorder()
	h.Delete(rec, asAdmin(req))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

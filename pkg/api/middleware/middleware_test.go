package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocks "github.com/cbodonnell/afterglow/mocks/github.com/cbodonnell/afterglow/pkg/auth/providers"
	authproviders "github.com/cbodonnell/afterglow/pkg/auth/providers"
)

func TestAuthMiddleware_StoresUser(t *testing.T) {
	t.Parallel()

	provider, err := authproviders.NewStaticAuthProvider("sekrit")
	require.NoError(t, err)

	var gotUID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		gotUID = user.ID
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/scores", nil)
	req.Header.Set("Authorization", "Bearer "+authproviders.StaticToken("sekrit", "uid-1"))
	w := httptest.NewRecorder()
	NewAuthMiddleware(provider)(next).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "uid-1", gotUID)
}

func TestAuthMiddleware_ForwardsBearerToken(t *testing.T) {
	t.Parallel()

	mockProvider := mocks.NewAuthProvider(t)
	mockProvider.EXPECT().VerifyToken(mock.Anything, "id-token-123").Return(&authproviders.TokenClaims{UID: "uid-9"}, nil).Once()

	var gotUID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		gotUID = user.ID
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/scores", nil)
	req.Header.Set("Authorization", "Bearer id-token-123")
	w := httptest.NewRecorder()
	NewAuthMiddleware(mockProvider)(next).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "uid-9", gotUID)
}

func TestAuthMiddleware_ProviderError(t *testing.T) {
	t.Parallel()

	mockProvider := mocks.NewAuthProvider(t)
	mockProvider.EXPECT().VerifyToken(mock.Anything, "expired-token").Return(nil, errors.New("token expired")).Once()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/scores", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	NewAuthMiddleware(mockProvider)(next).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	provider, err := authproviders.NewStaticAuthProvider("sekrit")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	for _, header := range []string{
		"",
		"Bearer",
		"Token " + authproviders.StaticToken("sekrit", "uid-1"),
		"Bearer " + authproviders.StaticToken("wrong", "uid-1"),
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/scores", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		NewAuthMiddleware(provider)(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

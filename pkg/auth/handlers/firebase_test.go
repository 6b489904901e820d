package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(r *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// newTestHandler returns a FirebaseAuthHandler whose HTTP client is served
// entirely by fn.
func newTestHandler(fn roundTripperFunc) *FirebaseAuthHandler {
	handler := NewFirebaseAuthHandler("test-api-key")
	handler.client = &http.Client{Transport: fn}
	return handler
}

func jsonResponse(status int, body interface{}) (*http.Response, error) {
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(buf),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func firebaseErrorResponse(message ErrorResponseMessage) (*http.Response, error) {
	body := &ErrorResponseBody{}
	body.Error.Code = 400
	body.Error.Message = message
	return jsonResponse(http.StatusBadRequest, body)
}

func postForm(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestFirebaseAuthHandler_Login(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.String(), "accounts:signInWithPassword")
		require.Contains(t, r.URL.RawQuery, "key=test-api-key")

		payload := &LoginRequestBody{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(payload))
		require.Equal(t, "player@example.com", payload.Email)
		require.True(t, payload.ReturnSecureToken)

		return jsonResponse(http.StatusOK, &LoginResponseBody{
			IDToken: "id-token",
			Email:   payload.Email,
			LocalID: "uid-1",
		})
	})

	w := postForm(t, handler.HandleLogin(), url.Values{
		"email":    {"player@example.com"},
		"password": {"hunter22"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	response := &LoginResponseBody{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(response))
	require.Equal(t, "id-token", response.IDToken)
	require.Equal(t, "uid-1", response.LocalID)
}

func TestFirebaseAuthHandler_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		return firebaseErrorResponse(ErrorInvalidLoginCredentials)
	})

	w := postForm(t, handler.HandleLogin(), url.Values{
		"email":    {"player@example.com"},
		"password": {"wrong"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestFirebaseAuthHandler_LoginMissingFields(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("no request expected")
	})

	w := postForm(t, handler.HandleLogin(), url.Values{"password": {"hunter22"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = postForm(t, handler.HandleLogin(), url.Values{"email": {"player@example.com"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFirebaseAuthHandler_RegisterWeakPassword(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		require.Contains(t, r.URL.String(), "accounts:signUp")
		return firebaseErrorResponse(ErrorWeakPassword)
	})

	w := postForm(t, handler.HandleRegister(), url.Values{
		"email":    {"player@example.com"},
		"password": {"short"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestFirebaseAuthHandler_UnhandledErrorIs500(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		return firebaseErrorResponse("SOMETHING_NEW")
	})

	w := postForm(t, handler.HandleRegister(), url.Values{
		"email":    {"player@example.com"},
		"password": {"hunter22"},
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Failed to register")
}

func TestFirebaseAuthHandler_Delete(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(func(r *http.Request) (*http.Response, error) {
		require.Contains(t, r.URL.String(), "accounts:delete")
		payload := &DeleteRequestBody{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(payload))
		require.Equal(t, "id-token", payload.IDToken)
		return jsonResponse(http.StatusOK, map[string]string{"kind": "identitytoolkit#DeleteAccountResponse"})
	})

	w := postForm(t, handler.HandleDelete(), url.Values{"idToken": {"id-token"}})
	require.Equal(t, http.StatusOK, w.Code)
}

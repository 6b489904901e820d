package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/afterglow/pkg/log"
)

var _ AuthHandler = &FirebaseAuthHandler{}

// Firebase Auth REST API endpoints
// https://firebase.google.com/docs/reference/rest/auth
const (
	signUpURL  = "https://identitytoolkit.googleapis.com/v1/accounts:signUp"
	signInURL  = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"
	deleteURL  = "https://identitytoolkit.googleapis.com/v1/accounts:delete"
	refreshURL = "https://securetoken.googleapis.com/v1/token"
)

// FirebaseAuthHandler implements AuthHandler using the Firebase Auth REST API
type FirebaseAuthHandler struct {
	apiKey string
	client *http.Client
}

// NewFirebaseAuthHandler creates a new instance of FirebaseAuthHandler
func NewFirebaseAuthHandler(apiKey string) *FirebaseAuthHandler {
	return &FirebaseAuthHandler{
		apiKey: apiKey,
		client: http.DefaultClient,
	}
}

// ErrorResponseBody is the response body for an error
// https://firebase.google.com/docs/reference/rest/auth#section-error-format
type ErrorResponseBody struct {
	Error struct {
		Code    int                  `json:"code"`
		Message ErrorResponseMessage `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type ErrorResponseMessage string

const (
	ErrorEmailExists             ErrorResponseMessage = "EMAIL_EXISTS"
	ErrorOperationNotAllowed     ErrorResponseMessage = "OPERATION_NOT_ALLOWED"
	ErrorTooManyAttempts         ErrorResponseMessage = "TOO_MANY_ATTEMPTS_TRY_LATER"
	ErrorInvalidEmail            ErrorResponseMessage = "INVALID_EMAIL"
	ErrorInvalidLoginCredentials ErrorResponseMessage = "INVALID_LOGIN_CREDENTIALS"
	ErrorTokenExpired            ErrorResponseMessage = "TOKEN_EXPIRED"
	ErrorInvalidIDToken          ErrorResponseMessage = "INVALID_ID_TOKEN"
	ErrorUserNotFound            ErrorResponseMessage = "USER_NOT_FOUND"
	ErrorWeakPassword            ErrorResponseMessage = "WEAK_PASSWORD : Password should be at least 6 characters"
)

// firebaseError is a non-200 response from the Firebase REST API.
type firebaseError struct {
	message ErrorResponseMessage
}

func (e *firebaseError) Error() string {
	return string(e.message)
}

// post sends a JSON payload to a Firebase endpoint and decodes the response
// into out. A non-200 response decodes as a *firebaseError. A nil out skips
// response decoding.
func (h *FirebaseAuthHandler) post(ctx context.Context, url string, payload interface{}, out interface{}) error {
	body := bytes.NewBuffer(nil)
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+h.apiKey, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorResponse := &ErrorResponseBody{}
		if err := json.NewDecoder(resp.Body).Decode(errorResponse); err != nil {
			return fmt.Errorf("failed to decode error response: %v", err)
		}
		return &firebaseError{message: errorResponse.Error.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// writeAuthError maps recognized Firebase error messages to a 400 with a
// friendly message and everything else to a 500 with the fallback message.
func writeAuthError(w http.ResponseWriter, err error, messages map[ErrorResponseMessage]string, fallback string) {
	fbErr := &firebaseError{}
	if errors.As(err, &fbErr) {
		if msg, ok := messages[fbErr.message]; ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		log.Error("unhandled error response message: %s", fbErr.message)
		http.Error(w, fallback, http.StatusInternalServerError)
		return
	}
	log.Error("auth request failed: %v", err)
	http.Error(w, fallback, http.StatusInternalServerError)
}

// RegisterRequestBody is the request body for the register endpoint
type RegisterRequestBody struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// RegisterResponseBody is the response body for the register endpoint
type RegisterResponseBody struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

// HandleRegister handles requests to the register endpoint
// https://firebase.google.com/docs/reference/rest/auth#section-create-email-password
func (h *FirebaseAuthHandler) HandleRegister() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		password := r.FormValue("password")

		if email == "" {
			http.Error(w, "Missing email", http.StatusBadRequest)
			return
		}
		if password == "" {
			http.Error(w, "Missing password", http.StatusBadRequest)
			return
		}

		responsePayload := &RegisterResponseBody{}
		err := h.post(r.Context(), signUpURL, &RegisterRequestBody{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}, responsePayload)
		if err != nil {
			writeAuthError(w, err, map[ErrorResponseMessage]string{
				ErrorInvalidEmail:        "Invalid email",
				ErrorWeakPassword:        "Password should be at least 6 characters",
				ErrorEmailExists:         "Email already exists",
				ErrorOperationNotAllowed: "Operation not allowed",
				ErrorTooManyAttempts:     "Too many attempts, try again later",
			}, "Failed to register")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responsePayload); err != nil {
			log.Error("failed to encode response: %v", err)
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// LoginRequestBody is the request body for the login endpoint
type LoginRequestBody struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// LoginResponseBody is the response body for the login endpoint
type LoginResponseBody struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Registered   bool   `json:"registered"`
}

// HandleLogin handles requests to the login endpoint
// https://firebase.google.com/docs/reference/rest/auth#section-sign-in-email-password
func (h *FirebaseAuthHandler) HandleLogin() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.FormValue("email")
		password := r.FormValue("password")

		if email == "" {
			http.Error(w, "Missing email", http.StatusBadRequest)
			return
		}
		if password == "" {
			http.Error(w, "Missing password", http.StatusBadRequest)
			return
		}

		responsePayload := &LoginResponseBody{}
		err := h.post(r.Context(), signInURL, &LoginRequestBody{
			Email:             email,
			Password:          password,
			ReturnSecureToken: true,
		}, responsePayload)
		if err != nil {
			writeAuthError(w, err, map[ErrorResponseMessage]string{
				ErrorInvalidEmail:            "Invalid email",
				ErrorInvalidLoginCredentials: "Invalid credentials",
			}, "Failed to login")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responsePayload); err != nil {
			log.Error("failed to encode response: %v", err)
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// RefreshRequestBody is the request body for the refresh endpoint
type RefreshRequestBody struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponseBody is the response body for the refresh endpoint
type RefreshResponseBody struct {
	ExpiresIn    string `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	UserID       string `json:"user_id"`
	ProjectID    string `json:"project_id"`
}

// HandleRefresh handles requests to the refresh endpoint
// https://firebase.google.com/docs/reference/rest/auth#section-refresh-token
func (h *FirebaseAuthHandler) HandleRefresh() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := r.FormValue("refreshToken")

		if refreshToken == "" {
			http.Error(w, "Missing refresh token", http.StatusBadRequest)
			return
		}

		responsePayload := &RefreshResponseBody{}
		err := h.post(r.Context(), refreshURL, &RefreshRequestBody{
			GrantType:    "refresh_token",
			RefreshToken: refreshToken,
		}, responsePayload)
		if err != nil {
			writeAuthError(w, err, map[ErrorResponseMessage]string{
				ErrorTokenExpired: "Token expired",
			}, "Failed to refresh")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responsePayload); err != nil {
			log.Error("failed to encode response: %v", err)
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// DeleteRequestBody is the request body for the delete endpoint
type DeleteRequestBody struct {
	IDToken string `json:"idToken"`
}

// HandleDelete handles requests to the delete endpoint
// https://firebase.google.com/docs/reference/rest/auth#section-delete-account
func (h *FirebaseAuthHandler) HandleDelete() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		idToken := r.FormValue("idToken")

		if idToken == "" {
			http.Error(w, "Missing ID token", http.StatusBadRequest)
			return
		}

		err := h.post(r.Context(), deleteURL, &DeleteRequestBody{
			IDToken: idToken,
		}, nil)
		if err != nil {
			writeAuthError(w, err, map[ErrorResponseMessage]string{
				ErrorInvalidIDToken: "Invalid ID token",
				ErrorUserNotFound:   "User not found",
			}, "Failed to delete")
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

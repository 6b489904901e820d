package providers

import "context"

// AuthProvider verifies ID tokens presented to the leaderboard API.
type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

// TokenClaims holds the verified claims of an ID token.
type TokenClaims struct {
	UID string `json:"uid"`
}

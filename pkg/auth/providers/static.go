package providers

import (
	"context"
	"fmt"
	"strings"
)

var _ AuthProvider = &StaticAuthProvider{}

// StaticAuthProvider verifies tokens of the form "<secret>.<uid>" against a
// shared secret. It lets the server and client run without Firebase
// credentials during development.
type StaticAuthProvider struct {
	secret string
}

// NewStaticAuthProvider creates a new StaticAuthProvider
func NewStaticAuthProvider(secret string) (*StaticAuthProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret must not be empty")
	}
	return &StaticAuthProvider{
		secret: secret,
	}, nil
}

// StaticToken builds a token that a StaticAuthProvider with the same secret
// will accept for the given uid.
func StaticToken(secret string, uid string) string {
	return secret + "." + uid
}

// VerifyToken verifies a static token
func (p *StaticAuthProvider) VerifyToken(_ context.Context, idToken string) (*TokenClaims, error) {
	secret, uid, ok := strings.Cut(idToken, ".")
	if !ok || uid == "" {
		return nil, fmt.Errorf("malformed token")
	}
	if secret != p.secret {
		return nil, fmt.Errorf("invalid token")
	}

	return &TokenClaims{
		UID: uid,
	}, nil
}

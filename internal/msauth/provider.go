package msauth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotAuthenticated is returned when no valid credential is available.
// Callers surface it as "must sign in"; nothing in the core retries with
// a stale token.
var ErrNotAuthenticated = errors.New("not authenticated with Microsoft Graph")

// TokenProvider supplies the current bearer credential for Graph calls.
// The abstraction allows different sources: a cached OAuth token on disk,
// a fixed token handed in on the command line, or a stub in tests.
type TokenProvider interface {
	// Credential returns the current credential, refreshing it if the
	// underlying source supports refresh.
	Credential(ctx context.Context) (Credential, error)

	// IsAuthenticated reports whether a credential is available without
	// performing a refresh.
	IsAuthenticated() bool
}

// StaticProvider serves one fixed credential. Useful for tests and for
// the --token escape hatch on the CLI.
type StaticProvider struct {
	cred Credential
}

// NewStaticProvider wraps a raw bearer token. A zero expiresAt means the
// token is used until the server rejects it.
func NewStaticProvider(token string, expiresAt time.Time) *StaticProvider {
	return &StaticProvider{cred: Credential{Token: token, ExpiresAt: expiresAt}}
}

// Credential returns the fixed credential, or ErrNotAuthenticated once it
// has expired.
func (p *StaticProvider) Credential(ctx context.Context) (Credential, error) {
	if !p.cred.Valid() {
		return Credential{}, fmt.Errorf("static credential invalid or expired: %w", ErrNotAuthenticated)
	}
	return p.cred, nil
}

// IsAuthenticated reports whether the fixed credential is still valid.
func (p *StaticProvider) IsAuthenticated() bool {
	return p.cred.Valid()
}

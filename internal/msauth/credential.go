package msauth

import "time"

// Credential is a bearer token with its expiry instant. Consumers treat
// it as read-only; refresh is the provider's concern.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the credential can authenticate a request right
// now. A zero expiry means the issuer did not communicate one and the
// token is trusted until the server rejects it.
func (c Credential) Valid() bool {
	if c.Token == "" {
		return false
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Before(c.ExpiresAt)
}

package service

import "time"

// Claims is the verified payload of a session token.
type Claims struct {
	Subject   string // Login identifier of the authenticated user.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, expiring, stateless session tokens.
// Tokens cannot be revoked before they expire.
type TokenService interface {
	// Issue signs a token for subject valid for the service's fixed lifetime.
	Issue(subject string) (token string, expiresAt time.Time, err error)

	// Verify returns the token's claims, or domainerrors.ErrTokenExpired for a
	// well-formed token past its expiry, or domainerrors.ErrTokenInvalid for
	// anything else (bad signature, wrong algorithm, malformed structure).
	Verify(token string) (*Claims, error)
}

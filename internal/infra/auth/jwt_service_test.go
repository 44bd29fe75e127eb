package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/config"
	domainerrors "tienda/internal/domain/errors"
	"tienda/internal/errors"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	before := time.Now().Truncate(time.Second)
	token, expiresAt, err := jwtService.Issue("ana")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")))
	assert.WithinDuration(t, before.Add(TokenLifetime), expiresAt, 2*time.Second)

	claims, err := jwtService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.Equal(t, TokenLifetime, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestJWTService_TokenCarriesUsuarioClaim(t *testing.T) {
	svc, err := newJWTService(testSecret, TokenLifetime, time.Now)
	require.NoError(t, err)

	token, _, err := svc.Issue("ana")
	require.NoError(t, err)

	parsed := &tokenClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, parsed)
	require.NoError(t, err)
	assert.Equal(t, "ana", parsed.Usuario)
	assert.Equal(t, "ana", parsed.Subject)
}

func TestJWTService_Expired(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	issuer, err := newJWTService(testSecret, TokenLifetime, fixedClock(issuedAt))
	require.NoError(t, err)
	token, _, err := issuer.Issue("ana")
	require.NoError(t, err)

	stillValid, err := newJWTService(testSecret, TokenLifetime, fixedClock(issuedAt.Add(59*time.Minute)))
	require.NoError(t, err)
	_, err = stillValid.Verify(token)
	assert.NoError(t, err)

	verifier, err := newJWTService(testSecret, TokenLifetime, fixedClock(issuedAt.Add(61*time.Minute)))
	require.NoError(t, err)
	claims, err := verifier.Verify(token)
	assert.Nil(t, claims)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestJWTService_ValidAtExpiryInstant(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	issuer, err := newJWTService(testSecret, TokenLifetime, fixedClock(issuedAt))
	require.NoError(t, err)
	token, expiresAt, err := issuer.Issue("ana")
	require.NoError(t, err)

	atExpiry, err := newJWTService(testSecret, TokenLifetime, fixedClock(expiresAt))
	require.NoError(t, err)
	claims, err := atExpiry.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)

	pastExpiry, err := newJWTService(testSecret, TokenLifetime, fixedClock(expiresAt.Add(time.Second)))
	require.NoError(t, err)
	_, err = pastExpiry.Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestJWTService_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	issuer, err := newJWTService("another_secret", TokenLifetime, fixedClock(issuedAt))
	require.NoError(t, err)
	token, _, err := issuer.Issue("ana")
	require.NoError(t, err)

	verifier, err := newJWTService(testSecret, TokenLifetime, fixedClock(issuedAt.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = verifier.Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
	assert.False(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestJWTService_InvalidTokens(t *testing.T) {
	svc, err := newJWTService(testSecret, TokenLifetime, time.Now)
	require.NoError(t, err)

	valid, _, err := svc.Issue("ana")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	otherSecret, err := newJWTService("a_completely_different_secret", TokenLifetime, time.Now)
	require.NoError(t, err)
	foreign, _, err := otherSecret.Issue("ana")
	require.NoError(t, err)

	claims := tokenClaims{
		Usuario: "ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ana"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered signature", token: tampered},
		{name: "signed with another secret", token: foreign},
		{name: "unexpected algorithm", token: hs512},
		{name: "alg none", token: unsigned},
		{name: "missing expiry", token: noExpiry},
		{name: "missing subject", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid), "got %v", err)
		})
	}
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "   "

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestJWTService_IssueRequiresSubject(t *testing.T) {
	svc, err := newJWTService(testSecret, TokenLifetime, time.Now)
	require.NoError(t, err)

	token, _, err := svc.Issue("")
	assert.Error(t, err)
	assert.Empty(t, token)
}

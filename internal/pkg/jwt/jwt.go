package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when the JWT token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongTokenKind is returned when a token of one kind is presented where
	// another kind is required.
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Kind distinguishes access tokens from PIN session tokens.
type Kind string

const (
	// KindAccess is a session access token.
	KindAccess Kind = "access"
	// KindPinSession is a short-lived token proving a recent PIN check.
	KindPinSession Kind = "pin_session"
)

// JWT defines the operations needed by the app: generate and verify tokens
// of a given kind.
type JWT interface {
	// Generate creates a signed token of the given kind for the user.
	// version is the credential version embedded in the token (the account's
	// token version for access tokens, PIN version for PIN session tokens).
	Generate(uid int64, email string, kind Kind, version int32) (string, error)
	// Verify parses and validates the token, checks it is of the expected
	// kind, and returns claims.
	Verify(tokenStr string, kind Kind) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

type pinContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// AccessTTL is the access token time-to-live.
	AccessTTL time.Duration
	// PinSessionTTL is the PIN session token time-to-live.
	PinSessionTTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims is a helper for wrapping registered claims with a payload.
type Claims struct {
	// RegisteredClaims holds the standard JWT claims.
	jwt.RegisteredClaims
	// UserID is the authenticated user identifier.
	UserID int64 `json:"user_id,string"`
	// UserEmail is the authenticated user email.
	UserEmail string `json:"user_email"`
	// Kind tells access tokens apart from PIN session tokens.
	Kind Kind `json:"kind"`
	// Version is the credential version captured at issue time.
	Version int32 `json:"ver"`
}

// GetAuth returns the access-token claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores access-token claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}

// GetPinSession returns the PIN-session claims stored in the context, if any.
func GetPinSession(ctx context.Context) *Claims {
	clm, ok := ctx.Value(pinContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetPinSession stores PIN-session claims in the context.
func SetPinSession(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, pinContextKey{}, clm)
}

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wellness/internal/domain/session"
)

// Codec issues and verifies signed session tokens. Tokens are
// self-contained: subject, role, session id, issued-at and expiry.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration

	// Injectable for testing
	Now          func() time.Time
	NewSessionID func() string
}

// wireClaims is the on-the-wire claim layout. The short names match the
// original cookie contents so tokens stay interchangeable across
// deployments of the app.
type wireClaims struct {
	User string `json:"user"`
	Rol  string `json:"rol"`
	SID  string `json:"sid"`
	jwt.RegisteredClaims
}

// NewCodec creates a Codec for the given symmetric secret, algorithm
// name (e.g. "HS256") and token TTL.
// POST: Returns a codec, or an error for an unknown algorithm
func NewCodec(secret, algorithm string, ttl time.Duration) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}
	return &Codec{
		secret:       []byte(secret),
		method:       method,
		ttl:          ttl,
		Now:          time.Now,
		NewSessionID: func() string { return uuid.New().String() },
	}, nil
}

// Issue creates a signed token for the subject and role. When sessionID
// is empty a fresh unique one is generated. Pure computation, no side
// effects.
// POST: Returns the compact token and its decoded claims
func (c *Codec) Issue(subject, role, sessionID string) (string, session.Claims, error) {
	if sessionID == "" {
		sessionID = c.NewSessionID()
	}

	now := c.Now().UTC().Truncate(time.Second)
	exp := now.Add(c.ttl)

	claims := wireClaims{
		User: subject,
		Rol:  role,
		SID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", session.Claims{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, session.Claims{
		Subject:   subject,
		Role:      role,
		SessionID: sessionID,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify checks signature and expiry. An expired or tampered token is a
// normal, expected outcome and is reported as absent (ok=false, nil
// error); only unexpected decoding faults surface as an error.
// POST: Returns (claims, true, nil) only for a currently-valid token
func (c *Codec) Verify(tok string) (session.Claims, bool, error) {
	var claims wireClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}), jwt.WithTimeFunc(func() time.Time { return c.Now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) ||
			errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
			errors.Is(err, jwt.ErrTokenMalformed) ||
			errors.Is(err, jwt.ErrTokenNotValidYet) {
			return session.Claims{}, false, nil
		}
		return session.Claims{}, false, fmt.Errorf("failed to verify session token: %w", err)
	}

	out := session.Claims{
		Subject:   claims.User,
		Role:      claims.Rol,
		SessionID: claims.SID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, true, nil
}

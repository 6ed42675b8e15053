package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. The HTTP boundary collapses all three into one
// generic 401; the distinction exists for logging and tests only.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("invalid token signature")
	ErrExpired      = errors.New("token expired")
)

// Claim is the decoded identity carried by a verified token.
type Claim struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer mints and verifies signed bearer tokens. It holds the signing
// secret explicitly so tests can run with fixed keys; nothing here reads
// ambient process state.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with secret. Tokens expire ttl after
// issuance. Validating the secret (present, long enough) is the caller's
// startup-time job.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// TTL returns the configured validity window.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a signed token bound to userID and returns it with its
// expiry instant.
func (i *Issuer) Issue(userID int64) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	return signed, expires, err
}

// Verify checks signature and expiry of tokenString and returns the decoded
// claim. Returns ErrExpired, ErrBadSignature, or ErrMalformed on rejection;
// all are terminal and require re-authentication.
func (i *Issuer) Verify(tokenString string) (*Claim, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrBadSignature
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}

	claim := &Claim{UserID: userID}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		claim.ExpiresAt = claims.ExpiresAt.Time
	}
	return claim, nil
}

// Package token issues and verifies the signed bearer artifact asserting
// account, role and tenant. Tokens are not persisted and there is no
// revocation list; expiry is the only termination mechanism.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assetly/assetly-auth/internal/domain"
	"github.com/assetly/assetly-auth/internal/scope"
)

// ErrInvalidToken covers expired, malformed and badly signed tokens alike, so
// the response never tells a caller which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload of an access token.
type Claims struct {
	Role     string `json:"role"`
	TenantID int64  `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer with the given signing secret and validity
// window.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock overrides the issuer's time source. Used by tests to pin the
// expiry boundary.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// TTL returns the validity window applied to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a signed token for the identity.
func (i *Issuer) Issue(accountID int64, role domain.Role, tenantID int64) (string, error) {
	now := i.now()
	claims := &Claims{
		Role:     string(role),
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the identity it asserts.
// Every failure mode collapses into ErrInvalidToken.
func (i *Issuer) Verify(raw string) (scope.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return scope.Identity{}, ErrInvalidToken
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return scope.Identity{}, ErrInvalidToken
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return scope.Identity{}, ErrInvalidToken
	}

	return scope.Identity{AccountID: accountID, Role: role, TenantID: claims.TenantID}, nil
}

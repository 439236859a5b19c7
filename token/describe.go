// Package token reads and issues the bearer tokens exchanged with the
// prediction service.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
)

// Claims is what the client can tell about a token without the server key.
type Claims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the expiry has passed at now. A token without an
// expiry never reports as expired.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Describe decodes the claims of raw without verifying the signature. The
// result is for display only.
func Describe(raw string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, apierrors.Wrapf(err, "failed to decode token")
	}

	c := &Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		c.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		c.ExpiresAt = &t
	}
	return c, nil
}

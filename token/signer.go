package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
)

// HMACSigner issues and verifies HS256 access tokens whose subject is the
// account email.
type HMACSigner struct {
	secret []byte
	expiry time.Duration
}

// NewHMACSigner creates a signer with the given secret and token lifetime.
func NewHMACSigner(secret string, expiry time.Duration) *HMACSigner {
	return &HMACSigner{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue signs a token for subject.
func (h *HMACSigner) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.expiry)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", apierrors.Wrapf(err, "failed to sign token with HMAC")
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its subject.
func (h *HMACSigner) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, h.verificationKey); err != nil {
		return "", apierrors.Wrapf(err, "invalid token")
	}
	if claims.Subject == "" {
		return "", apierrors.Wrapf(apierrors.ErrInvalidRequest, "token has no subject")
	}
	return claims.Subject, nil
}

func (h *HMACSigner) verificationKey(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, apierrors.Wrapf(apierrors.ErrInvalidRequest, "unexpected signing method %v", t.Header["alg"])
	}
	return h.secret, nil
}

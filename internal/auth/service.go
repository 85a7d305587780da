// Package auth issues admin access tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	domainerrors "authorsite/internal/errors"
	"authorsite/internal/platform/crypto"
)

const accessTokenTTL = 8 * time.Hour

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = domainerrors.Unauthorized("invalid email or password")

// Service authenticates the single site administrator configured in the environment.
type Service struct {
	secret       string
	adminEmail   string
	passwordHash string
}

func NewService(secret, adminEmail, passwordHash string) *Service {
	return &Service{
		secret:       secret,
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
	}
}

// Login verifies the credentials and returns a bearer token and its lifetime in seconds.
func (s *Service) Login(_ context.Context, email, password string) (string, int, error) {
	if s.adminEmail == "" || s.passwordHash == "" {
		return "", 0, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(s.adminEmail)) == 1
	passwordOK := crypto.VerifyPassword(s.passwordHash, password)
	if !emailOK || !passwordOK {
		return "", 0, ErrInvalidCredentials
	}

	token, _, err := crypto.GenerateToken(s.secret, s.adminEmail, crypto.RoleAdmin, accessTokenTTL)
	if err != nil {
		return "", 0, domainerrors.Internal("generate token", err)
	}
	return token, int(accessTokenTTL.Seconds()), nil
}

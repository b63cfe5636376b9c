package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/mrlokans/shloka/internal/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotConfigured = errors.New("admin password hash is not configured")
	ErrAuthRequired       = errors.New("authentication required")
)

// Service verifies admin credentials.
type Service struct {
	username     string
	passwordHash string
}

// NewService creates a new authentication service.
func NewService(cfg config.Admin) *Service {
	return &Service{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
	}
}

// Configured reports whether an admin login is possible at all.
func (s *Service) Configured() bool {
	return s.username != "" && s.passwordHash != ""
}

// Authenticate checks the credentials and returns the admin name.
func (s *Service) Authenticate(username, password string) (string, error) {
	if !s.Configured() {
		return "", ErrAdminNotConfigured
	}

	// Always run bcrypt so a wrong username costs the same as a wrong password.
	pwErr := CheckPassword(password, s.passwordHash)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	if !userOK || pwErr != nil {
		if pwErr != nil && !errors.Is(pwErr, ErrInvalidPassword) {
			return "", pwErr
		}
		return "", ErrInvalidCredentials
	}
	return s.username, nil
}

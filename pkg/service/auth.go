package service

import (
	"github.com/campuslink/campus/cli/pkg/auth"
	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/logger"
	"github.com/campuslink/campus/cli/pkg/output"
)

// AuthService stores and clears the viewer's token
type AuthService struct {
	session *auth.Session
	out     *output.Printer
}

// NewAuthService creates a new auth service
func NewAuthService(session *auth.Session, out *output.Printer) *AuthService {
	return &AuthService{session: session, out: out}
}

// SetToken stores a bearer token for later commands
func (as *AuthService) SetToken(token string) error {
	if err := as.session.Store(token); err != nil {
		return err
	}
	logger.Debug("Token stored")
	as.out.Success("✓ Token saved")
	return nil
}

// Logout forgets the stored token
func (as *AuthService) Logout() error {
	if err := as.session.Clear(); err != nil {
		return err
	}
	client.ClearAuthToken()
	as.out.Success("✓ Logged out")
	return nil
}

package auth

import (
	"fmt"
	"strings"

	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/credentials"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
	"github.com/campuslink/campus/cli/pkg/logger"
)

const signInHint = "Run `campus-cli auth token <token>` with a token from the campus web app"

// Session reads and clears the stored token
type Session struct {
	load  func() (*credentials.Credentials, error)
	save  func(*credentials.Credentials) error
	clear func() error
}

// NewSession uses the credentials file in the config directory
func NewSession() *Session {
	return &Session{load: credentials.Load, save: credentials.Save, clear: credentials.Delete}
}

// Token returns the stored bearer token, or a validation error with a
// sign-in hint when there is none.
func (s *Session) Token() (string, error) {
	creds, err := s.load()
	if err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if !creds.IsValid() {
		return "", apperrors.Validation("token", "is missing or expired").WithSuggestion(signInHint)
	}
	return creds.Token, nil
}

// Store saves a token pasted by the viewer
func (s *Session) Store(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return apperrors.Validation("token", "cannot be empty")
	}
	return s.save(&credentials.Credentials{Token: token})
}

// Clear forgets the stored token
func (s *Session) Clear() error {
	return s.clear()
}

// IsSessionError reports whether the server refused the token
func IsSessionError(err error) bool {
	return err != nil && api.IsUnauthorized(err)
}

// HandleSessionError clears a rejected token so the next command asks
// for a new one. Other errors pass through unchanged.
func (s *Session) HandleSessionError(err error) error {
	if !IsSessionError(err) {
		return err
	}

	logger.Debug("Server rejected the stored token; clearing it")
	if clearErr := s.clear(); clearErr != nil {
		logger.Error("Failed to clear credentials", "error", clearErr)
	}

	if e := apperrors.Categorize(err); e != nil {
		return e.WithSuggestion(signInHint)
	}
	return err
}

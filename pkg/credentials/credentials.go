package credentials

import (
	"os"
	"time"

	json "github.com/json-iterator/go"

	"github.com/campuslink/campus/cli/pkg/config"
)

// Credentials is the stored bearer token of the signed-in viewer
type Credentials struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Load loads credentials from disk
func Load() (*Credentials, error) {
	return LoadFrom(config.GetCredentialsPath())
}

// LoadFrom loads credentials from path. A missing file is not an
// error; it yields nil.
func LoadFrom(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	return SaveTo(config.GetCredentialsPath(), creds)
}

// SaveTo writes credentials to path, readable by the owner only
func SaveTo(path string, creds *Credentials) error {
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Delete removes stored credentials. Deleting nothing is fine.
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsExpired reports whether a known expiry has passed
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials can be sent
func (c *Credentials) IsValid() bool {
	return c != nil && c.Token != "" && !c.IsExpired()
}

package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsIsExpired(t *testing.T) {
	testCases := []struct {
		name      string
		expiresAt time.Time
		expect    bool
	}{
		{"no expiry", time.Time{}, false},
		{"past expiration", time.Now().Add(-time.Hour), true},
		{"future expiration", time.Now().Add(time.Hour), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{Token: "tok", ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expect, creds.IsExpired())
		})
	}
}

func TestCredentialsIsValid(t *testing.T) {
	var missing *Credentials
	assert.False(t, missing.IsValid())
	assert.False(t, (&Credentials{}).IsValid())
	assert.True(t, (&Credentials{Token: "tok"}).IsValid())
	assert.False(t, (&Credentials{Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}).IsValid())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")

	require.NoError(t, SaveTo(path, &Credentials{Token: "tok", UserID: "u1"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	creds, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok", creds.Token)
	assert.Equal(t, "u1", creds.UserID)
	assert.False(t, creds.SavedAt.IsZero())
}

func TestLoadMissingFile(t *testing.T) {
	creds, err := LoadFrom(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

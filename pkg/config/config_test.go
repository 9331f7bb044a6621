package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestGetConfigDir validates config directory access
func TestGetConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}

	configDir := GetConfigDir()
	if configDir == "" {
		t.Fatal("Config directory should not be empty")
	}

	if _, err := os.Stat(configDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	expectedDir := filepath.Join(tempDir, "custom", "path")
	if GetConfigDir() != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, GetConfigDir())
	}
}

// TestCredentialsPathStructure validates credentials path structure
func TestCredentialsPathStructure(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "test_config")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	credsPath := GetCredentialsPath()
	if !filepath.IsAbs(credsPath) {
		t.Error("Credentials path should be absolute")
	}
	if !strings.HasPrefix(credsPath, GetConfigDir()) {
		t.Errorf("Credentials path %s should be under config dir %s", credsPath, GetConfigDir())
	}
}

// TestDefaults validates the defaults feeding Settings
func TestDefaults(t *testing.T) {
	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	s := Load()
	if s.BaseURL != "http://localhost:5000/api" {
		t.Errorf("Expected default base URL, got '%s'", s.BaseURL)
	}
	if s.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", s.Timeout)
	}
	if s.InboxInterval != 2*time.Second || s.ThreadInterval != 2*time.Second {
		t.Errorf("Expected 2s chat intervals, got inbox=%v thread=%v", s.InboxInterval, s.ThreadInterval)
	}
	if s.FeedInterval != 30*time.Second {
		t.Errorf("Expected 30s feed interval, got %v", s.FeedInterval)
	}
	if s.OrderedPolling {
		t.Error("Ordered polling should be off by default")
	}
	if s.LogLevel != "info" || s.OutputFormat != "text" {
		t.Errorf("Unexpected log level/output format: %s/%s", s.LogLevel, s.OutputFormat)
	}
	if filepath.Dir(s.LogFile) != tempDir {
		t.Errorf("Log file should live in config dir, got %s", s.LogFile)
	}
}

// TestUserConfigOverrides validates that the TOML file overrides defaults
func TestUserConfigOverrides(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.toml")
	content := "[api]\nbase_url = \"https://campus.example.edu/api\"\n\n[poll]\ninbox_interval_ms = 5000\nordered = true\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	s := Load()
	if s.BaseURL != "https://campus.example.edu/api" {
		t.Errorf("Expected base URL from file, got '%s'", s.BaseURL)
	}
	if s.InboxInterval != 5*time.Second {
		t.Errorf("Expected inbox interval 5s, got %v", s.InboxInterval)
	}
	if !s.OrderedPolling {
		t.Error("Expected ordered polling from file")
	}
	if s.ThreadInterval != 2*time.Second {
		t.Errorf("Thread interval should keep its default, got %v", s.ThreadInterval)
	}
}

// TestEnvOverrides validates CAMPUS_ prefixed environment overrides
func TestEnvOverrides(t *testing.T) {
	t.Setenv("CAMPUS_API_TIMEOUT", "5")

	tempDir := t.TempDir()
	if err := Init(filepath.Join(tempDir, "config.toml")); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if got := Load().Timeout; got != 5*time.Second {
		t.Errorf("Expected env timeout 5s, got %v", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/logs/campus.log"); got != filepath.Join(home, "logs/campus.log") {
		t.Errorf("expandPath: got %s", got)
	}
	if got := expandPath("/var/log/campus.log"); got != "/var/log/campus.log" {
		t.Errorf("expandPath should leave absolute paths alone, got %s", got)
	}
}

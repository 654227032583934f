package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"stash-go/internal/config"
)

func TestManager_ReadWrite(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig("https://stash.example.com", "app-1", "/tmp/log")
	cfg.APIKey = "secret"

	m := &config.Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *cfg {
		t.Errorf("round trip changed config:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestNewConfig_defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig("https://stash.example.com", "app-1", "/tmp/log")
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
}

func TestReadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stash.toml")
	content := "server_url = \"https://stash.example.com\"\napplication_id = \"app-1\"\ntimeout_seconds = 30\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if cfg.ServerURL != "https://stash.example.com" || cfg.ApplicationID != "app-1" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
}

func TestReadFromFile_missing(t *testing.T) {
	t.Parallel()

	if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "stash.toml")
	cfg := config.NewConfig("https://stash.example.com", "app-1", "")

	if err := config.Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// A second init must refuse to overwrite.
	if err := config.Init(path, cfg); err == nil {
		t.Fatal("expected error for existing config")
	}
}

func TestLoad_envOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stash.toml")
	content := "server_url = \"https://file.example.com\"\napplication_id = \"file-app\"\napi_key = \"file-key\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("STASH_SERVER_URL", "https://env.example.com")
	t.Setenv("STASH_API_KEY", "env-key")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerURL != "https://env.example.com" {
		t.Errorf("ServerURL = %q, environment must win", cfg.ServerURL)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, environment must win", cfg.APIKey)
	}
	if cfg.ApplicationID != "file-app" {
		t.Errorf("ApplicationID = %q, unset variables must leave file values", cfg.ApplicationID)
	}
}

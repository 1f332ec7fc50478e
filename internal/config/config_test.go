package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{BaseURL: "https://dash.example.com/api", DefaultProfile: "work", Timeout: 15 * time.Second}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", *loaded, *cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestResolveDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WPPDASH_BASE_URL", "")
	t.Setenv("WPPDASH_PROFILE", "")

	cfg, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %s, want 0", cfg.Timeout)
	}
}

func TestResolveEnvOverridesFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, &Config{BaseURL: "http://file", DefaultProfile: "file"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WPPDASH_BASE_URL", "http://env")
	t.Setenv("WPPDASH_TIMEOUT", "5s")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BaseURL != "http://env" {
		t.Errorf("BaseURL = %q, want http://env", cfg.BaseURL)
	}
	if cfg.DefaultProfile != "file" {
		t.Errorf("DefaultProfile = %q, want file", cfg.DefaultProfile)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
}

func TestResolveReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("WPPDASH_PROFILE", "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("WPPDASH_PROFILE=dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set, even to "".
	if err := os.Unsetenv("WPPDASH_PROFILE"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.DefaultProfile != "dotenv" {
		t.Errorf("DefaultProfile = %q, want dotenv", cfg.DefaultProfile)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

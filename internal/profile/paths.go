// Package profile locates the on-disk state of a named dashctl profile.
// Each profile has its own durable session and log file, so several
// accounts can be used side by side.
package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.wppdash.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wppdash")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// StatePath returns the durable key/value database for a profile.
func StatePath(name string) string {
	return filepath.Join(Dir(name), "state.db")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the CLI log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "dashctl.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	for _, d := range []string{Dir(name), LogDir(name)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

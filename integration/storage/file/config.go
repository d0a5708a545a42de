package file

import (
	"os"
	"path/filepath"
)

// Config holds the store location.
type Config struct {
	Dir string `env:"SESSION_FILE_DIR"`
}

// DefaultDir returns the per-user configuration directory for session files.
// It falls back to the working directory when the platform has none.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".sstu-db"
	}
	return filepath.Join(base, "sstu-db")
}

package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns $AMANELS_HOME/logs, or ~/.amanels/logs.
func DefaultLogDir() string {
	if dir := os.Getenv("AMANELS_HOME"); dir != "" {
		return filepath.Join(dir, "logs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".amanels", "logs")
	}
	return filepath.Join(home, ".amanels", "logs")
}

// DefaultLogPath returns the log file shared by the CLI and the MCP server.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "amanels.log")
}

package fileutils

import (
	"os"
	"path/filepath"
	"strings"
)

// EulaFile is the acceptance marker: a server directory counts as installed
// only once this file exists.
const EulaFile = "eula.txt"

// EulaAccepted reports whether dir carries an accepted marker.
func EulaAccepted(dir string) bool {
	content, err := os.ReadFile(filepath.Join(dir, EulaFile))
	return err == nil && strings.Contains(string(content), "eula=true")
}

// AcceptEula writes the marker, leaving an already-accepted one alone.
func AcceptEula(dir string) error {
	if EulaAccepted(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, EulaFile), []byte("eula=true\n"), 0644)
}

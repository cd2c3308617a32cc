package fileutils

import (
	"os"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "mcsm"
	keyringRootKey = "server_root"

	// DefaultServerRoot is used when no root was ever configured.
	DefaultServerRoot = "minecraft_server"
)

// ServerRoot returns the configured base directory for installed servers,
// falling back to the default when nothing is stored (or no keyring backend
// is available).
func ServerRoot() string {
	root, err := keyring.Get(keyringService, keyringRootKey)
	if err != nil || root == "" {
		return DefaultServerRoot
	}
	return root
}

// SetServerRoot stores the base directory and makes sure it exists.
func SetServerRoot(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return keyring.Set(keyringService, keyringRootKey, dir)
}

// Package files manages the backup directory tree: the output root plus one
// subdirectory per store. Creation is idempotent so same-date re-runs leave
// the tree untouched.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"onepage/pkg/contracts/domain"
)

// Manager provides backup tree operations rooted at the backup directory
type Manager struct {
	backupDir string
}

// NewManager creates a file manager for the given backup root
func NewManager(backupDir string) *Manager {
	return &Manager{backupDir: backupDir}
}

// BackupDir returns the backup root
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// StoreDir returns the backup subdirectory for a store
func (m *Manager) StoreDir(store domain.Store) string {
	return filepath.Join(m.backupDir, SafeName(store.Name))
}

// EnsureTree creates the backup root and one subdirectory per store
func (m *Manager) EnsureTree(stores []domain.Store) error {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	for _, store := range stores {
		dir := m.StoreDir(store)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory %q: %w", dir, err)
		}
		slog.Info("created store directory", slog.String("path", dir))
	}

	return nil
}

// ListBackupNames returns the entry names at the backup root
func (m *Manager) ListBackupNames() ([]string, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// SafeName turns a store name into a file-system safe path component
func SafeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
	)
	return strings.TrimSpace(replacer.Replace(name))
}

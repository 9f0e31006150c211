// Package config reads the persisted state the engine consumes: the lock
// file and per-dependency build manifests. Both are parsed here and handed
// to the engine as values; the engine itself never touches raw bytes.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depsolve/domain"
)

// LockFileName is the lock file kept next to the project configuration.
const LockFileName = "depsolve.lock"

// ReadLock parses the lock file of the project rooted at dir. A missing
// file is an empty lock, not an error.
func ReadLock(dir string) (map[string]*domain.LockEntry, error) {
	path := filepath.Join(dir, LockFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]*domain.LockEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file %q: %w", path, err)
	}

	var entries map[string]*domain.LockEntry
	if unmarshalErr := yaml.Unmarshal(data, &entries); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse lock file %q: %w", path, unmarshalErr)
	}
	if entries == nil {
		entries = map[string]*domain.LockEntry{}
	}
	return entries, nil
}

// WriteLock persists lock entries for the project rooted at dir. Used by
// the fetch tasks after a successful retrieval.
func WriteLock(dir string, entries map[string]*domain.LockEntry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode lock entries: %w", err)
	}
	path := filepath.Join(dir, LockFileName)
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write lock file %q: %w", path, writeErr)
	}
	return nil
}

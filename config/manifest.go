package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depsolve/domain"
)

// ToolVersion is the depsolve release recorded into build manifests.
const ToolVersion = "0.1.0"

// manifestRelPath is where each dependency's build manifest lives, relative
// to the dependency build directory.
const manifestRelPath = ".depsolve/manifest.yaml"

// ReadManifest parses the build manifest inside a dependency build
// directory. A dependency that was never compiled has no manifest; that is
// nil, not an error.
func ReadManifest(buildDir string) (*domain.Manifest, error) {
	path := filepath.Join(buildDir, manifestRelPath)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read build manifest %q: %w", path, err)
	}

	var manifest domain.Manifest
	if unmarshalErr := yaml.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse build manifest %q: %w", path, unmarshalErr)
	}
	return &manifest, nil
}

// WriteManifest records build metadata after a successful compile.
func WriteManifest(buildDir string, manifest *domain.Manifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode build manifest: %w", err)
	}
	path := filepath.Join(buildDir, manifestRelPath)
	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create manifest directory: %w", mkdirErr)
	}
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write build manifest %q: %w", path, writeErr)
	}
	return nil
}

// LanguageVersion is the toolchain version manifests are compared against.
func LanguageVersion() string { return ToolVersion }

// RuntimeVersion is the Go runtime the tool is running on.
func RuntimeVersion() string { return runtime.Version() }

// Package loader reads a project's declared dependencies from its
// configuration file and normalizes them into raw specs for the walker.
// Declarations come from depsolve.yaml (primary) or deps.hcl (alternative).
package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/domain"
)

// Configuration file names probed per project directory, in order.
var configNames = []string{"depsolve.yaml", "depsolve.yml", "deps.hcl"}

// Loader implements domain.SpecLoader against the filesystem.
type Loader struct {
	depsRoot  string // checkout root for fetched dependencies
	buildRoot string // build output root
}

// New creates a loader for a build rooted at rootDir: fetched dependencies
// live under rootDir/deps and builds under rootDir/_build.
func New(rootDir string) *Loader {
	return &Loader{
		depsRoot:  filepath.Join(rootDir, "deps"),
		buildRoot: filepath.Join(rootDir, "_build"),
	}
}

// LoadChildren parses the node's configuration file and returns its
// declarations in declaration order. A directory without a configuration
// file has no children; a file that fails to parse is a ConfigLoadError.
func (l *Loader) LoadChildren(_ context.Context, node domain.Node) ([]domain.RawDepSpec, error) {
	path, ok := findConfig(node.Dir)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigLoadError{Path: path, Err: err}
	}

	var specs []domain.RawDepSpec
	if filepath.Ext(path) == ".hcl" {
		specs, err = parseHCL(data, path)
	} else {
		specs, err = parseYAML(data, path)
	}
	if err != nil {
		return nil, err
	}

	for i := range specs {
		l.normalize(&specs[i], node)
	}
	logger.Debugf("loaded %d declarations from %s", len(specs), path)
	return specs, nil
}

// IsProject reports whether the node has its own configuration file.
func (l *Loader) IsProject(node domain.Node) bool {
	_, ok := findConfig(node.Dir)
	return ok
}

// normalize fills the derived option fields every later stage relies on:
// the requirement mirror, the checkout destination, and the build directory.
func (l *Loader) normalize(spec *domain.RawDepSpec, node domain.Node) {
	spec.Opts.Requirement = spec.Requirement
	if spec.Opts.Path != "" {
		spec.Opts.Dest = filepath.Clean(filepath.Join(node.Dir, spec.Opts.Path))
	} else if spec.Opts.Dest == "" {
		spec.Opts.Dest = filepath.Join(l.depsRoot, spec.App)
	}
	if spec.Opts.Build == "" {
		spec.Opts.Build = filepath.Join(l.buildRoot, "lib", spec.App)
	}
}

func findConfig(dir string) (string, bool) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// sortedEnv turns a parsed env map into a deterministic slice.
func sortedEnv(env map[string]string) []domain.EnvVar {
	if len(env) == 0 {
		return nil
	}
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	vars := make([]domain.EnvVar, 0, len(names))
	for _, name := range names {
		vars = append(vars, domain.EnvVar{Name: name, Value: env[name]})
	}
	return vars
}

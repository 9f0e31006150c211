package domain

import "context"

// SpecLoader abstracts reading a project's declared dependencies from its
// configuration. The walker calls it at most once per distinct node; parse
// failures must come back as a *ConfigLoadError.
type SpecLoader interface {
	// LoadChildren returns the declarations of the given project node in
	// declaration order. A node without a configuration file is not an
	// error: it simply has no children.
	LoadChildren(ctx context.Context, node Node) ([]RawDepSpec, error)

	// IsProject reports whether the node has its own configuration and is
	// therefore worth recursing into.
	IsProject(node Node) bool
}

// ManagerSniffer inspects a dependency checkout for build-tool evidence.
// Used by the converger to infer a manager when none is declared.
type ManagerSniffer interface {
	// Sniff returns the managers with positive evidence in the directory,
	// in ManagerPriority order. Empty when there is no evidence at all.
	Sniff(dir string) []Manager
}

// Package evaluator refines converged dependency statuses using lock and
// manifest data. Every transition is a pure function of the inputs; the
// evaluator holds no state between passes.
package evaluator

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/domain"
)

// Toolchain is the language/runtime pair manifests are compared against.
type Toolchain struct {
	LanguageVersion string
	RuntimeVersion  string
}

// Input carries everything a single evaluation needs besides the dependency
// itself. Lock and Manifest are nil when absent on disk.
type Input struct {
	Fetched   bool // the checkout exists at Opts.Dest
	Lock      *domain.LockEntry
	Manifest  *domain.Manifest
	Toolchain Toolchain
}

// Evaluate returns a copy of the dependency with its status refined through
// the lock and manifest state machine. Diverged and overridden dependencies
// pass through unchanged; their conflict has to be resolved first.
func Evaluate(dep domain.Dep, in Input) domain.Dep {
	if !dep.Available() {
		return dep
	}
	if !in.Fetched {
		return dep.WithStatus(domain.StatusUnavailable{})
	}

	switch dep.SCM.LockStatus(dep.Opts, in.Lock) {
	case domain.LockMismatch:
		if in.Lock == nil {
			return dep.WithStatus(domain.StatusNoLock{})
		}
		return dep.WithStatus(domain.StatusLockMismatch{})
	case domain.LockOutdated:
		return dep.WithStatus(domain.StatusLockOutdated{})
	case domain.LockOK:
		// fall through to the manifest check
	}

	return dep.WithStatus(manifestStatus(dep, in))
}

// manifestStatus runs the post-lock-ok part of the state machine: toolchain
// version, recorded SCM, then build freshness.
func manifestStatus(dep domain.Dep, in Input) domain.Status {
	m := in.Manifest
	if m == nil {
		return domain.StatusCompile{}
	}
	if m.LanguageVersion != in.Toolchain.LanguageVersion ||
		m.RuntimeVersion != in.Toolchain.RuntimeVersion {
		logger.Debugf("dependency %q built with toolchain %s/%s, current is %s/%s",
			dep.App, m.LanguageVersion, m.RuntimeVersion,
			in.Toolchain.LanguageVersion, in.Toolchain.RuntimeVersion)
		return domain.StatusVsnLock{Recorded: m.LanguageVersion}
	}
	if dep.SCM != nil && m.SCM != dep.SCM.Name() {
		return domain.StatusScmLock{Recorded: m.SCM}
	}
	if stale(m, in.Lock) {
		return domain.StatusCompile{}
	}
	return domain.StatusOK{}
}

// stale reports whether the build marker no longer matches the locked
// source revision.
func stale(m *domain.Manifest, lock *domain.LockEntry) bool {
	if lock == nil {
		return false
	}
	switch {
	case lock.Revision != "":
		return m.Revision != lock.Revision
	case lock.Version != "":
		return m.Revision != lock.Version
	default:
		return false
	}
}

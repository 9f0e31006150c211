package domain

import "fmt"

// Status classifies a converged dependency. Divergence and lock problems are
// reported through status values so a listing can still display every
// dependency; only ambiguous overrides and unloadable configurations abort a
// run. Implementations are small value records so diverged statuses can carry
// the conflicting declaration for diagnostics.
type Status interface {
	// Available reports whether fetch/compile may act on the dependency.
	Available() bool
	// Message renders the human diagnostic shown by the deps listing.
	Message() string
}

// StatusOK means the dependency is fetched, locked, and built.
type StatusOK struct{}

func (StatusOK) Available() bool { return true }
func (StatusOK) Message() string { return "ok" }

// StatusUnavailable means the dependency has not been fetched yet. It is
// still part of the available subset so a fetch can act on it.
type StatusUnavailable struct{}

func (StatusUnavailable) Available() bool { return true }
func (StatusUnavailable) Message() string {
	return `the dependency is not available, run "depsolve deps get"`
}

// StatusOverridden marks a declaration that lost to an overriding one.
type StatusOverridden struct {
	Winner *Dep
}

func (StatusOverridden) Available() bool { return false }
func (s StatusOverridden) Message() string {
	return fmt.Sprintf("the dependency is overridden by the declaration in %s", s.Winner.From)
}

// StatusDivergedReq means two declarations state incompatible requirements.
type StatusDivergedReq struct {
	Requirement string // the conflicting requirement
	Other       *Dep   // the conflicting declaration
}

func (StatusDivergedReq) Available() bool { return false }
func (s StatusDivergedReq) Message() string {
	return fmt.Sprintf(
		"the requirement %q declared in %s does not match the requirement of the first declaration",
		s.Requirement, s.Other.From,
	)
}

// StatusDivergedOnly means the :only restrictions of two declarations cannot
// be reconciled without narrowing one of them.
type StatusDivergedOnly struct {
	Other *Dep
}

func (StatusDivergedOnly) Available() bool { return false }
func (s StatusDivergedOnly) Message() string {
	return fmt.Sprintf(
		"the :only restriction of the declaration in %s diverges from the first declaration",
		s.Other.From,
	)
}

// StatusDivergedTargets is the :targets counterpart of StatusDivergedOnly.
type StatusDivergedTargets struct {
	Other *Dep
}

func (StatusDivergedTargets) Available() bool { return false }
func (s StatusDivergedTargets) Message() string {
	return fmt.Sprintf(
		"the :targets restriction of the declaration in %s diverges from the first declaration",
		s.Other.From,
	)
}

// StatusDiverged means requirements match but the declarations disagree on
// source or build options (different git URL, conflicting manager, ...).
type StatusDiverged struct {
	Other *Dep
}

func (StatusDiverged) Available() bool { return false }
func (s StatusDiverged) Message() string {
	return fmt.Sprintf(
		"the dependency options declared in %s diverge from the first declaration",
		s.Other.From,
	)
}

// StatusLockMismatch means the checkout does not match the lock entry.
type StatusLockMismatch struct{}

func (StatusLockMismatch) Available() bool { return false }
func (StatusLockMismatch) Message() string {
	return `the dependency does not match the lock, run "depsolve deps get"`
}

// StatusNoLock means the dependency has no entry in the lock file.
type StatusNoLock struct{}

func (StatusNoLock) Available() bool { return false }
func (StatusNoLock) Message() string {
	return `the dependency is not locked, run "depsolve deps get"`
}

// StatusLockOutdated means the lock entry predates the current declaration.
type StatusLockOutdated struct{}

func (StatusLockOutdated) Available() bool { return false }
func (StatusLockOutdated) Message() string {
	return `the lock is outdated, run "depsolve deps get"`
}

// StatusCompile means the dependency is fetched and locked but its build is
// missing or stale.
type StatusCompile struct{}

func (StatusCompile) Available() bool { return true }
func (StatusCompile) Message() string {
	return `the dependency build is outdated, run "depsolve deps compile"`
}

// StatusVsnLock means the dependency was built with a different language or
// runtime version than the current toolchain.
type StatusVsnLock struct {
	Recorded string // toolchain version recorded in the manifest
}

func (StatusVsnLock) Available() bool { return false }
func (s StatusVsnLock) Message() string {
	return fmt.Sprintf(
		"the dependency was built with toolchain %s which differs from the current one, "+
			`run "depsolve deps compile"`, s.Recorded,
	)
}

// StatusScmLock means the dependency was built from a different SCM than the
// one currently configured.
type StatusScmLock struct {
	Recorded string // SCM name recorded in the manifest
}

func (StatusScmLock) Available() bool { return false }
func (s StatusScmLock) Message() string {
	return fmt.Sprintf(
		"the dependency was fetched with %s while the configuration now states a different SCM, "+
			`run "depsolve deps get"`, s.Recorded,
	)
}

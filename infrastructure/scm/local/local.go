// Package local implements the path SCM: a dependency living in a local
// directory, used in place without fetching.
package local

import (
	"github.com/rios0rios0/depsolve/domain"
)

const scmName = "path"

// SCM handles path dependencies.
type SCM struct{}

// New creates the path SCM.
func New() domain.SCM { return &SCM{} }

func (s *SCM) Name() string { return scmName }

// Accepts matches declarations carrying a :path option.
func (s *SCM) Accepts(opts domain.Opts) bool { return opts.Path != "" }

// Fetchable is false: path dependencies are used where they live.
func (s *SCM) Fetchable() bool { return false }

// LockStatus checks that the lock, if present, still points at the declared
// directory. Path dependencies pin no revision, so an absent entry is fine.
func (s *SCM) LockStatus(opts domain.Opts, lock *domain.LockEntry) domain.LockStatus {
	if lock == nil {
		return domain.LockOK
	}
	if lock.SCM != scmName || lock.Path != opts.Path {
		return domain.LockMismatch
	}
	return domain.LockOK
}

// Format renders the declared directory.
func (s *SCM) Format(opts domain.Opts) string { return opts.Path }

// FormatLock returns "": there is nothing pinned worth showing.
func (s *SCM) FormatLock(_ *domain.LockEntry) string { return "" }

// Package git implements the git SCM: dependencies pinned to a remote
// repository by ref, branch, or tag.
package git

import (
	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/depsolve/domain"
)

const (
	scmName     = "git"
	shortRevLen = 7
)

// SCM handles git dependencies. It opens existing checkouts to compare
// revisions but never fetches; retrieval belongs to the deps get task.
type SCM struct{}

// New creates the git SCM.
func New() domain.SCM { return &SCM{} }

func (s *SCM) Name() string { return scmName }

// Accepts matches declarations carrying a :git URL.
func (s *SCM) Accepts(opts domain.Opts) bool { return opts.Git != "" }

func (s *SCM) Fetchable() bool { return true }

// LockStatus compares the lock entry against the declaration and, when a
// checkout exists, against its HEAD revision. A lock taken for a different
// URL or revision is a mismatch; a lock taken before the declared ref
// changed is outdated.
func (s *SCM) LockStatus(opts domain.Opts, lock *domain.LockEntry) domain.LockStatus {
	if lock == nil || lock.SCM != scmName {
		return domain.LockMismatch
	}
	if lock.URL != opts.Git {
		return domain.LockMismatch
	}
	if head := headRevision(opts.Dest); head != "" && head != lock.Revision {
		return domain.LockMismatch
	}
	if lock.Ref != requestedRef(opts) {
		return domain.LockOutdated
	}
	return domain.LockOK
}

// Format renders the remote URL with the requested ref, if any.
func (s *SCM) Format(opts domain.Opts) string {
	if ref := requestedRef(opts); ref != "" {
		return opts.Git + " - " + ref
	}
	return opts.Git
}

// FormatLock renders the pinned revision, shortened the way git log does.
func (s *SCM) FormatLock(lock *domain.LockEntry) string {
	if lock == nil || lock.Revision == "" {
		return ""
	}
	rev := lock.Revision
	if len(rev) > shortRevLen {
		rev = rev[:shortRevLen]
	}
	if lock.Ref != "" {
		return rev + " (" + lock.Ref + ")"
	}
	return rev
}

// requestedRef normalizes the declared pin into the form recorded in lock
// entries. Precedence mirrors the declaration keys: ref, then tag, then
// branch.
func requestedRef(opts domain.Opts) string {
	switch {
	case opts.Ref != "":
		return opts.Ref
	case opts.Tag != "":
		return "tag:" + opts.Tag
	case opts.Branch != "":
		return "branch:" + opts.Branch
	default:
		return ""
	}
}

// headRevision returns the HEAD commit of the checkout at dir, or "" when
// there is no usable repository there.
func headRevision(dir string) string {
	if dir == "" {
		return ""
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}

// Package release implements the registry SCM: dependencies resolved from a
// versioned release index on disk, laid out as <index>/<app>/<version>/.
package release

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/depsolve/domain"
)

const scmName = "registry"

// SCM handles registry dependencies against a local release index.
type SCM struct {
	index string
}

// New creates the registry SCM over the given index directory.
func New(indexDir string) *SCM { return &SCM{index: indexDir} }

func (s *SCM) Name() string { return scmName }

// Accepts is the fallback: declarations naming neither a git URL nor a path
// resolve through the registry.
func (s *SCM) Accepts(opts domain.Opts) bool {
	return opts.Git == "" && opts.Path == ""
}

func (s *SCM) Fetchable() bool { return true }

// LockStatus checks the lock entry against the declared requirement and the
// index. A locked release that fell out of the index is outdated; one that
// no longer satisfies the requirement, or that lost its checksum, is a
// mismatch.
func (s *SCM) LockStatus(opts domain.Opts, lock *domain.LockEntry) domain.LockStatus {
	if lock == nil || lock.SCM != scmName || lock.Version == "" || lock.Checksum == "" {
		return domain.LockMismatch
	}
	if !satisfies(lock.Version, opts.Requirement) {
		return domain.LockMismatch
	}
	if len(s.Versions(lockApp(lock, opts))) > 0 && !s.hasRelease(lockApp(lock, opts), lock.Version) {
		return domain.LockOutdated
	}
	return domain.LockOK
}

// Format renders the declared requirement.
func (s *SCM) Format(opts domain.Opts) string {
	if opts.Requirement == "" {
		return "any version"
	}
	return opts.Requirement
}

// FormatLock renders the pinned release.
func (s *SCM) FormatLock(lock *domain.LockEntry) string {
	if lock == nil || lock.Version == "" {
		return ""
	}
	return lock.Version
}

// Versions lists the releases of an app present in the index, newest first.
func (s *SCM) Versions(app string) []string {
	if app == "" {
		return nil
	}
	entries, err := os.ReadDir(filepath.Join(s.index, app))
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() && semver.IsValid(normalize(e.Name())) {
			versions = append(versions, e.Name())
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(normalize(versions[i]), normalize(versions[j])) > 0
	})
	return versions
}

// Resolve picks the newest release satisfying the requirement, or "" when
// nothing in the index matches.
func (s *SCM) Resolve(app, requirement string) string {
	for _, v := range s.Versions(app) {
		if satisfies(v, requirement) {
			return v
		}
	}
	return ""
}

func (s *SCM) hasRelease(app, release string) bool {
	for _, v := range s.Versions(app) {
		if v == release {
			return true
		}
	}
	return false
}

// lockApp recovers the app name for index lookups. Lock entries do not
// repeat the app name, so it rides along in the declaration's dest path.
func lockApp(_ *domain.LockEntry, opts domain.Opts) string {
	if opts.Dest == "" {
		return ""
	}
	return filepath.Base(opts.Dest)
}

// satisfies checks a release against a version constraint. Unparsable input
// falls back to exact string comparison, matching how pinned non-semver
// releases behave.
func satisfies(release, requirement string) bool {
	if strings.TrimSpace(requirement) == "" {
		return true
	}
	constraint, err := version.NewConstraint(requirement)
	if err != nil {
		return release == requirement
	}
	v, err := version.NewVersion(release)
	if err != nil {
		return false
	}
	return constraint.Check(v)
}

// normalize gives a release name the "v" prefix x/mod/semver expects.
func normalize(release string) string {
	if strings.HasPrefix(release, "v") {
		return release
	}
	return "v" + release
}

package release_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depsolve/domain"
	"github.com/rios0rios0/depsolve/infrastructure/scm/release"
)

// newIndex lays out a release index with the given versions of one app.
func newIndex(t *testing.T, app string, versions ...string) string {
	t.Helper()

	index := t.TempDir()
	for _, v := range versions {
		require.NoError(t, os.MkdirAll(filepath.Join(index, app, v), 0o755))
	}
	return index
}

func TestVersions(t *testing.T) {
	t.Parallel()

	t.Run("should list releases newest first", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "1.1.2", "2.9.0", "2.10.0"))

		// when
		versions := scm.Versions("cowboy")

		// then
		assert.Equal(t, []string{"2.10.0", "2.9.0", "1.1.2"}, versions)
	})

	t.Run("should skip entries that are not releases", func(t *testing.T) {
		t.Parallel()

		// given
		index := newIndex(t, "cowboy", "2.9.0")
		require.NoError(t, os.MkdirAll(filepath.Join(index, "cowboy", "scratch"), 0o755))
		scm := release.New(index)

		// when
		versions := scm.Versions("cowboy")

		// then
		assert.Equal(t, []string{"2.9.0"}, versions)
	})

	t.Run("should return nothing for an unknown app", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(t.TempDir())

		// when // then
		assert.Empty(t, scm.Versions("ghost"))
		assert.Empty(t, scm.Versions(""))
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("should pick the newest release satisfying the requirement", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "1.1.2", "2.9.0", "2.10.0"))

		// when // then
		assert.Equal(t, "1.1.2", scm.Resolve("cowboy", "~> 1.0"))
		assert.Equal(t, "2.10.0", scm.Resolve("cowboy", ">= 2.0"))
		assert.Equal(t, "2.10.0", scm.Resolve("cowboy", ""))
		assert.Empty(t, scm.Resolve("cowboy", ">= 3.0"))
	})
}

func TestLockStatus(t *testing.T) {
	t.Parallel()

	opts := domain.Opts{Requirement: "~> 2.0", Dest: "/tmp/project/deps/cowboy"}
	locked := &domain.LockEntry{SCM: "registry", Version: "2.9.0", Checksum: "sha256:feed"}

	t.Run("should reject a missing or foreign lock entry", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "2.9.0"))

		// when // then
		assert.Equal(t, domain.LockMismatch, scm.LockStatus(opts, nil))
		assert.Equal(t, domain.LockMismatch,
			scm.LockStatus(opts, &domain.LockEntry{SCM: "git", Revision: "abc"}))
	})

	t.Run("should reject an entry without a checksum", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "2.9.0"))

		// when
		status := scm.LockStatus(opts, &domain.LockEntry{SCM: "registry", Version: "2.9.0"})

		// then
		assert.Equal(t, domain.LockMismatch, status)
	})

	t.Run("should reject a pinned release outside the requirement", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "1.1.2"))
		lock := &domain.LockEntry{SCM: "registry", Version: "1.1.2", Checksum: "sha256:feed"}

		// when
		status := scm.LockStatus(opts, lock)

		// then
		assert.Equal(t, domain.LockMismatch, status)
	})

	t.Run("should flag a pinned release that fell out of the index", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "2.10.0"))

		// when
		status := scm.LockStatus(opts, locked)

		// then
		assert.Equal(t, domain.LockOutdated, status)
	})

	t.Run("should accept a pinned release still present and in range", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(newIndex(t, "cowboy", "2.9.0", "2.10.0"))

		// when
		status := scm.LockStatus(opts, locked)

		// then
		assert.Equal(t, domain.LockOK, status)
	})

	t.Run("should trust the pin when the index is unreachable", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(filepath.Join(t.TempDir(), "missing"))

		// when
		status := scm.LockStatus(opts, locked)

		// then
		assert.Equal(t, domain.LockOK, status)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("should render requirement and pinned release", func(t *testing.T) {
		t.Parallel()

		// given
		scm := release.New(t.TempDir())

		// when // then
		assert.Equal(t, "~> 2.0", scm.Format(domain.Opts{Requirement: "~> 2.0"}))
		assert.Equal(t, "any version", scm.Format(domain.Opts{}))
		assert.Equal(t, "2.9.0", scm.FormatLock(&domain.LockEntry{Version: "2.9.0"}))
		assert.Empty(t, scm.FormatLock(nil))
	})
}

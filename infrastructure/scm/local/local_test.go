package local_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depsolve/domain"
	"github.com/rios0rios0/depsolve/infrastructure/scm/local"
)

func TestLockStatus(t *testing.T) {
	t.Parallel()

	opts := domain.Opts{Path: "../sibling"}

	t.Run("should accept a missing lock entry", func(t *testing.T) {
		t.Parallel()

		// given
		scm := local.New()

		// when
		status := scm.LockStatus(opts, nil)

		// then
		assert.Equal(t, domain.LockOK, status)
	})

	t.Run("should accept an entry pointing at the declared directory", func(t *testing.T) {
		t.Parallel()

		// given
		scm := local.New()

		// when
		status := scm.LockStatus(opts, &domain.LockEntry{SCM: "path", Path: "../sibling"})

		// then
		assert.Equal(t, domain.LockOK, status)
	})

	t.Run("should reject an entry taken for another SCM", func(t *testing.T) {
		t.Parallel()

		// given
		scm := local.New()

		// when
		status := scm.LockStatus(opts, &domain.LockEntry{SCM: "git", Revision: "abc"})

		// then
		assert.Equal(t, domain.LockMismatch, status)
	})

	t.Run("should reject an entry pointing at another directory", func(t *testing.T) {
		t.Parallel()

		// given
		scm := local.New()

		// when
		status := scm.LockStatus(opts, &domain.LockEntry{SCM: "path", Path: "../elsewhere"})

		// then
		assert.Equal(t, domain.LockMismatch, status)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	t.Run("should render the declared directory and pin nothing", func(t *testing.T) {
		t.Parallel()

		// given
		scm := local.New()

		// when // then
		assert.Equal(t, "../sibling", scm.Format(domain.Opts{Path: "../sibling"}))
		assert.Empty(t, scm.FormatLock(&domain.LockEntry{SCM: "path", Path: "../sibling"}))
		assert.False(t, scm.Fetchable())
	})
}

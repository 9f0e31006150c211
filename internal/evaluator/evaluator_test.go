package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depsolve/domain"
	"github.com/rios0rios0/depsolve/internal/evaluator"
	testdoubles "github.com/rios0rios0/depsolve/test"
)

var toolchain = evaluator.Toolchain{LanguageVersion: "0.1.0", RuntimeVersion: "go1.26"}

func dep(status domain.Status, lockStatus domain.LockStatus) domain.Dep {
	return domain.Dep{
		App:    "a",
		Status: status,
		SCM:    &testdoubles.StubSCM{SCMName: "git", CanFetch: true, Status: lockStatus},
	}
}

func manifest() *domain.Manifest {
	return &domain.Manifest{
		LanguageVersion: toolchain.LanguageVersion,
		RuntimeVersion:  toolchain.RuntimeVersion,
		SCM:             "git",
		Revision:        "abc123",
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("should leave diverged dependencies unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		other := domain.Dep{App: "a", From: "b/depsolve.yaml"}
		diverged := dep(domain.StatusDivergedReq{Requirement: "~> 2.0", Other: &other}, domain.LockOK)

		// when
		result := evaluator.Evaluate(diverged, evaluator.Input{Fetched: true, Toolchain: toolchain})

		// then
		assert.Equal(t, diverged.Status, result.Status)
	})

	t.Run("should keep unfetched dependencies unavailable", func(t *testing.T) {
		t.Parallel()

		// given
		unfetched := dep(domain.StatusUnavailable{}, domain.LockOK)

		// when
		result := evaluator.Evaluate(unfetched, evaluator.Input{Fetched: false, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusUnavailable{}, result.Status)
	})

	t.Run("should report nolock on mismatch without a lock entry", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockMismatch)

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Lock: nil, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusNoLock{}, result.Status)
	})

	t.Run("should report lockmismatch on mismatch with a lock entry", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockMismatch)
		lock := &domain.LockEntry{SCM: "git", Revision: "abc123"}

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Lock: lock, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusLockMismatch{}, result.Status)
	})

	t.Run("should report lockoutdated when the scm says so", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOutdated)
		lock := &domain.LockEntry{SCM: "git", Revision: "abc123"}

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Lock: lock, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusLockOutdated{}, result.Status)
	})

	t.Run("should report compile when the manifest is missing", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusCompile{}, result.Status)
	})

	t.Run("should report vsnlock on a toolchain change", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)
		m := manifest()
		m.LanguageVersion = "0.0.9"

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Manifest: m, Toolchain: toolchain})

		// then
		status, ok := result.Status.(domain.StatusVsnLock)
		require.True(t, ok, "expected vsnlock, got %T", result.Status)
		assert.Equal(t, "0.0.9", status.Recorded)
	})

	t.Run("should report scmlock when the manifest records another scm", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)
		m := manifest()
		m.SCM = "path"

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Manifest: m, Toolchain: toolchain})

		// then
		status, ok := result.Status.(domain.StatusScmLock)
		require.True(t, ok, "expected scmlock, got %T", result.Status)
		assert.Equal(t, "path", status.Recorded)
	})

	t.Run("should report compile when the build marker is stale", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)
		lock := &domain.LockEntry{SCM: "git", Revision: "def456"}

		// when: manifest was built from abc123, lock now pins def456
		result := evaluator.Evaluate(d, evaluator.Input{
			Fetched: true, Lock: lock, Manifest: manifest(), Toolchain: toolchain,
		})

		// then
		assert.IsType(t, domain.StatusCompile{}, result.Status)
	})

	t.Run("should report ok when lock and manifest both match", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)
		lock := &domain.LockEntry{SCM: "git", Revision: "abc123"}

		// when
		result := evaluator.Evaluate(d, evaluator.Input{
			Fetched: true, Lock: lock, Manifest: manifest(), Toolchain: toolchain,
		})

		// then
		assert.IsType(t, domain.StatusOK{}, result.Status)
	})

	t.Run("should return a copy and leave the input untouched", func(t *testing.T) {
		t.Parallel()

		// given
		d := dep(domain.StatusUnavailable{}, domain.LockOK)

		// when
		result := evaluator.Evaluate(d, evaluator.Input{Fetched: true, Toolchain: toolchain})

		// then
		assert.IsType(t, domain.StatusUnavailable{}, d.Status, "input dependency is immutable")
		assert.IsType(t, domain.StatusCompile{}, result.Status)
	})
}

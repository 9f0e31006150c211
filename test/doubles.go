// Package testdoubles provides hand-crafted test doubles (spies, stubs,
// dummies) for the domain interfaces.
package testdoubles

import (
	"context"

	"github.com/rios0rios0/depsolve/domain"
)

// ---------------------------------------------------------------------------
// SpyLoader
// ---------------------------------------------------------------------------

// SpyLoader implements domain.SpecLoader from an in-memory map of
// declarations keyed by project directory. It records every load so tests
// can verify memoization.
type SpyLoader struct {
	// Specs maps a directory to the declarations its configuration states.
	// A directory absent from the map is not a project.
	Specs map[string][]domain.RawDepSpec

	// Errs maps a directory to the error its load should fail with.
	Errs map[string]error

	// spy: directories requested, in order, including repeats
	Loaded []string
}

func (l *SpyLoader) LoadChildren(_ context.Context, node domain.Node) ([]domain.RawDepSpec, error) {
	l.Loaded = append(l.Loaded, node.Dir)
	if err, ok := l.Errs[node.Dir]; ok {
		return nil, err
	}
	return l.Specs[node.Dir], nil
}

func (l *SpyLoader) IsProject(node domain.Node) bool {
	_, ok := l.Specs[node.Dir]
	if !ok {
		_, ok = l.Errs[node.Dir]
	}
	return ok
}

// LoadCount returns how many times a directory was loaded.
func (l *SpyLoader) LoadCount(dir string) int {
	count := 0
	for _, loaded := range l.Loaded {
		if loaded == dir {
			count++
		}
	}
	return count
}

// ---------------------------------------------------------------------------
// StubSCM
// ---------------------------------------------------------------------------

// StubSCM implements domain.SCM with canned answers.
type StubSCM struct {
	SCMName       string
	AcceptsAll    bool
	CanFetch      bool
	Status        domain.LockStatus
	Formatted     string
	FormattedLock string
}

func (s *StubSCM) Name() string { return s.SCMName }

func (s *StubSCM) Accepts(_ domain.Opts) bool { return s.AcceptsAll }

func (s *StubSCM) Fetchable() bool { return s.CanFetch }

func (s *StubSCM) LockStatus(_ domain.Opts, _ *domain.LockEntry) domain.LockStatus {
	return s.Status
}

func (s *StubSCM) Format(_ domain.Opts) string { return s.Formatted }

func (s *StubSCM) FormatLock(_ *domain.LockEntry) string { return s.FormattedLock }

// ---------------------------------------------------------------------------
// StubResolver
// ---------------------------------------------------------------------------

// StubResolver resolves every declaration to the same SCM.
type StubResolver struct {
	SCM domain.SCM
	Err error
}

func (r *StubResolver) For(_ domain.Opts) (domain.SCM, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.SCM, nil
}

// ---------------------------------------------------------------------------
// StubSniffer
// ---------------------------------------------------------------------------

// StubSniffer returns fixed manager evidence per directory.
type StubSniffer struct {
	Evidence map[string][]domain.Manager
}

func (s *StubSniffer) Sniff(dir string) []domain.Manager {
	return s.Evidence[dir]
}

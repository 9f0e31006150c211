// Package cache holds fully evaluated convergence results keyed by project
// identity and execution context, so repeated queries and nested sub-project
// builds avoid recomputation.
package cache

import (
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/domain"
)

// Key identifies one converged result: a project and the execution context
// it was converged for.
type Key struct {
	Project string // project identity, normally the root directory
	Env     string
	Target  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Project, k.Env, k.Target)
}

// entry is one in-flight or finished computation. ready is closed once deps
// and err are final.
type entry struct {
	ready chan struct{}
	deps  []domain.Dep
	err   error
}

// ResultCache is the only shared mutable resource of the engine. It supports
// concurrent reads and serializes computation per key: when two callers race
// on the same key, the second waits for and observes the first's result.
// Entries never expire; callers invalidate explicitly after any action that
// could change the forest.
type ResultCache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// New creates an empty result cache. The cache is owned by the top-level
// build context and passed by reference, never reached as ambient state.
func New() *ResultCache {
	return &ResultCache{entries: make(map[Key]*entry)}
}

// GetOrCompute returns the cached result for key, computing it with fn on a
// miss. fn runs at most once per key until the key is invalidated.
func (c *ResultCache) GetOrCompute(key Key, fn func() ([]domain.Dep, error)) ([]domain.Dep, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.ready
		return e.deps, e.err
	}

	e := &entry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.deps, e.err = fn()
	close(e.ready)

	if e.err != nil {
		// Failed computations are not cached: the next caller retries.
		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	return e.deps, e.err
}

// Get returns the finished result for key without computing anything.
func (c *ResultCache) Get(key Key) ([]domain.Dep, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	<-e.ready
	if e.err != nil {
		return nil, false
	}
	return e.deps, true
}

// Invalidate drops the entry for key. In-flight waiters still observe the
// result they were waiting on; only future lookups recompute.
func (c *ResultCache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	logger.Debugf("invalidated convergence cache entry %s", key)
}

// ChildSubtree serves a nested sub-project build: it extracts the subtree
// rooted at app from the cached top-level result and re-derives the
// top-level and optional flags relative to the sub-root. The top-level
// convergence must already be cached; a miss here is a configuration error,
// not a reason to re-walk.
func (c *ResultCache) ChildSubtree(key Key, app string) ([]domain.Dep, error) {
	deps, ok := c.Get(key)
	if !ok {
		return nil, fmt.Errorf(
			"no cached convergence for %s: converge the top-level project before building %q",
			key, app,
		)
	}

	sub, found := findDep(deps, app)
	if !found {
		return nil, &domain.UnknownDependencyError{Apps: []string{app}, Env: key.Env}
	}

	children := make([]domain.Dep, len(sub.Children))
	for i, child := range sub.Children {
		child.TopLevel = true
		// The promoted record keeps its Opts.Optional: children trees carry
		// the declaring occurrence's flag, which is the sub-root's own
		// declaration here.
		child.Children = stripBelowTop(child.Children)
		children[i] = child
	}
	return children, nil
}

// findDep searches the converged flat list first, then descends through
// children trees by ancestor membership.
func findDep(deps []domain.Dep, app string) (domain.Dep, bool) {
	for _, dep := range deps {
		if dep.App == app {
			return dep, true
		}
	}
	for _, dep := range deps {
		if found, ok := findDep(dep.Children, app); ok {
			return found, ok
		}
	}
	return domain.Dep{}, false
}

// stripBelowTop clears flags that only hold relative to the original root.
func stripBelowTop(deps []domain.Dep) []domain.Dep {
	out := make([]domain.Dep, len(deps))
	for i, dep := range deps {
		dep.TopLevel = false
		dep.Opts.Optional = false
		dep.Children = stripBelowTop(dep.Children)
		out[i] = dep
	}
	return out
}

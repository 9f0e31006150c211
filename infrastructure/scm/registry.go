// Package scm manages the registered fetch strategies and resolves which one
// handles a given declaration.
package scm

import (
	"fmt"

	"github.com/rios0rios0/depsolve/domain"
)

// Registry holds the available SCM implementations in priority order. The
// first SCM accepting a declaration's options wins; prepended SCMs take
// priority over the built-in ones.
type Registry struct {
	scms []domain.SCM
}

// NewRegistry creates a registry with the given SCMs, highest priority first.
func NewRegistry(scms ...domain.SCM) *Registry {
	return &Registry{scms: scms}
}

// Prepend registers an SCM ahead of every existing one.
func (r *Registry) Prepend(s domain.SCM) {
	r.scms = append([]domain.SCM{s}, r.scms...)
}

// For resolves the fetch strategy for a declaration.
func (r *Registry) For(opts domain.Opts) (domain.SCM, error) {
	for _, s := range r.scms {
		if s.Accepts(opts) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no SCM accepts the declaration options (git=%q path=%q)",
		opts.Git, opts.Path)
}

// Get returns the SCM registered under the given name, or nil.
func (r *Registry) Get(name string) domain.SCM {
	for _, s := range r.scms {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Names returns the registered SCM names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scms))
	for _, s := range r.scms {
		names = append(names, s.Name())
	}
	return names
}

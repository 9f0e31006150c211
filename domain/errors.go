package domain

import (
	"fmt"
	"strings"
)

// ConfigLoadError means a project's declarations could not be parsed. It is
// fatal to the whole convergence: no partial forest is ever returned.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("could not load dependency configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// AmbiguousOverrideError means two declarations for the same app both claim
// override. There is no rule to pick a winner, so the run aborts naming both
// declaration sites.
type AmbiguousOverrideError struct {
	App    string
	First  string // declaration site of the first override
	Second string // declaration site of the second override
}

func (e *AmbiguousOverrideError) Error() string {
	return fmt.Sprintf(
		"dependency %q is overridden in both %s and %s, remove one of the :override flags",
		e.App, e.First, e.Second,
	)
}

// UnknownDependencyError is returned when a caller filters the converged set
// by names that are not part of it. Recoverable: the converged set itself is
// intact, only the filter failed.
type UnknownDependencyError struct {
	Apps []string
	Env  string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf(
		"unknown dependency %s for environment %q",
		strings.Join(e.Apps, ", "), e.Env,
	)
}

// ScmQueryError wraps a collaborator failure while evaluating one
// dependency. It never aborts evaluation of siblings.
type ScmQueryError struct {
	App string
	Err error
}

func (e *ScmQueryError) Error() string {
	return fmt.Sprintf("scm query failed for dependency %q: %v", e.App, e.Err)
}

func (e *ScmQueryError) Unwrap() error { return e.Err }

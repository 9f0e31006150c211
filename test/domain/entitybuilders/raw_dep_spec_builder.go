package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/depsolve/domain"
)

// RawDepSpecBuilder helps create test declarations with a fluent interface.
type RawDepSpecBuilder struct {
	*testkit.BaseBuilder
	app         string
	requirement string
	from        string
	opts        domain.Opts
}

// NewRawDepSpecBuilder creates a new declaration builder with sensible defaults.
func NewRawDepSpecBuilder() *RawDepSpecBuilder {
	return &RawDepSpecBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		app:         "test-dep",
		requirement: "~> 1.0",
		from:        "depsolve.yaml",
	}
}

// WithApp sets the app name.
func (b *RawDepSpecBuilder) WithApp(app string) *RawDepSpecBuilder {
	b.app = app
	return b
}

// WithRequirement sets the version requirement.
func (b *RawDepSpecBuilder) WithRequirement(requirement string) *RawDepSpecBuilder {
	b.requirement = requirement
	return b
}

// WithFrom sets the declaration site.
func (b *RawDepSpecBuilder) WithFrom(from string) *RawDepSpecBuilder {
	b.from = from
	return b
}

// WithOverride marks the declaration as overriding.
func (b *RawDepSpecBuilder) WithOverride() *RawDepSpecBuilder {
	b.opts.Override = true
	return b
}

// WithOptional marks the declaration as optional.
func (b *RawDepSpecBuilder) WithOptional() *RawDepSpecBuilder {
	b.opts.Optional = true
	return b
}

// WithOnly restricts the declaration to the given environments.
func (b *RawDepSpecBuilder) WithOnly(envs ...string) *RawDepSpecBuilder {
	b.opts.Only = envs
	return b
}

// WithTargets restricts the declaration to the given targets.
func (b *RawDepSpecBuilder) WithTargets(targets ...string) *RawDepSpecBuilder {
	b.opts.Targets = targets
	return b
}

// WithGit sets the git remote URL.
func (b *RawDepSpecBuilder) WithGit(url string) *RawDepSpecBuilder {
	b.opts.Git = url
	return b
}

// WithPath sets the local path.
func (b *RawDepSpecBuilder) WithPath(path string) *RawDepSpecBuilder {
	b.opts.Path = path
	return b
}

// WithDest sets the checkout destination.
func (b *RawDepSpecBuilder) WithDest(dest string) *RawDepSpecBuilder {
	b.opts.Dest = dest
	return b
}

// WithManager sets the explicit manager.
func (b *RawDepSpecBuilder) WithManager(manager domain.Manager) *RawDepSpecBuilder {
	b.opts.Manager = manager
	return b
}

// WithSystemEnv adds a system environment variable.
func (b *RawDepSpecBuilder) WithSystemEnv(name, value string) *RawDepSpecBuilder {
	b.opts.SystemEnv = append(b.opts.SystemEnv, domain.EnvVar{Name: name, Value: value})
	return b
}

// Build creates the declaration (satisfies testkit.Builder interface).
func (b *RawDepSpecBuilder) Build() interface{} {
	return b.BuildRawDepSpec()
}

// BuildRawDepSpec creates the declaration with a concrete return type.
func (b *RawDepSpecBuilder) BuildRawDepSpec() domain.RawDepSpec {
	opts := b.opts
	opts.Requirement = b.requirement
	return domain.RawDepSpec{
		App:         b.app,
		Requirement: b.requirement,
		Opts:        opts,
		From:        b.from,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RawDepSpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.app = "test-dep"
	b.requirement = "~> 1.0"
	b.from = "depsolve.yaml"
	b.opts = domain.Opts{}
	return b
}

// Clone creates a deep copy of the RawDepSpecBuilder.
func (b *RawDepSpecBuilder) Clone() testkit.Builder {
	clone := &RawDepSpecBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		app:         b.app,
		requirement: b.requirement,
		from:        b.from,
		opts:        b.opts,
	}
	clone.opts.Only = append([]string(nil), b.opts.Only...)
	clone.opts.Targets = append([]string(nil), b.opts.Targets...)
	clone.opts.SystemEnv = append([]domain.EnvVar(nil), b.opts.SystemEnv...)
	return clone
}

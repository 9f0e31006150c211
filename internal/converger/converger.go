// Package converger merges the raw declaration forest into one flat,
// app-unique dependency list, resolving overrides and surfacing divergences
// as status values.
package converger

import (
	"strings"

	version "github.com/hashicorp/go-version"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/domain"
)

// Options control a single convergence pass.
type Options struct {
	Env    string
	Target string
}

// Converger is the core merge algorithm. It is stateless; every call to
// Converge starts from a fresh forest.
type Converger struct {
	resolver domain.SCMResolver
	sniffer  domain.ManagerSniffer
}

// New creates a converger using the given SCM resolver and manager sniffer.
func New(resolver domain.SCMResolver, sniffer domain.ManagerSniffer) *Converger {
	return &Converger{resolver: resolver, sniffer: sniffer}
}

// occurrence is one declaration of an app inside the flattened forest.
type occurrence struct {
	node     *domain.ForestNode
	topLevel bool
}

// resolution is the outcome of merging all occurrences of one app.
type resolution struct {
	winner *occurrence
	dep    domain.Dep    // converged record, children not yet attached
	status domain.Status // status of the converged record
}

// Converge flattens the forest depth-first (parent before child), groups the
// declarations by app, and merges each group into exactly one dependency.
// The returned list preserves discovery order; sorting is left to callers.
func (c *Converger) Converge(forest *domain.Forest, opts Options) ([]domain.Dep, error) {
	var flat []*occurrence
	var walk func(nodes []*domain.ForestNode, topLevel bool)
	walk = func(nodes []*domain.ForestNode, topLevel bool) {
		for _, node := range nodes {
			flat = append(flat, &occurrence{node: node, topLevel: topLevel})
			walk(node.Children, false)
		}
	}
	walk(forest.Deps, true)

	var order []string
	groups := make(map[string][]*occurrence)
	for _, occ := range flat {
		app := occ.node.Spec.App
		if _, seen := groups[app]; !seen {
			order = append(order, app)
		}
		groups[app] = append(groups[app], occ)
	}

	resolutions := make(map[string]*resolution, len(order))
	for _, app := range order {
		res, err := c.resolveGroup(app, groups[app])
		if err != nil {
			return nil, err
		}
		if res.dep.Opts.Env == "" {
			res.dep.Opts.Env = opts.Env
		}
		resolutions[app] = res
	}

	deps := make([]domain.Dep, 0, len(order))
	for _, app := range order {
		res := resolutions[app]
		dep := res.dep.WithStatus(res.status)
		children, err := c.buildChildren(res.winner.node.Children, resolutions)
		if err != nil {
			return nil, err
		}
		dep.Children = children
		deps = append(deps, dep)
	}
	return deps, nil
}

// buildChildren converges one subtree for the Children field of a winning
// dependency. Declarations that lost to an override elsewhere keep an
// overridden status here so reporting can show the conflict in place.
func (c *Converger) buildChildren(
	nodes []*domain.ForestNode,
	resolutions map[string]*resolution,
) ([]domain.Dep, error) {
	seen := make(map[string]bool, len(nodes))
	var children []domain.Dep
	for _, node := range nodes {
		app := node.Spec.App
		if seen[app] {
			continue
		}
		seen[app] = true

		res := resolutions[app]
		dep := res.dep.WithStatus(c.occurrenceStatus(node, res))
		// Children records keep the declaring occurrence's optionality; the
		// group-merged flag only holds relative to the original root.
		dep.Opts.Optional = node.Spec.Opts.Optional
		// Recurse through this occurrence, not the global winner: the walker
		// cut cycles per ancestor chain, so only the occurrence subtree is
		// guaranteed acyclic from here.
		sub, err := c.buildChildren(node.Children, resolutions)
		if err != nil {
			return nil, err
		}
		dep.Children = sub
		children = append(children, dep)
	}
	return children, nil
}

// occurrenceStatus decides the status a declaration shows inside a children
// tree: losers of an override are marked overridden, everything else shows
// the status of the merged record.
func (c *Converger) occurrenceStatus(node *domain.ForestNode, res *resolution) domain.Status {
	if res.winner.node != node && res.winner.node.Spec.Opts.Override {
		winner := res.dep
		return domain.StatusOverridden{Winner: &winner}
	}
	return res.status
}

// resolveGroup merges every occurrence of one app into a single record,
// applying override resolution, requirement compatibility, restriction
// compatibility, and manager inference in that order.
func (c *Converger) resolveGroup(app string, occs []*occurrence) (*resolution, error) {
	winner, err := pickWinner(app, occs)
	if err != nil {
		return nil, err
	}

	dep, err := c.newDep(winner, occs)
	if err != nil {
		return nil, err
	}

	res := &resolution{winner: winner, dep: dep, status: domain.StatusUnavailable{}}
	if len(occs) == 1 {
		return c.inferManager(res), nil
	}

	if winner.node.Spec.Opts.Override {
		logger.Debugf("dependency %q resolved by override declared in %s", app, winner.node.Spec.From)
		return c.inferManager(res), nil
	}

	// No override: every other declaration must be compatible with the
	// winning one, otherwise the merged record carries a diverged status.
	for _, occ := range occs {
		if occ == winner {
			continue
		}
		if status := c.diverged(winner, occ); status != nil {
			logger.Debugf("dependency %q diverged between %s and %s",
				app, winner.node.Spec.From, occ.node.Spec.From)
			res.status = status
			return res, nil
		}
		res.dep = mergeInto(res.dep, occ)
	}
	return c.inferManager(res), nil
}

// pickWinner applies override resolution: a single override wins, two are
// fatal, and without one the top-level declaration (or the first discovered)
// is the canonical base for comparisons and merges.
func pickWinner(app string, occs []*occurrence) (*occurrence, error) {
	var overrides []*occurrence
	for _, occ := range occs {
		if occ.node.Spec.Opts.Override {
			overrides = append(overrides, occ)
		}
	}
	if len(overrides) > 1 {
		return nil, &domain.AmbiguousOverrideError{
			App:    app,
			First:  overrides[0].node.Spec.From,
			Second: overrides[1].node.Spec.From,
		}
	}
	if len(overrides) == 1 {
		return overrides[0], nil
	}
	for _, occ := range occs {
		if occ.topLevel {
			return occ, nil
		}
	}
	return occs[0], nil
}

// newDep builds the converged record from the winning declaration, with the
// flags that are properties of the whole group rather than one occurrence.
func (c *Converger) newDep(winner *occurrence, occs []*occurrence) (domain.Dep, error) {
	spec := winner.node.Spec
	scm, err := c.resolver.For(spec.Opts)
	if err != nil {
		return domain.Dep{}, err
	}

	dep := domain.Dep{
		App:         spec.App,
		Requirement: spec.Requirement,
		Opts:        spec.Opts,
		SCM:         scm,
		Manager:     spec.Opts.Manager,
		From:        spec.From,
		SystemEnv:   spec.Opts.SystemEnv,
	}

	// top_level is a property of the app, not of the winning declaration:
	// it holds as soon as the root declares the app directly.
	topLevel := false
	for _, occ := range occs {
		if occ.topLevel {
			topLevel = true
			break
		}
	}
	dep.TopLevel = topLevel
	dep.Opts.Optional = mergedOptional(occs)
	return dep, nil
}

// mergedOptional strips optionality from every non-top-level occurrence and
// keeps it only when no top-level declaration requires the app outright.
func mergedOptional(occs []*occurrence) bool {
	optional := false
	for _, occ := range occs {
		if !occ.topLevel {
			continue
		}
		if !occ.node.Spec.Opts.Optional {
			return false
		}
		optional = true
	}
	return optional
}

// inferManager fills the manager of a converged record from checkout
// evidence when no declaration names one explicitly.
func (c *Converger) inferManager(res *resolution) *resolution {
	if res.dep.Manager != "" || c.sniffer == nil {
		return res
	}
	if found := c.sniffer.Sniff(res.dep.Opts.Dest); len(found) > 0 {
		res.dep.Manager = found[0]
	}
	return res
}

// diverged compares one declaration against the winning one and returns the
// status to surface, or nil when they are compatible.
func (c *Converger) diverged(winner, other *occurrence) domain.Status {
	w, o := winner.node.Spec, other.node.Spec
	otherDep := domain.Dep{
		App:         o.App,
		Requirement: o.Requirement,
		Status:      domain.StatusUnavailable{},
		Opts:        o.Opts,
		From:        o.From,
	}

	if !requirementsEqual(w.Requirement, o.Requirement) || !pinsEqual(w.Opts, o.Opts) {
		return domain.StatusDivergedReq{Requirement: o.Requirement, Other: &otherDep}
	}
	if !restrictionCompatible(w.Opts.Only, o.Opts.Only) {
		return domain.StatusDivergedOnly{Other: &otherDep}
	}
	if !restrictionCompatible(w.Opts.Targets, o.Opts.Targets) {
		return domain.StatusDivergedTargets{Other: &otherDep}
	}
	if w.Opts.Git != o.Opts.Git {
		return domain.StatusDiverged{Other: &otherDep}
	}
	if w.Opts.Manager != "" && o.Opts.Manager != "" && w.Opts.Manager != o.Opts.Manager {
		return domain.StatusDiverged{Other: &otherDep}
	}
	return nil
}

// mergeInto folds a compatible declaration into the converged record:
// restrictions widen to the covering set and system env entries union.
func mergeInto(dep domain.Dep, occ *occurrence) domain.Dep {
	opts := occ.node.Spec.Opts
	dep.Opts.Only = mergeRestriction(dep.Opts.Only, opts.Only)
	dep.Opts.Targets = mergeRestriction(dep.Opts.Targets, opts.Targets)
	dep.SystemEnv = mergeEnv(dep.SystemEnv, opts.SystemEnv)
	dep.Opts.SystemEnv = dep.SystemEnv
	return dep
}

// mergeRestriction returns the restriction covering both declarations. The
// compatibility check already guaranteed one side subsumes the other, so the
// result is either unrestricted or the superset.
func mergeRestriction(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	if subsumes(a, b) {
		return a
	}
	return b
}

// mergeEnv unions system env entries, first declaration winning on a name.
func mergeEnv(a, b []domain.EnvVar) []domain.EnvVar {
	out := append([]domain.EnvVar(nil), a...)
	for _, v := range b {
		known := false
		for _, have := range out {
			if have.Name == v.Name {
				known = true
				break
			}
		}
		if !known {
			out = append(out, v)
		}
	}
	return out
}

// requirementsEqual compares two version constraints semantically: both
// parse through go-version and normalize to the same constraint set, or they
// are the same literal.
func requirementsEqual(a, b string) bool {
	if strings.TrimSpace(a) == strings.TrimSpace(b) {
		return true
	}
	ca, errA := version.NewConstraint(a)
	cb, errB := version.NewConstraint(b)
	if errA != nil || errB != nil {
		return false
	}
	return ca.String() == cb.String()
}

// pinsEqual compares the SCM pin of two declarations: both must name the
// same ref/branch/tag/path for their requirements to be considered equal.
func pinsEqual(a, b domain.Opts) bool {
	return a.Ref == b.Ref && a.Branch == b.Branch && a.Tag == b.Tag && a.Path == b.Path
}

// restrictionCompatible reports whether one restriction subsumes the other.
// Partial overlaps are a divergence to surface, never to silently narrow.
func restrictionCompatible(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	return subsumes(a, b) || subsumes(b, a)
}

func subsumes(super, sub []string) bool {
	for _, s := range sub {
		found := false
		for _, v := range super {
			if v == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

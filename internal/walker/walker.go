// Package walker builds the raw declaration forest by recursively visiting
// project nodes, starting at the root.
package walker

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/domain"
)

// Options control a walk.
type Options struct {
	Env    string
	Target string
	All    bool // disable env/target filtering entirely
}

// Walker traverses project configurations through a spec loader. Loads are
// memoized per node directory, so each distinct configuration is parsed at
// most once per walk.
type Walker struct {
	loader domain.SpecLoader
}

// New creates a walker on top of the given spec loader.
func New(loader domain.SpecLoader) *Walker {
	return &Walker{loader: loader}
}

// Walk visits the root node and every surviving declaration transitively,
// producing the forest the converger consumes. A configuration that fails to
// load aborts the whole walk; no partial forest is returned.
func (w *Walker) Walk(ctx context.Context, root domain.Node, opts Options) (*domain.Forest, error) {
	memo := make(map[string][]domain.RawDepSpec)
	deps, err := w.visit(ctx, root, opts, memo, map[string]bool{root.App: true})
	if err != nil {
		return nil, err
	}
	return &domain.Forest{Root: root, Deps: deps}, nil
}

// visit loads one node's declarations, filters them, and recurses into every
// declaration that is itself a project. The ancestors set carries the apps
// on the current chain: a re-visited app is handed back without recursion so
// diamond and cyclic declarations terminate, leaving the duplicate for the
// converger to merge or flag.
func (w *Walker) visit(
	ctx context.Context,
	node domain.Node,
	opts Options,
	memo map[string][]domain.RawDepSpec,
	ancestors map[string]bool,
) ([]*domain.ForestNode, error) {
	specs, cached := memo[node.Dir]
	if !cached {
		loaded, err := w.loader.LoadChildren(ctx, node)
		if err != nil {
			return nil, err
		}
		memo[node.Dir] = loaded
		specs = loaded
	}

	var nodes []*domain.ForestNode
	for _, spec := range specs {
		if !opts.All && !spec.Opts.RestrictedTo(opts.Env, opts.Target) {
			logger.Debugf("skipping %q declared in %s: restricted away from env=%q target=%q",
				spec.App, spec.From, opts.Env, opts.Target)
			continue
		}

		forestNode := &domain.ForestNode{Spec: spec}
		nodes = append(nodes, forestNode)

		if ancestors[spec.App] {
			// Cycle or diamond on the current chain: keep the occurrence,
			// skip the recursion.
			continue
		}

		child := domain.Node{App: spec.App, Dir: spec.Opts.Dest}
		if !w.loader.IsProject(child) {
			continue
		}

		ancestors[spec.App] = true
		children, err := w.visit(ctx, child, opts, memo, ancestors)
		delete(ancestors, spec.App)
		if err != nil {
			return nil, err
		}
		forestNode.Children = children
	}
	return nodes, nil
}

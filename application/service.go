// Package application orchestrates the convergence flow: walk the project
// tree, converge the forest, evaluate lock and manifest state, and cache the
// result for repeated queries and nested sub-project builds.
package application

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsolve/config"
	"github.com/rios0rios0/depsolve/domain"
	"github.com/rios0rios0/depsolve/internal/cache"
	"github.com/rios0rios0/depsolve/internal/converger"
	"github.com/rios0rios0/depsolve/internal/evaluator"
	"github.com/rios0rios0/depsolve/internal/walker"
)

// ConvergeService is the engine's front door. It owns no mutable state of
// its own: the result cache is the only shared resource and it is passed in
// at construction.
type ConvergeService struct {
	loader    domain.SpecLoader
	resolver  domain.SCMResolver
	sniffer   domain.ManagerSniffer
	cache     *cache.ResultCache
	toolchain evaluator.Toolchain
}

// NewConvergeService wires the engine together.
func NewConvergeService(
	loader domain.SpecLoader,
	resolver domain.SCMResolver,
	sniffer domain.ManagerSniffer,
	resultCache *cache.ResultCache,
) *ConvergeService {
	return &ConvergeService{
		loader:   loader,
		resolver: resolver,
		sniffer:  sniffer,
		cache:    resultCache,
		toolchain: evaluator.Toolchain{
			LanguageVersion: config.LanguageVersion(),
			RuntimeVersion:  config.RuntimeVersion(),
		},
	}
}

// ConvergeOptions select the execution context of one convergence.
type ConvergeOptions struct {
	Env    string
	Target string
	All    bool     // disable env/target filtering
	Apps   []string // optional post-filter by app name
}

// Converged returns the fully evaluated dependency list for the project
// rooted at root, computing and caching it on first use. Filtering by Apps
// happens after the cached computation, so an unknown name never poisons
// the cache.
func (s *ConvergeService) Converged(
	ctx context.Context,
	root domain.Node,
	opts ConvergeOptions,
) ([]domain.Dep, error) {
	deps, err := s.cache.GetOrCompute(s.key(root, opts), func() ([]domain.Dep, error) {
		return s.compute(ctx, root, opts)
	})
	if err != nil {
		return nil, err
	}
	return filterByApps(deps, opts)
}

// ChildConverged serves a dependency being built as its own root inside an
// umbrella/workspace build. It only reads the cached top-level result; the
// caller must have converged the top-level project first.
func (s *ConvergeService) ChildConverged(
	root domain.Node,
	app string,
	opts ConvergeOptions,
) ([]domain.Dep, error) {
	return s.cache.ChildSubtree(s.key(root, opts), app)
}

// Invalidate drops the cached result for the given context. Call it after
// any action that could change the forest: a new declaration, a lock file
// change, a fetch.
func (s *ConvergeService) Invalidate(root domain.Node, opts ConvergeOptions) {
	s.cache.Invalidate(s.key(root, opts))
}

func (s *ConvergeService) key(root domain.Node, opts ConvergeOptions) cache.Key {
	if opts.All {
		// "all" mode ignores env/target, so it gets its own slot.
		return cache.Key{Project: root.Dir, Env: "*", Target: "*"}
	}
	return cache.Key{Project: root.Dir, Env: opts.Env, Target: opts.Target}
}

// compute runs one full walk -> converge -> evaluate pass.
func (s *ConvergeService) compute(
	ctx context.Context,
	root domain.Node,
	opts ConvergeOptions,
) ([]domain.Dep, error) {
	forest, err := walker.New(s.loader).Walk(ctx, root, walker.Options{
		Env:    opts.Env,
		Target: opts.Target,
		All:    opts.All,
	})
	if err != nil {
		return nil, err
	}

	deps, err := converger.New(s.resolver, s.sniffer).Converge(forest, converger.Options{
		Env:    opts.Env,
		Target: opts.Target,
	})
	if err != nil {
		return nil, err
	}

	lock, err := config.ReadLock(root.Dir)
	if err != nil {
		// Lock trouble blocks evaluation, not convergence: every dependency
		// keeps its pre-evaluation status.
		logger.Warnf("skipping lock evaluation: %v", err)
		return deps, nil
	}

	for i := range deps {
		deps[i] = s.evaluate(deps[i], lock)
	}
	logger.Debugf("converged %d dependencies for %s (env=%q target=%q)",
		len(deps), root.App, opts.Env, opts.Target)
	return deps, nil
}

// evaluate refines one dependency's status. Collaborator failures degrade
// to the unevaluated status for that dependency only.
func (s *ConvergeService) evaluate(dep domain.Dep, lock map[string]*domain.LockEntry) domain.Dep {
	manifest, err := config.ReadManifest(dep.Opts.Build)
	if err != nil {
		logger.Warnf("%v", &domain.ScmQueryError{App: dep.App, Err: err})
		return dep
	}
	return evaluator.Evaluate(dep, evaluator.Input{
		Fetched:   dirExists(dep.Opts.Dest),
		Lock:      lock[dep.App],
		Manifest:  manifest,
		Toolchain: s.toolchain,
	})
}

// filterByApps narrows the converged list to explicitly requested apps.
func filterByApps(deps []domain.Dep, opts ConvergeOptions) ([]domain.Dep, error) {
	if len(opts.Apps) == 0 {
		return deps, nil
	}

	byApp := make(map[string]domain.Dep, len(deps))
	for _, dep := range deps {
		byApp[dep.App] = dep
	}

	var selected []domain.Dep
	var missing []string
	for _, app := range opts.Apps {
		if dep, ok := byApp[app]; ok {
			selected = append(selected, dep)
		} else {
			missing = append(missing, app)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.UnknownDependencyError{Apps: missing, Env: opts.Env}
	}
	return selected, nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

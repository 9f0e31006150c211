package cmd

import (
	"path/filepath"

	"go.uber.org/dig"

	"github.com/rios0rios0/depsolve/application"
	"github.com/rios0rios0/depsolve/domain"
	"github.com/rios0rios0/depsolve/infrastructure/loader"
	"github.com/rios0rios0/depsolve/infrastructure/scm"
	gitscm "github.com/rios0rios0/depsolve/infrastructure/scm/git"
	"github.com/rios0rios0/depsolve/infrastructure/scm/local"
	"github.com/rios0rios0/depsolve/infrastructure/scm/release"
	"github.com/rios0rios0/depsolve/internal/cache"
)

// injectService assembles the engine for the project rooted at dir: loader,
// SCM registry (path before git before registry), manager sniffer, result
// cache, and the converge service on top.
func injectService(dir string) (*application.ConvergeService, error) {
	container := dig.New()

	providers := []interface{}{
		func() domain.SpecLoader { return loader.New(dir) },
		func() domain.ManagerSniffer { return loader.NewSniffer() },
		func() *scm.Registry {
			return scm.NewRegistry(
				local.New(),
				gitscm.New(),
				release.New(filepath.Join(dir, "registry")),
			)
		},
		func(registry *scm.Registry) domain.SCMResolver { return registry },
		cache.New,
		application.NewConvergeService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	var service *application.ConvergeService
	if err := container.Invoke(func(s *application.ConvergeService) {
		service = s
	}); err != nil {
		return nil, err
	}
	return service, nil
}

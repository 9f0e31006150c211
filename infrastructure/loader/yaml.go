package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depsolve/domain"
)

// projectFile is the YAML shape of a depsolve.yaml configuration.
type projectFile struct {
	App  string     `yaml:"app"`
	Deps []depEntry `yaml:"deps"`
}

// depEntry is one declaration in the deps list. Unknown manager-specific
// keys go through the extra map untouched.
type depEntry struct {
	App         string            `yaml:"app"`
	Requirement string            `yaml:"requirement"`
	Only        []string          `yaml:"only"`
	Targets     []string          `yaml:"targets"`
	Override    bool              `yaml:"override"`
	Optional    bool              `yaml:"optional"`
	Manager     string            `yaml:"manager"`
	SystemEnv   map[string]string `yaml:"system_env"`
	Git         string            `yaml:"git"`
	Ref         string            `yaml:"ref"`
	Branch      string            `yaml:"branch"`
	Tag         string            `yaml:"tag"`
	Path        string            `yaml:"path"`
	Extra       map[string]string `yaml:"extra"`
}

// parseYAML decodes and validates a depsolve.yaml file.
func parseYAML(data []byte, path string) ([]domain.RawDepSpec, error) {
	var file projectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &domain.ConfigLoadError{Path: path, Err: err}
	}

	specs := make([]domain.RawDepSpec, 0, len(file.Deps))
	for _, entry := range file.Deps {
		spec, err := entry.toSpec(path)
		if err != nil {
			return nil, &domain.ConfigLoadError{Path: path, Err: err}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (e depEntry) toSpec(from string) (domain.RawDepSpec, error) {
	if e.App == "" {
		return domain.RawDepSpec{}, fmt.Errorf("dependency entry without an app name")
	}
	if e.Git != "" && e.Path != "" {
		return domain.RawDepSpec{}, fmt.Errorf("dependency %q declares both :git and :path", e.App)
	}
	manager, err := parseManager(e.Manager)
	if err != nil {
		return domain.RawDepSpec{}, fmt.Errorf("dependency %q: %w", e.App, err)
	}

	return domain.RawDepSpec{
		App:         e.App,
		Requirement: e.Requirement,
		From:        from,
		Opts: domain.Opts{
			Only:      e.Only,
			Targets:   e.Targets,
			Override:  e.Override,
			Optional:  e.Optional,
			Manager:   manager,
			SystemEnv: sortedEnv(e.SystemEnv),
			Git:       e.Git,
			Ref:       e.Ref,
			Branch:    e.Branch,
			Tag:       e.Tag,
			Path:      e.Path,
			Extra:     e.Extra,
		},
	}, nil
}

func parseManager(raw string) (domain.Manager, error) {
	switch domain.Manager(raw) {
	case "", domain.ManagerMix, domain.ManagerRebar3, domain.ManagerMake:
		return domain.Manager(raw), nil
	default:
		return "", fmt.Errorf("unknown manager %q", raw)
	}
}

package domain

// Manager identifies the build tool used to compile a dependency.
type Manager string

const (
	ManagerMix    Manager = "mix"
	ManagerRebar3 Manager = "rebar3"
	ManagerMake   Manager = "make"
)

// ManagerPriority is the inference order when a dependency carries evidence
// for more than one build tool. The first positive match wins.
var ManagerPriority = []Manager{ManagerMix, ManagerRebar3, ManagerMake}

// EnvVar is a single environment variable exported while building a dependency.
type EnvVar struct {
	Name  string
	Value string
}

// Opts is the normalized option set attached to a dependency declaration.
// Recognized keys are typed fields; manager-specific extras pass through
// Extra untouched and unvalidated.
type Opts struct {
	Requirement string   // version constraint mirror, consumed by SCMs
	Build       string   // build output directory for this dependency
	Dest        string   // source checkout destination
	Env         string   // environment the dependency is compiled in
	Only        []string // environments this declaration is restricted to (empty = all)
	Targets     []string // targets this declaration is restricted to (empty = all)
	Override    bool
	Optional    bool
	Manager     Manager
	SystemEnv   []EnvVar

	// SCM selection keys. At most one of Git/Path is set; neither means
	// the dependency resolves through the release registry.
	Git    string // remote repository URL
	Ref    string // pinned revision
	Branch string
	Tag    string
	Path   string // local directory, relative to the declaring project

	Extra map[string]string
}

// RestrictedTo reports whether this declaration is enabled for the given
// environment and target. Empty restriction lists enable everything.
func (o Opts) RestrictedTo(env, target string) bool {
	return contains(o.Only, env) && contains(o.Targets, target)
}

func contains(list []string, value string) bool {
	if len(list) == 0 || value == "" {
		return true
	}
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// RawDepSpec is one declared dependency exactly as a project configuration
// states it. Immutable once produced by the spec loader.
type RawDepSpec struct {
	App         string
	Requirement string // version constraint such as "~> 1.0", empty for SCM-pinned deps
	Opts        Opts
	From        string // configuration file responsible for this declaration
}

// Node identifies one project configuration on disk.
type Node struct {
	App string
	Dir string
}

// Dep is the converged record for a single application. Records are value
// types created fresh on every convergence pass; the evaluator returns
// updated copies and never mutates in place.
type Dep struct {
	App         string
	Requirement string
	Status      Status
	Opts        Opts
	SCM         SCM
	Manager     Manager
	Children    []Dep
	TopLevel    bool // declared directly by the root project
	From        string
	SystemEnv   []EnvVar
}

// Available reports whether fetch/compile may act on this dependency.
func (d Dep) Available() bool {
	return d.Status != nil && d.Status.Available()
}

// WithStatus returns a copy of the dependency carrying the given status.
func (d Dep) WithStatus(status Status) Dep {
	d.Status = status
	return d
}

// Forest is the raw declaration tree produced by the tree walker: the root
// project's declarations in discovery order, each with its own subtree.
type Forest struct {
	Root Node
	Deps []*ForestNode
}

// ForestNode is one declaration occurrence inside the forest. Children is
// nil when the dependency is not itself a project or when the walker cut a
// cycle at this occurrence.
type ForestNode struct {
	Spec     RawDepSpec
	Children []*ForestNode
}

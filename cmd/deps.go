package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depsolve/application"
	"github.com/rios0rios0/depsolve/config"
	"github.com/rios0rios0/depsolve/domain"
)

var listAll bool

var depsCmd = &cobra.Command{
	Use:   "deps [apps...]",
	Short: "List converged dependencies with their status",
	Long: `List every converged dependency of the project, one per line, with its
requirement, SCM, manager, pinned lock reference, and a status diagnostic.

Pass app names to restrict the listing; unknown names fail the command.`,
	RunE: runDeps,
}

func init() {
	depsCmd.Flags().BoolVar(&listAll, "all", false,
		"Ignore environment/target restrictions and list every declaration")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(projectPath)
	if err != nil {
		return fmt.Errorf("failed to resolve project path %q: %w", projectPath, err)
	}

	service, err := injectService(dir)
	if err != nil {
		return fmt.Errorf("failed to assemble the engine: %w", err)
	}

	root := domain.Node{App: filepath.Base(dir), Dir: dir}
	deps, err := service.Converged(context.Background(), root, application.ConvergeOptions{
		Env:    env,
		Target: target,
		All:    listAll,
		Apps:   args,
	})
	if err != nil {
		return err
	}

	lock, err := config.ReadLock(dir)
	if err != nil {
		logger.Warnf("could not read lock file: %v", err)
		lock = map[string]*domain.LockEntry{}
	}

	fetchable := 0
	for _, dep := range deps {
		printDep(cmd, dep, lock[dep.App])
		if _, unavailable := dep.Status.(domain.StatusUnavailable); unavailable &&
			dep.SCM != nil && dep.SCM.Fetchable() {
			fetchable++
		}
	}
	if fetchable > 0 {
		cmd.Printf("\nrun \"depsolve deps get\" to fetch %d unavailable dependencies\n", fetchable)
	}
	return nil
}

// printDep renders one listing entry:
//
//	* plug ~> 1.14 (registry) (mix)
//	  locked at 1.14.2
//	  ok
func printDep(cmd *cobra.Command, dep domain.Dep, lock *domain.LockEntry) {
	line := "* " + dep.App
	if v := depVersion(dep); v != "" {
		line += " " + v
	}
	if dep.SCM != nil {
		line += " (" + dep.SCM.Name() + ")"
	}
	if dep.Manager != "" {
		line += " (" + string(dep.Manager) + ")"
	}
	cmd.Println(line)

	if dep.SCM != nil {
		if pinned := dep.SCM.FormatLock(lock); pinned != "" {
			cmd.Printf("  locked at %s\n", pinned)
		}
	}
	cmd.Printf("  %s\n", dep.Status.Message())
}

// depVersion prefers the declared requirement and falls back to the SCM's
// rendering of the source.
func depVersion(dep domain.Dep) string {
	if dep.Requirement != "" {
		return dep.Requirement
	}
	if dep.SCM != nil {
		return dep.SCM.Format(dep.Opts)
	}
	return ""
}

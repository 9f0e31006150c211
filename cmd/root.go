package cmd

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	projectPath string
	env         string
	target      string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "depsolve",
	Short: "Dependency graph convergence engine",
	Long: `depsolve resolves a project's declared dependencies - and transitively every
dependency's own declarations - into one canonical, de-duplicated, status-annotated
list for a given environment and target.

Conflicting declarations of the same app are merged when compatible, resolved by
:override flags when declared, and otherwise surfaced as diverged so you can see
exactly which two declaration sites disagree.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose || os.Getenv("DEBUG") == "true" {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	rootCmd.PersistentFlags().StringVarP(&projectPath, "path", "p", ".",
		"Path to the root project")
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "dev",
		"Environment to converge for")
	rootCmd.PersistentFlags().StringVarP(&target, "target", "t", "host",
		"Target to converge for")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}

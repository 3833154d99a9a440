// Package commands implements the agent's command-line surface. Argument
// parsing itself is out of the core's scope (spec §1); this package only
// needs to get a configuration path into internal/wiring.Start.
package commands

import (
	"context"
	"fmt"

	"github.com/DanielSidhion/nixless-agent/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface for the agent binary.
type CLI struct {
	rootCmd *cobra.Command
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "nixless-agent",
		Short:         "Privileged host agent for atomic content-addressed system switches",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))

	c := &CLI{rootCmd: rootCmd}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

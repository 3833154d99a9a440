package commands

import (
	"fmt"

	"github.com/DanielSidhion/nixless-agent/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agent version",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "nixless-agent version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
		},
	}
}

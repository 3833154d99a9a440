package commands

import (
	"context"
	"time"

	"github.com/DanielSidhion/nixless-agent/internal/wiring"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long serve waits for the state keeper's own
// Shutdown sequence (§5 Cancellation) before returning anyway.
const shutdownTimeout = 35 * time.Second

func (c *CLI) newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			agent, err := wiring.Start(ctx, configPath)
			if err != nil {
				return err
			}

			agent.Logger.Info("agent started, awaiting shutdown signal")

			// The control HTTP surface that would deliver
			// new-configuration/rollback requests is an external
			// collaborator (spec §1); here the daemon simply stays up,
			// driven by whatever reaches internal/wiring.Agent.StateKeeper
			// out of process (tests call it directly; a production build
			// wires an HTTP listener calling the same methods).
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return agent.StateKeeper.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "/etc/nixless-agent/config.yaml", "path to the agent's YAML configuration file")

	return cmd
}

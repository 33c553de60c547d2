package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hlfnet/internal/app"
	"hlfnet/internal/network"
)

var errNotStarted = errors.New("local Fabric network did not start")

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create and start the local Fabric network",
		Long: `Starts the certificate authority, registers and enrolls the identities,
brings up the orderer and peer, creates the channel and deploys the workspace
chaincode. The chaincode mode comes from chaincode.external in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocked(cmd, func(ctx context.Context, s *app.Services) error {
				if !s.Orchestrator.CreateNetwork(ctx) {
					return errNotStarted
				}
				return nil
			})
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the local Fabric network, keeping its data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocked(cmd, func(ctx context.Context, s *app.Services) error {
				return outcomeError("stop", s.Orchestrator.StopNetwork(ctx))
			})
		},
	}
}

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Stop and recreate the local Fabric network",
		Long: `Stops the network and creates it again. A failed stop is reported but does
not prevent the new network from being created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocked(cmd, func(ctx context.Context, s *app.Services) error {
				result := s.Orchestrator.RestartNetwork(ctx)
				if !result.Started {
					return errNotStarted
				}
				return nil
			})
		},
	}
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "down",
		Aliases: []string{"remove"},
		Short:   "Tear down the local Fabric network and delete its volumes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocked(cmd, func(ctx context.Context, s *app.Services) error {
				return outcomeError("remove", s.Orchestrator.RemoveNetwork(ctx))
			})
		},
	}
}

func newEnsureCmd() *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Restart the network only if it is down or runs the other chaincode mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocked(cmd, func(ctx context.Context, s *app.Services) error {
				if !cmd.Flags().Changed("external") {
					external = s.Orchestrator.ConfiguredExternal()
				}
				result, err := s.Orchestrator.Ensure(ctx, network.Candidate{External: external})
				if !result.Restarted {
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Local Fabric Network is up to date")
					return nil
				}
				if !result.Restart.Started {
					return errNotStarted
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "Deploy the chaincode as an external service (CaaS); defaults to chaincode.external")
	return cmd
}

// outcomeError turns a degraded teardown into a non-zero exit. The state is
// reset either way and the user has already been notified.
func outcomeError(op string, outcome network.Outcome) error {
	if outcome.OK() {
		return nil
	}
	return fmt.Errorf("%s completed with errors: %w", op, outcome.Err)
}

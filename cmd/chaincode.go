package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"hlfnet/internal/app"
)

func newChaincodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chaincode",
		Short: "Work with the workspace chaincode",
	}
	cmd.AddCommand(newChaincodeRunCmd())
	return cmd
}

func newChaincodeRunCmd() *cobra.Command {
	var external bool

	cmd := &cobra.Command{
		Use:   "run [--external] -- <command> [args...]",
		Short: "Run the chaincode as a debug session against the local network",
		Long: `Starts the given command with the debug environment added and records it as
the active debug session. Stopping or removing the network ends the session.

Example:
  hlfnet chaincode run -- go run ./cmd/chaincode`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, func(ctx context.Context, s *app.Services) error {
				if !cmd.Flags().Changed("external") {
					external = s.Orchestrator.Identity().External
				}
				env := s.Orchestrator.DebugEnv().Environ(external)
				return s.Sessions.Launch(ctx, args, env, external)
			})
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "Run as an external chaincode service (CaaS); defaults to the deployed mode")
	return cmd
}

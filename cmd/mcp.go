package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"hlfnet/internal/app"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the network lifecycle to an editor or AI assistant over MCP (stdio)",
		Long: `Runs an MCP server on stdin/stdout. It exposes the lifecycle as tools
(network_create, network_stop, network_restart, network_remove,
network_should_restart, network_ensure, chaincode_debug_env) and the network
state as the hlfnet://network resource.

Logs go to stderr. Each lifecycle call takes the same project lock as the
CLI commands, so the two can be used side by side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
				return application.ServeMCP(ctx)
			})
		},
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"hlfnet/internal/app"
	"hlfnet/internal/cli"
	"hlfnet/pkg/logging"
)

const envFormat = "env"

func newDebugEnvCmd() *cobra.Command {
	var (
		external bool
		output   string
		copyEnv  bool
	)

	cmd := &cobra.Command{
		Use:   "debug-env",
		Short: "Print the environment a chaincode debug session needs",
		Long: `Prints the variables a chaincode process needs to connect to the local
network: CORE_CHAINCODE_ID_NAME and CORE_PEER_ADDRESS for in-process chaincode,
CHAINCODE_ID and CHAINCODE_SERVER_ADDRESS for chaincode as a service.

The default output is KEY=value lines that can be sourced or pasted into a
launch configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var format cli.OutputFormat
			if output != envFormat {
				f, err := cli.ParseOutputFormat(output)
				if err != nil {
					return err
				}
				format = f
			}

			return inspect(cmd, func(ctx context.Context, s *app.Services) error {
				if !cmd.Flags().Changed("external") {
					external = s.Orchestrator.Identity().External
				}
				vars := s.Orchestrator.DebugEnv().Vars(external)

				if copyEnv {
					if err := clipboard.WriteAll(cli.FormatEnv(vars)); err != nil {
						return fmt.Errorf("failed to copy to clipboard: %w", err)
					}
					logging.Info("DebugEnv", "Copied %d variables to the clipboard", len(vars))
				}

				if format == "" {
					return cli.PrintEnv(cmd.OutOrStdout(), vars)
				}
				printer := cli.NewPrinter(format)
				printer.Out = cmd.OutOrStdout()
				return printer.Print(vars)
			})
		},
	}
	cmd.Flags().BoolVar(&external, "external", false, "Environment for chaincode as a service; defaults to the current mode")
	cmd.Flags().StringVarP(&output, "output", "o", envFormat, "Output format: env, table, json or yaml")
	cmd.Flags().BoolVar(&copyEnv, "copy", false, "Also copy the KEY=value lines to the clipboard")
	return cmd
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"hlfnet/internal/app"
	"hlfnet/internal/chaincode"
	"hlfnet/internal/cli"
	"hlfnet/internal/network"
	"hlfnet/pkg/logging"
)

// statusView is what `hlfnet status` prints.
type statusView struct {
	Started       bool   `json:"started" yaml:"started"`
	RestartNeeded bool   `json:"restartNeeded" yaml:"restartNeeded"`
	ChaincodeID   string `json:"chaincodeId" yaml:"chaincodeId"`
	Version       string `json:"version" yaml:"version"`
	PackageID     string `json:"packageId" yaml:"packageId"`
	External      bool   `json:"external" yaml:"external"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newStatusView(started bool, id chaincode.Identity, restart bool, err error) statusView {
	v := statusView{
		Started:       started,
		RestartNeeded: restart,
		ChaincodeID:   chaincode.EffectiveID(id),
		Version:       id.Version,
		PackageID:     id.PackageID,
		External:      id.External,
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the recorded network state and whether a restart is needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			return inspect(cmd, func(ctx context.Context, s *app.Services) error {
				id := s.Orchestrator.Identity()
				restart, err := s.Orchestrator.ShouldRestart(ctx, network.Candidate{External: id.External})
				if err != nil {
					logging.Warn("Status", "Could not query compose: %v", err)
				}

				printer := cli.NewPrinter(format)
				printer.Out = cmd.OutOrStdout()
				return printer.Print(newStatusView(s.Orchestrator.Started(), id, restart, err))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(cli.OutputFormatTable), "Output format: table, json or yaml")
	return cmd
}

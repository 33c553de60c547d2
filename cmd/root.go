package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hlfnet/internal/app"
)

var (
	configPath string
	debug      bool
	useTUI     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hlfnet",
	Short: "Run a local Hyperledger Fabric network for chaincode debugging",
	Long: `hlfnet starts, stops and removes a single-organisation Hyperledger Fabric
network on Docker Compose and deploys the chaincode of the current workspace
to it, either in-process or as an external service (CaaS).

Editors and AI assistants can drive the same network through 'hlfnet mcp'.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. a network that failed to start)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "hlfnet version %s\n" .Version}}`)

	// A signal only marks the context; a running lifecycle sequence finishes
	// before the command returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file applied on top of ~/.config/hlfnet and ./.hlfnet")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false, "Show lifecycle progress in an interactive view")

	rootCmd.AddCommand(newUpCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newRestartCmd())
	rootCmd.AddCommand(newDownCmd())
	rootCmd.AddCommand(newEnsureCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDebugEnvCmd())
	rootCmd.AddCommand(newChaincodeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// withApplication bootstraps the application for one command and flushes
// traces when it is done.
func withApplication(cmd *cobra.Command, fn func(ctx context.Context, application *app.Application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := app.NewConfig(configPath, debug, useTUI, rootCmd.Version)
	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Shutdown(context.WithoutCancel(ctx))

	return fn(ctx, application)
}

// runLocked runs fn with the services while holding the project lock.
func runLocked(cmd *cobra.Command, fn func(ctx context.Context, s *app.Services) error) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		return application.Run(ctx, fn)
	})
}

// inspect runs fn with the services without taking the project lock.
func inspect(cmd *cobra.Command, fn func(ctx context.Context, s *app.Services) error) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		return application.Inspect(ctx, fn)
	})
}

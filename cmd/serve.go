package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agentmarketplace/api/server"
	"agentmarketplace/internal/config"
	"agentmarketplace/internal/logging"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		configPath string
		address    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the marketplace server",
		Long: `Start the HTTP server hosting the research pipeline, the agent
marketplace, and the Coral Protocol integration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := logging.NewDefault(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			srv, err := server.New(cfg, getVersion(), &logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides configuration)")

	return cmd
}

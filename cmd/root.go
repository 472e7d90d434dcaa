// Package cmd provides the command line interface for the agent
// marketplace server.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentmarketplace",
		Short: "Multi-agent research server and agent marketplace",
		Long: `agentmarketplace runs the Internet of Agents demo server.

It hosts a three-agent research pipeline (search, summarizer, validator),
an agent marketplace with simulated Solana payments, and an optional
Coral Protocol integration for cross-agent coordination.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// Package cmd defines the harrier CLI surface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for harrier
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harrier",
		Short: "Concurrent sweep orchestrator for external assessment tools",
		Long: `Harrier orchestrates external network-assessment tools (masscan, hydra,
ncrack) across a target list with a bounded concurrent dispatcher.

It aggregates per-target outcomes, streams periodic progress updates to a
Telegram chat, and persists confirmed results at the end of each run.

Intended strictly for authorized security assessments of infrastructure you
own or are contracted to test.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewBruteCommand())
	cmd.AddCommand(NewRunsCommand())

	return cmd
}

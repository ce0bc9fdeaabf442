package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/session"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <targets-file>",
		Short: "Scan a target list for a service and verify open ports",
		Long: `Scan runs a fast port scan over the whole target list, then verifies each
open-port candidate with a short TCP liveness check under the bounded
dispatcher. Verified targets are persisted and reported.

Examples:
  harrier scan --service ssh targets.txt
  harrier scan --service rdp --max-concurrency 50 --rate 5000 targets.txt
  harrier scan --service ssh --bot-token $TOKEN --chat-id $CHAT targets.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCommand,
	}

	addSweepFlags(cmd)
	cmd.Flags().Int("rate", 0, "Port scan packet rate (0 = use config)")

	return cmd
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	serviceName, _ := cmd.Flags().GetString("service")
	service, err := models.ParseService(serviceName)
	if err != nil {
		return err
	}

	cfg, err := loadSweepConfig(cmd)
	if err != nil {
		return err
	}

	opts, cleanup := buildSession(cfg)
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	sum, err := session.RunScan(ctx, opts, session.ScanParams{
		Service:     service,
		TargetsFile: args[0],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scan completed: %d/%d candidates verified (%d targets scanned)\n",
		sum.Confirmed, sum.Candidates, sum.Total)
	return nil
}

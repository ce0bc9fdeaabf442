package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwalsh/harrier/internal/models"
	"github.com/mwalsh/harrier/internal/session"
)

// NewBruteCommand creates the brute command
func NewBruteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brute <targets-file> <username> <password-file>",
		Short: "Run a credential brute-force sweep over a target list",
		Long: `Brute dispatches one external brute-force invocation per target (hydra for
ssh, ncrack for rdp) under the bounded dispatcher, with a per-task timeout.
Confirmed credentials are alerted immediately, summarized at the end, and
persisted.

Only run this against systems you are authorized to test.

Examples:
  harrier brute --service ssh targets.txt root passwords.txt
  harrier brute --service rdp --timeout 90s --max-concurrency 8 targets.txt admin rockyou.txt`,
		Args: cobra.ExactArgs(3),
		RunE: runBruteCommand,
	}

	addSweepFlags(cmd)

	return cmd
}

func runBruteCommand(cmd *cobra.Command, args []string) error {
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

	sum, err := session.RunBrute(ctx, opts, session.BruteParams{
		Service:      service,
		TargetsFile:  args[0],
		Username:     args[1],
		PasswordFile: args[2],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Brute sweep completed: %d/%d targets confirmed\n",
		sum.Confirmed, sum.Total)
	return nil
}

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwalsh/harrier/internal/config"
	"github.com/mwalsh/harrier/internal/store"
)

// NewRunsCommand creates the runs command listing past run history.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past sweep runs from the history database",
		Args:  cobra.NoArgs,
		RunE:  runRunsCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .harrier/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	return cmd
}

func runRunsCommand(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	limit, _ := cmd.Flags().GetInt("limit")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return err
	}

	history, err := store.OpenHistory(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer history.Close()

	records, err := history.ListRuns(limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tKIND\tSERVICE\tTOTAL\tCANDIDATES\tCONFIRMED\tDURATION\tRUN ID")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.Kind, rec.Service,
			rec.Total, rec.Candidates, rec.Confirmed, rec.Duration, rec.RunID)
	}
	return w.Flush()
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit     int
	historyMode      string
	historyFailed    bool
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the evaluation history",
	Long: `Browse and maintain the evaluation history. Requires
[history] enabled = true in the config file (or PRATT_HISTORY_ENABLED=true).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent evaluations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Query(cmd.Context(), history.Filter{
			Mode:       historyMode,
			FailedOnly: historyFailed,
			Limit:      historyLimit,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No evaluations recorded.")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TIME", "MODE", "EXPRESSION", "RESULT")
		for _, e := range entries {
			result := e.Result
			if e.Failed() {
				result = "error: " + e.ErrorCode
			}
			t.Row(shortID(e.ID), e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Mode, truncate(e.Expression, 40), truncate(result, 40))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one evaluation as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := findEntry(cmd.Context(), store, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old evaluations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		olderThan := historyOlderThan
		if olderThan == 0 {
			olderThan = appConfig.History.Retention.Duration
		}
		deleted, err := store.Prune(cmd.Context(), olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d evaluations older than %s\n", deleted, olderThan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyListCmd.Flags().StringVar(&historyMode, "mode", "", "only entries of this mode (eval or tree)")
	historyListCmd.Flags().BoolVar(&historyFailed, "failed", false, "only failed evaluations")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age limit (default: configured retention)")
}

func requireHistory() (*history.SQLiteStore, error) {
	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, mdwerror.New("history is disabled").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("history")
	}
	return store, nil
}

// findEntry accepts a full ID or the 8-character prefix that list prints
func findEntry(ctx context.Context, store history.Store, id string) (*history.Entry, error) {
	entry, err := store.Get(ctx, id)
	if err == nil || !mdwerror.HasCode(err, mdwerror.CodeNotFound) || len(id) >= 36 {
		return entry, err
	}

	entries, qerr := store.Query(ctx, history.Filter{})
	if qerr != nil {
		return nil, qerr
	}
	var match *history.Entry
	for _, e := range entries {
		if len(e.ID) >= len(id) && e.ID[:len(id)] == id {
			if match != nil {
				return nil, mdwerror.Newf("history ID prefix %q is ambiguous", id).WithCode(mdwerror.CodeInvalidInput)
			}
			match = e
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

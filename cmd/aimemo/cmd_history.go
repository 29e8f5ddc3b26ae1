package main

import (
	"fmt"
	"os"
	"strings"

	"aimemo/internal/store"

	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyCategory string
)

// historyCmd lists recent runs from the vault's history database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  showHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show")
	historyCmd.Flags().StringVarP(&historyCategory, "category", "c", "", "Only show runs filed under this label")
}

func showHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dbPath := cfg.ResolvePath(cfg.History.DatabasePath)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No history recorded yet.")
		return nil
	}

	st, err := store.NewLocalStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.RecentRuns(cmd.Context(), historyLimit, historyCategory)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No matching runs.")
		return nil
	}

	for _, r := range runs {
		label := r.Label
		if label == "" {
			label = "(unclassified)"
		}
		fmt.Fprintf(out, "%s  %s  %-28s summary=%-9s diagnosis=%-9s exit=%d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), shortID(r.ID), label,
			orDash(r.SummaryOutcome), orDash(r.DiagnosisOutcome), r.ExitCode)
		fmt.Fprintf(out, "    %s\n", oneLine(r.Memo, 100))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

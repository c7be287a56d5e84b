// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/webp2png/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous conversion runs from the journal",
	Long: `History reads the SQLite journal configured with --journal (or the
journal key in the config file) and lists recent runs. With --files it
lists individual file conversions instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum rows to show (0 = use default)")
	historyCmd.Flags().Int("max-results", 20, "default number of rows when --limit is not set")
	historyCmd.Flags().Bool("files", false, "list file conversions instead of runs")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	_ = viper.BindPFlag("history.max_results", historyCmd.Flags().Lookup("max-results"))

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	files, _ := cmd.Flags().GetBool("files")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no journal configured: pass --journal or set journal in the config file")
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if files {
		entries, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, entries)
		}
		formatEntries(out, entries)
		return nil
	}

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}
	formatRuns(out, runs)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRuns(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-14s  %-9s  %-7s  %-6s  %s\n",
		"Run", "Started", "Converted", "Skipped", "Failed", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-14s  %-9d  %-7d  %-6d  %s\n",
			r.ID, humanize.Time(r.StartedAt), r.Converted, r.Skipped, r.Failed, r.Input)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

func formatEntries(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return
	}

	fmt.Fprintf(w, "%-9s  %-40s  %-9s  %-9s  %s\n", "Status", "Source", "In", "Out", "When")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		src := e.Source
		if len(src) > 40 {
			src = "..." + src[len(src)-37:]
		}
		fmt.Fprintf(w, "%-9s  %-40s  %-9s  %-9s  %s\n",
			e.Status, src,
			humanize.Bytes(uint64(e.SourceBytes)), humanize.Bytes(uint64(e.OutputBytes)),
			humanize.Time(e.ConvertedAt))
		if e.Failed() && e.Error != "" {
			fmt.Fprintf(w, "           error: %s\n", e.Error)
		}
	}
	fmt.Fprintf(w, "\n%d conversions\n", len(entries))
}

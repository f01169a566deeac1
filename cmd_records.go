// cmd_records.go
//
// `riddler records`: list the best solves from the records ledger.
// Responsibilities:
//   - Read Top/Total from the SQLite ledger.
//   - Print a fixed-width table, or JSON with --json.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/robalobadob/riddler/internal/records"
)

var recordsFlags struct {
	limit  int
	asJSON bool
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the best solved riddles",
	RunE:  runRecords,
}

func init() {
	f := recordsCmd.Flags()
	f.IntVar(&recordsFlags.limit, "limit", 20, "number of records to show")
	f.BoolVar(&recordsFlags.asJSON, "json", false, "print JSON instead of a table")
}

func runRecords(cmd *cobra.Command, _ []string) error {
	if !cfg.RecordsEnabled() {
		return errors.New("records ledger is disabled (RIDDLER_RECORDS_DB=off)")
	}
	s, err := records.Open(cfg.RecordsDB)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	top, err := s.Top(ctx, recordsFlags.limit)
	if err != nil {
		return err
	}
	total, err := s.Total(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if recordsFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"total": total, "top": top})
	}
	printRecords(out, top, total)
	return nil
}

func printRecords(out io.Writer, top []records.Record, total int) {
	if len(top) == 0 {
		fmt.Fprintln(out, "No riddles solved yet.")
		return
	}
	fmt.Fprintf(out, "%-4s %-7s %-6s %-8s %-5s %s\n", "#", "Points", "Level", "Attempts", "Hints", "Solved")
	for i, r := range top {
		fmt.Fprintf(out, "%-4d %-7d %-6s %-8d %-5d %s\n",
			i+1, r.Points, r.Difficulty, r.Attempts, r.HintsUsed, r.SolvedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "\nTotal points: %d\n", total)
}

// Package render formats analysis results, diff previews, and operation
// log listings for terminal output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dekot-dev/dekot/internal/oplog"
)

const msgNoCandidates = "No destructuring candidates found"

// Candidate is one table row describing an applicable declaration.
type Candidate struct {
	Path      string `json:"path"`
	Line      uint   `json:"line"`
	Col       uint   `json:"col"`
	Kind      string `json:"kind"`
	Aggregate string `json:"aggregate"`
	Pattern   string `json:"pattern"`
	Suggested bool   `json:"suggested"`
}

// CandidateTable renders candidates as a go-pretty table.
func CandidateTable(out io.Writer, candidates []Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(out, msgNoCandidates)

		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"LOCATION", "KIND", "TYPE", "PATTERN", "SUGGESTED"})

	for _, cand := range candidates {
		suggested := ""
		if cand.Suggested {
			suggested = "yes"
		}

		tbl.AppendRow(table.Row{
			fmt.Sprintf("%s:%d:%d", cand.Path, cand.Line, cand.Col),
			cand.Kind,
			cand.Aggregate,
			cand.Pattern,
			suggested,
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(candidates))})
	tbl.Render()
}

// UnifiedDiff writes a line-level diff between before and after. Removed
// lines are prefixed with "-" and added lines with "+"; when colorize is
// set they are drawn in red and green.
func UnifiedDiff(out io.Writer, path string, before, after []byte, colorize bool) {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	fmt.Fprintf(out, "--- %s\n+++ %s\n", path, path)

	for _, diff := range diffs {
		for _, line := range splitLines(diff.Text) {
			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				if colorize {
					removed.Fprintf(out, "-%s\n", line)
				} else {
					fmt.Fprintf(out, "-%s\n", line)
				}
			case diffmatchpatch.DiffInsert:
				if colorize {
					added.Fprintf(out, "+%s\n", line)
				} else {
					fmt.Fprintf(out, "+%s\n", line)
				}
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(out, " %s\n", line)
			}
		}
	}
}

// LogTable renders operation log records, newest last.
func LogTable(out io.Writer, records []oplog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(out, "Operation log is empty")

		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"WHEN", "OP", "PATH", "SIZE", "AFTER HASH"})

	for _, rec := range records {
		delta := rec.AfterSize - rec.BeforeSize

		size := fmt.Sprintf("%s (%+d)", humanize.Bytes(uint64(rec.AfterSize)), delta) //nolint:gosec // sizes are small
		tbl.AppendRow(table.Row{
			humanize.Time(rec.Time),
			rec.Op,
			rec.Path,
			size,
			shortHash(rec.AfterHash),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d records", len(records))})
	tbl.Render()
}

// shortHashLen is the displayed prefix of a content hash.
const shortHashLen = 12

func shortHash(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}

	return hash[:shortHashLen]
}

// splitLines splits diff text into display lines, dropping the trailing
// empty element a final newline produces.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

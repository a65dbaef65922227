package converter

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Entry is the outcome of one file conversion.
type Entry struct {
	Input    string
	Output   string
	Duration time.Duration
	Err      error
}

// Report collects the entries of a run.
type Report struct {
	Mode    Mode
	Result  Result
	Entries []Entry

	// Skipped counts enumerated entries that did not match the file filter.
	Skipped int
}

// Failures returns the number of failed entries.
func (r *Report) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// RenderSummary writes a table of every entry followed by a totals row.
func RenderSummary(w io.Writer, r *Report) {
	if r == nil || len(r.Entries) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Input", "Output", "Status", "Time"})

	for _, e := range r.Entries {
		status := "converted"
		if e.Err != nil {
			status = "failed"
		}
		tw.AppendRow(table.Row{e.Input, e.Output, status, e.Duration.Round(time.Millisecond).String()})
	}

	files := fmt.Sprintf("%d files", len(r.Entries))
	if r.Skipped > 0 {
		files = fmt.Sprintf("%d files (%d skipped)", len(r.Entries), r.Skipped)
	}

	failures := r.Failures()
	tw.AppendFooter(table.Row{
		files,
		r.Mode.String(),
		fmt.Sprintf("%d failed", failures),
		r.Result.String(),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	tw.Render()
}

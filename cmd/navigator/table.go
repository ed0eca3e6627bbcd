package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/DanielFillol/CrawlerNavigator/internal/crawl"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderStats prints the run counters.
func renderStats(w io.Writer, s crawl.Stats, output string) {
	t := newTable(w)
	t.SetTitle("Run summary")
	t.AppendRows([]table.Row{
		{"Searches", s.Units},
		{"Result pages", s.Pages},
		{"Cards", s.Cards},
		{"Full profiles", s.Full},
		{"Restricted profiles", s.Restricted},
		{"Skipped cards", s.Skipped},
		{"Records written", s.Records},
	})
	t.AppendFooter(table.Row{"Output", output})
	t.Render()
}

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
)

const previewWidth = 40

var errNoOutput = errors.New("no output file found")

var defaultPreviewFields = []string{
	record.Name.String(),
	record.CurrentWorkplace.String(),
	record.CurrentPosition.String(),
	record.Location.String(),
	record.Duration.String(),
}

func newPreviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show the first rows of an output file",
		Long: `preview prints the first rows of a file written by crawl or replay. Without
an argument it picks the newest output next to the configured output path.`,
		Example: `  navigator preview
  navigator preview runs/today.db --limit 25 --fields Name,Location,Skills`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runPreview,
	}
	f := cmd.Flags()
	f.Int("limit", 10, "rows to show, 0 for all")
	f.StringSlice("fields", defaultPreviewFields, "columns to show")
	f.String("output", "", "configured output path used to find the newest file")
	bind(cmd, "output", "output")
	return cmd
}

func (a *app) runPreview(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	fields, _ := cmd.Flags().GetStringSlice("fields")

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		dir, base := filepath.Split(a.cfg.Output)
		if dir == "" {
			dir = "."
		}
		path = sink.Latest(dir, strings.TrimSuffix(base, filepath.Ext(base)))
		if path == "" {
			return fmt.Errorf("%w for %q", errNoOutput, a.cfg.Output)
		}
	}

	tbl, err := sink.ReadRows(path, limit)
	if err != nil {
		return err
	}
	cols, err := columns(tbl.Header, fields)
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout())
	t.SetTitle(filepath.Base(path))
	header := make(table.Row, 0, len(cols))
	configs := make([]table.ColumnConfig, 0, len(cols))
	for i, c := range cols {
		header = append(header, tbl.Header[c])
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			WidthMax:         previewWidth,
			WidthMaxEnforcer: text.Trim,
		})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)
	for _, row := range tbl.Rows {
		r := make(table.Row, 0, len(cols))
		for _, c := range cols {
			v := ""
			if c < len(row) {
				v = strings.ReplaceAll(row[c], "\n", " | ")
			}
			r = append(r, v)
		}
		t.AppendRow(r)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", len(tbl.Rows), tbl.Total)})
	t.Render()
	return nil
}

// columns maps field names to header indexes, case-insensitively.
func columns(header, fields []string) ([]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(h)] = i
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		i, ok := idx[strings.ToLower(strings.TrimSpace(f))]
		if !ok {
			return nil, fmt.Errorf("unknown field %q (have %s)", f, strings.Join(header, ", "))
		}
		out = append(out, i)
	}
	return out, nil
}

package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

// SheetName is the worksheet records are written to.
const SheetName = "Profiles"

// XLSX writes records to a workbook and saves it after every row.
type XLSX struct {
	path string
	f    *excelize.File
	row  int
}

// NewXLSX creates the workbook at path with its header row.
func NewXLSX(path string) (*XLSX, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	x := &XLSX{path: path, f: f}
	if err := x.writeRow(record.Header()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return x, nil
}

func (x *XLSX) writeRow(values []string) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := x.f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", x.row, err)
	}
	if err := x.f.SaveAs(x.path); err != nil {
		return fmt.Errorf("saving %s: %w", x.path, err)
	}
	return nil
}

func (x *XLSX) Append(ctx context.Context, r *record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return x.writeRow(r.Values())
}

func (x *XLSX) Close() error { return x.f.Close() }

func (x *XLSX) Path() string { return x.path }

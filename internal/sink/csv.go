package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

// utf8BOM lets spreadsheet apps detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV writes records as UTF-8 CSV, flushed and synced after every row.
type CSV struct {
	path string
	f    *os.File
	w    *csv.Writer
}

// NewCSV creates the file at path and writes the header row.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(utf8BOM); err != nil {
		_ = f.Close()
		return nil, err
	}
	c := &CSV{path: path, f: f, w: csv.NewWriter(f)}
	if err := c.write(record.Header()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, nil
}

func (c *CSV) write(values []string) error {
	if err := c.w.Write(values); err != nil {
		return err
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	return c.f.Sync()
}

func (c *CSV) Append(ctx context.Context, r *record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(r.Values()); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	return nil
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

func (c *CSV) Path() string { return c.path }

package sink

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is the header and the first rows of a written output.
type Table struct {
	Header []string
	Rows   [][]string
	// Total is the number of data rows in the file, which may exceed
	// len(Rows) when a limit was applied.
	Total int
}

// ReadRows reads at most limit data rows (all when limit <= 0) from an output
// file, choosing the reader by extension.
func ReadRows(path string, limit int) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	case ".db", ".sqlite":
		rows, err = readSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	t := &Table{Header: rows[0], Total: len(rows) - 1}
	data := rows[1:]
	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	t.Rows = data
	return t, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func readSQLite(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	defer db.Close()

	res, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY id", TableName))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", path, err)
	}
	defer res.Close()

	cols, err := res.Columns()
	if err != nil {
		return nil, err
	}
	// drop the id column
	out := [][]string{cols[1:]}
	for res.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := res.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(cols)-1)
		for i := range row {
			row[i] = vals[i+1].String
		}
		out = append(out, row)
	}
	return out, res.Err()
}

// Latest returns the most recently modified output file in dir whose name
// starts with prefix, or "" when there is none.
func Latest(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var (
		best    string
		bestMod int64
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".csv", ".db", ".sqlite":
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			best, bestMod = filepath.Join(dir, e.Name()), mod
		}
	}
	return best
}

package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

// TableName is the table records are inserted into.
const TableName = "profiles"

// SQLite inserts one row per record. Each insert autocommits.
type SQLite struct {
	path   string
	db     *sql.DB
	insert string
}

// NewSQLite opens (or creates) the database at path and its table. Columns
// are the canonical field names, in order.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	header := record.Header()
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h)
		marks[i] = "?"
	}
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		%s TEXT NOT NULL
	)`, TableName, strings.Join(cols, " TEXT NOT NULL,\n\t\t"))
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLite{
		path:   path,
		db:     db,
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", TableName, strings.Join(cols, ", "), strings.Join(marks, ", ")),
	}, nil
}

func (s *SQLite) Append(ctx context.Context, r *record.Record) error {
	values := r.Values()
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	if _, err := s.db.ExecContext(ctx, s.insert, args...); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Path() string { return s.path }

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

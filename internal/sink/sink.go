// Package sink persists completed records. Every sink writes one header row
// of canonical field names and makes each appended row durable before Append
// returns, so an interrupted crawl keeps everything written so far.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

// ErrUnknownFormat is returned by Open for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatXLSX   = "xlsx"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Formats lists the supported formats.
var Formats = []string{FormatXLSX, FormatCSV, FormatSQLite}

// Sink is a durable destination for records.
type Sink interface {
	Append(ctx context.Context, r *record.Record) error
	Close() error
	// Path is the file the sink writes to.
	Path() string
}

// Open creates a sink of the given format at path. The format's extension is
// added to path when missing.
func Open(format, path string) (Sink, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return NewXLSX(withExt(path, ".xlsx"))
	case FormatCSV:
		return NewCSV(withExt(path, ".csv"))
	case FormatSQLite:
		return NewSQLite(withExt(path, ".db"))
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	if ext == ".db" && strings.EqualFold(filepath.Ext(path), ".sqlite") {
		return path
	}
	return path + ext
}

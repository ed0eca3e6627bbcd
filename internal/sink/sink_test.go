package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

func sampleRecords() []*record.Record {
	full := record.New()
	full.Set(record.Name, "Ada Lovelace")
	full.Set(record.Skills, "Mathematics.12\nPoetry.3")
	full.Set(record.Contact, "ada@example.com\nmailto:ada@example.com")

	restricted := record.New()
	restricted.Set(record.Name, "Grace Hopper")
	restricted.Set(record.Education, "Yale University\nVassar College")
	return []*record.Record{full, restricted}
}

func TestSinks_RowsPersistBeforeClose(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			s, err := Open(format, filepath.Join(t.TempDir(), "out", "output"))
			require.NoError(t, err)
			defer s.Close()

			recs := sampleRecords()
			for _, r := range recs {
				require.NoError(t, s.Append(context.Background(), r))
			}

			// read while the sink is still open, as after a crash
			table, err := ReadRows(s.Path(), 0)
			require.NoError(t, err)
			assert.Equal(t, record.Header(), table.Header)
			require.Len(t, table.Rows, len(recs))
			assert.Equal(t, 2, table.Total)
			for i, r := range recs {
				assert.Equal(t, r.Values(), table.Rows[i])
			}
			assert.Equal(t, record.Placeholder, table.Rows[1][int(record.Summary)])
		})
	}
}

func TestOpen_AddsExtension(t *testing.T) {
	dir := t.TempDir()
	for format, want := range map[string]string{
		FormatXLSX:   "output.xlsx",
		FormatCSV:    "output.csv",
		FormatSQLite: "output.db",
	} {
		s, err := Open(format, filepath.Join(dir, "output"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, want), s.Path())
		require.NoError(t, s.Close())
	}

	s, err := Open("CSV", filepath.Join(dir, "already.csv"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "already.csv"), s.Path())
	require.NoError(t, s.Close())
}

func TestOpen_UnknownFormat(t *testing.T) {
	_, err := Open("parquet", filepath.Join(t.TempDir(), "output"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.False(t, ValidFormat("parquet"))
	assert.True(t, ValidFormat("XLSX"))
}

func TestReadRows_Limit(t *testing.T) {
	s, err := NewCSV(filepath.Join(t.TempDir(), "output.csv"))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(context.Background(), sampleRecords()[0]))
	}
	require.NoError(t, s.Close())

	table, err := ReadRows(s.Path(), 2)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 5, table.Total)
	assert.Equal(t, "Name", table.Header[0], "byte order mark is stripped")
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Latest(dir, "output"))

	older := filepath.Join(dir, "output_1.csv")
	newer := filepath.Join(dir, "output_2.xlsx")
	require.NoError(t, os.WriteFile(older, nil, 0o644))
	require.NoError(t, os.WriteFile(newer, nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output_3.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), nil, 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	assert.Equal(t, newer, Latest(dir, "output"))
}

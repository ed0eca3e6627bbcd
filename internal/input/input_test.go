package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUnits(t *testing.T) {
	in := strings.NewReader("software engineer,London\n\n   \n“data” analyst,Lagos, Nigeria\ncto\n")

	units, err := ReadUnits(in)
	require.NoError(t, err)
	assert.Equal(t, []SearchUnit{
		{Keyword: "software engineer", Geography: "London"},
		{Keyword: `"data" analyst`, Geography: "Lagos, Nigeria"},
		{Keyword: "cto"},
	}, units)
}

func TestReadUnits_Empty(t *testing.T) {
	_, err := ReadUnits(strings.NewReader("\n \n,London\n"))
	assert.ErrorIs(t, err, ErrNoUnits)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	require.NoError(t, os.WriteFile(path, []byte("recruiter,Berlin\n"), 0o644))

	units, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "recruiter,Berlin", units[0].String())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	name, err := Prompt(strings.NewReader("  keywords.txt \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "keywords.txt", name)
	assert.Contains(t, out.String(), PromptText)

	name, err = Prompt(strings.NewReader("last-line.txt"), &out)
	require.NoError(t, err)
	assert.Equal(t, "last-line.txt", name)

	_, err = Prompt(strings.NewReader(""), &out)
	assert.Error(t, err)
}

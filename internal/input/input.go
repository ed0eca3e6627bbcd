// Package input reads the search units a crawl runs over.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptText is shown when no input file was given.
const PromptText = "Enter a valid filename: "

// ErrNoUnits is returned for an input without any search unit.
var ErrNoUnits = errors.New("no keywords in the file specified")

// SearchUnit is one "keyword,geography" line. Geography is optional.
type SearchUnit struct {
	Keyword   string
	Geography string
}

func (u SearchUnit) String() string {
	if u.Geography == "" {
		return u.Keyword
	}
	return u.Keyword + "," + u.Geography
}

// ParseUnit parses one input line. Everything after the first comma is the
// geography, so "engineer,London, UK" keeps its full location.
func ParseUnit(line string) (SearchUnit, bool) {
	line = clean(sanitizeQuotes(line))
	if line == "" {
		return SearchUnit{}, false
	}
	keyword, geo, _ := strings.Cut(line, ",")
	u := SearchUnit{Keyword: clean(keyword), Geography: clean(geo)}
	if u.Keyword == "" {
		return SearchUnit{}, false
	}
	return u, true
}

// ReadUnits reads every unit from r, skipping blank lines.
func ReadUnits(r io.Reader) ([]SearchUnit, error) {
	var units []SearchUnit
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if u, ok := ParseUnit(sc.Text()); ok {
			units = append(units, u)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading search units: %w", err)
	}
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	return units, nil
}

// ReadFile reads the units in the file at path.
func ReadFile(path string) ([]SearchUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("you might have to check the file name: %w", err)
	}
	defer f.Close()
	return ReadUnits(f)
}

// Prompt asks for a filename on out and reads one line from in.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "\a"+PromptText); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading filename: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// sanitizeQuotes turns typographic quotes into ASCII ones.
func sanitizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "‟", `"`, "〝", `"`, "〞", `"`,
	"‘", "'", "’", "'", "‛", "'", "‚", "'", "‹", "'", "›", "'",
)

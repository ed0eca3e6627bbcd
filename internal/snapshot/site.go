// Package snapshot serves captured pages through the browser.Page interface
// so traversal and extraction can run without Chrome, and captures the pages
// a live crawl visits.
package snapshot

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IndexFile is the name of the index written next to captured pages.
const IndexFile = "index.yaml"

// ErrNotCaptured is returned when navigating to a URL the site does not hold.
var ErrNotCaptured = errors.New("page not captured")

// Start is the first result page of one search unit.
type Start struct {
	URL   string `yaml:"url"`
	Query string `yaml:"query,omitempty"`
}

// index is the on-disk layout of IndexFile.
type index struct {
	Starts []Start           `yaml:"starts"`
	Pages  map[string]string `yaml:"pages"`
}

// Site is a set of captured pages keyed by URL.
type Site struct {
	Starts []Start
	pages  map[string]string
}

// NewSite returns an empty site.
func NewSite() *Site {
	return &Site{pages: make(map[string]string)}
}

// Add registers html under rawURL, replacing any earlier capture.
func (s *Site) Add(rawURL, html string) {
	s.pages[canonical(rawURL)] = html
}

// Lookup returns the page captured for rawURL.
func (s *Site) Lookup(rawURL string) (string, bool) {
	html, ok := s.pages[canonical(rawURL)]
	return html, ok
}

// Len returns the number of captured pages.
func (s *Site) Len() int { return len(s.pages) }

// LoadDir reads a directory written by a Dumper.
func LoadDir(dir string) (*Site, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot index: %w", err)
	}
	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing snapshot index: %w", err)
	}

	site := NewSite()
	site.Starts = idx.Starts
	for u, name := range idx.Pages {
		body, err := os.ReadFile(filepath.Join(dir, filepath.Base(name)))
		if err != nil {
			return nil, fmt.Errorf("reading snapshot of %s: %w", u, err)
		}
		site.Add(u, string(body))
	}
	return site, nil
}

// canonical drops the fragment and a trailing slash so captures match the
// URLs the crawler builds.
func canonical(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

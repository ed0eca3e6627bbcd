package snapshot

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
)

// Dumper saves pages as <sha1(url)>.html in a directory and keeps the index
// current after every capture, so a partial run can still be replayed.
type Dumper struct {
	dir string

	mu  sync.Mutex
	idx index
}

// NewDumper creates dir when needed and continues any index already in it.
func NewDumper(dir string) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dump dir: %w", err)
	}
	d := &Dumper{dir: dir, idx: index{Pages: make(map[string]string)}}

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &d.idx); err != nil {
			return nil, fmt.Errorf("parsing existing snapshot index: %w", err)
		}
		if d.idx.Pages == nil {
			d.idx.Pages = make(map[string]string)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading snapshot index: %w", err)
	}
	return d, nil
}

// Dir returns the dump directory.
func (d *Dumper) Dir() string { return d.dir }

// Save writes html for rawURL.
func (d *Dumper) Save(rawURL, html string) error {
	key := canonical(rawURL)
	sum := sha1.Sum([]byte(key))
	name := hex.EncodeToString(sum[:]) + ".html"
	if err := os.WriteFile(filepath.Join(d.dir, name), []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.idx.Pages[key] = name
	return d.flush()
}

// Capture saves the current document of p under its current URL.
func (d *Dumper) Capture(ctx context.Context, p browser.Page) error {
	u, err := p.URL(ctx)
	if err != nil {
		return err
	}
	html, err := p.HTML(ctx)
	if err != nil {
		return err
	}
	return d.Save(u, html)
}

// MarkStart records rawURL as the first result page of query.
func (d *Dumper) MarkStart(rawURL, query string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.idx.Starts = append(d.idx.Starts, Start{URL: canonical(rawURL), Query: query})
	return d.flush()
}

func (d *Dumper) flush() error {
	data, err := yaml.Marshal(&d.idx)
	if err != nil {
		return fmt.Errorf("encoding snapshot index: %w", err)
	}
	tmp := filepath.Join(d.dir, IndexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot index: %w", err)
	}
	return os.Rename(tmp, filepath.Join(d.dir, IndexFile))
}

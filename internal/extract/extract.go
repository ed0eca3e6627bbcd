// Package extract reads profile fields off a page into a record.Record.
//
// Extraction is a list of Steps run in order. Each step is retry-guarded on
// its own: a step that keeps failing leaves its fields at the placeholder and
// the next step runs anyway. Only a cancelled context stops the pipeline.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/retry"
)

// errStale marks an element that was found but could not be read.
var errStale = errors.New("element found but not readable")

// Step populates one or more fields of r from p. scope limits lookups to a
// subtree when non-nil.
type Step struct {
	Name   string
	Policy retry.Policy
	Run    func(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error
}

// Assemble seeds a record with placeholders and applies steps to it.
func Assemble(ctx context.Context, p browser.Page, scope browser.Element, steps []Step) (*record.Record, error) {
	r := record.New()
	if err := Apply(ctx, p, scope, r, steps); err != nil {
		return r, err
	}
	return r, nil
}

// Apply runs steps against an existing record.
func Apply(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record, steps []Step) error {
	for _, s := range steps {
		err := retry.Run(ctx, s.Policy, s.Name, func(ctx context.Context) error {
			return s.Run(ctx, p, scope, r)
		})
		if err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}
	}
	return nil
}

// Extractor builds the step lists over one locator catalog.
type Extractor struct {
	cat *locator.Catalog
}

// New returns an Extractor reading selectors from cat.
func New(cat *locator.Catalog) *Extractor {
	return &Extractor{cat: cat}
}

func (x *Extractor) loc(key string) locator.Strategy { return x.cat.Get(key) }

// text reads the first match of key. A missing element is absent; an element
// whose text cannot be read is errStale.
func (x *Extractor) text(ctx context.Context, p browser.Page, key string, scope browser.Element) (string, bool, error) {
	el, ok := p.FindOne(ctx, x.loc(key), scope)
	if !ok {
		return "", false, nil
	}
	s, ok := p.Text(ctx, el)
	if !ok {
		return "", false, fmt.Errorf("%s: %w", key, errStale)
	}
	return strings.TrimSpace(s), true, nil
}

// texts reads every match of key after scrolling the last one into view.
// Blank items are dropped.
func (x *Extractor) texts(ctx context.Context, p browser.Page, key string, scope browser.Element) ([]string, error) {
	els, ok := p.FindAll(ctx, x.loc(key), scope)
	if !ok {
		return nil, nil
	}
	if err := p.ScrollIntoView(ctx, els[len(els)-1]); err != nil {
		return nil, fmt.Errorf("%s: scrolling: %w", key, err)
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		s, ok := p.Text(ctx, el)
		if !ok {
			return nil, fmt.Errorf("%s: %w", key, errStale)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// set stores text in f and logs the populated field.
func set(ctx context.Context, r *record.Record, f record.Field, text string) {
	if r.Set(f, text) {
		logger.FromContext(ctx).Debug("field extracted",
			logger.String("field", f.String()),
			logger.Int("chars", len(text)),
		)
	}
}

// textStep reads a single element into f.
func (x *Extractor) textStep(name, key string, f record.Field) Step {
	return Step{
		Name:   name,
		Policy: retry.FieldRead,
		Run: func(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
			s, ok, err := x.text(ctx, p, key, scope)
			if err != nil || !ok {
				return err
			}
			set(ctx, r, f, s)
			return nil
		},
	}
}

// listStep reads every match of key into f, joined by sep.
func (x *Extractor) listStep(name, key string, f record.Field, sep string) Step {
	return Step{
		Name:   name,
		Policy: retry.FieldRead,
		Run: func(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
			items, err := x.texts(ctx, p, key, scope)
			if err != nil {
				return err
			}
			set(ctx, r, f, strings.Join(items, sep))
			return nil
		},
	}
}

// expand clicks a "show more" affordance under the Expand policy. Running out
// of attempts is not an error: the step reads whatever is visible.
func expand(ctx context.Context, p browser.Page, el browser.Element, name string) error {
	return retry.Run(ctx, retry.Expand, name, func(ctx context.Context) error {
		if err := p.ScrollIntoView(ctx, el); err != nil {
			return err
		}
		return p.Click(ctx, el)
	})
}

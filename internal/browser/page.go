// Package browser drives the Chrome session the crawler reads pages through.
//
// Page is the element accessor every extraction step uses. Lookups never
// fail: a missing element, an expired wait or an empty result set all come
// back as absent (ok == false), so call sites have a single presence check.
package browser

import (
	"context"

	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
)

// Element is an opaque handle to a node of the page that produced it.
// Handles go stale once their tab navigates away.
type Element any

// Page is one browser tab.
type Page interface {
	// FindOne returns the first match of s, searched inside scope when scope
	// is non-nil.
	FindOne(ctx context.Context, s locator.Strategy, scope Element) (Element, bool)
	// FindAll returns every match of s; an empty result is absent.
	FindAll(ctx context.Context, s locator.Strategy, scope Element) ([]Element, bool)
	// Text returns the rendered text of el.
	Text(ctx context.Context, el Element) (string, bool)
	// Attr returns the named property or attribute of el.
	Attr(ctx context.Context, el Element, name string) (string, bool)

	ScrollIntoView(ctx context.Context, el Element) error
	// Click clicks el from script, which works on obscured elements.
	Click(ctx context.Context, el Element) error
	// Fill clears the input el and types text into it.
	Fill(ctx context.Context, el Element, text string) error

	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
}

// Browser owns the tabs of one session.
type Browser interface {
	Pages(ctx context.Context) ([]Page, error)
	NewPage(ctx context.Context) (Page, error)
	Activate(ctx context.Context, p Page) error
}

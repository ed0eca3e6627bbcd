package browser

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTabs is returned when the browser reports no open tab.
var ErrNoTabs = errors.New("browser has no open tab")

// Tab indexes.
const (
	ListTab    = 0
	ScratchTab = 1
)

// Tabs is the fixed two-tab set of a crawl: the result list stays in
// ListTab while detail pages are opened in ScratchTab.
type Tabs struct {
	b       Browser
	handles []Page
	active  int
}

// NewTabs makes sure the browser has a second tab and freezes the handle
// list. The list tab is active on return.
func NewTabs(ctx context.Context, b Browser) (*Tabs, error) {
	pages, err := b.Pages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrNoTabs
	}
	if len(pages) == 1 {
		p, err := b.NewPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("opening scratch tab: %w", err)
		}
		pages = append(pages, p)
	}
	t := &Tabs{
		b:       b,
		handles: []Page{pages[0], pages[len(pages)-1]},
	}
	if err := t.Switch(ctx, ListTab); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the result-list tab.
func (t *Tabs) List() Page { return t.handles[ListTab] }

// Scratch returns the detail tab.
func (t *Tabs) Scratch() Page { return t.handles[ScratchTab] }

// Active returns the index of the active tab.
func (t *Tabs) Active() int { return t.active }

// Len returns the number of handles, always two.
func (t *Tabs) Len() int { return len(t.handles) }

// Switch activates the tab at index i.
func (t *Tabs) Switch(ctx context.Context, i int) error {
	if i < 0 || i >= len(t.handles) {
		return fmt.Errorf("tab index %d out of range", i)
	}
	if err := t.b.Activate(ctx, t.handles[i]); err != nil {
		return fmt.Errorf("switching to tab %d: %w", i, err)
	}
	t.active = i
	return nil
}

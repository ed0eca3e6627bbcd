// Package crawl drives a search through its result pages and turns every
// result card into a record.
//
// The list of results stays in the list tab for the whole traversal; detail
// pages are opened in the scratch tab, and the list tab is active again
// before the next card is touched.
package crawl

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/extract"
	"github.com/DanielFillol/CrawlerNavigator/internal/input"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
	"github.com/DanielFillol/CrawlerNavigator/internal/snapshot"
)

// ErrNoProfileLink marks a result card without a profile link.
var ErrNoProfileLink = errors.New("result card has no profile link")

// Config tunes a crawl.
type Config struct {
	BaseURL          string
	RestrictedMarker string
	// MaxPages stops traversal after that many result pages; 0 means no cap.
	MaxPages int
	Pace     Pacer
}

// Stats counts what a crawl did.
type Stats struct {
	Units      int
	Pages      int
	Cards      int
	Full       int
	Restricted int
	Skipped    int
	Records    int
}

// Crawler runs searches over one pair of tabs and writes to one sink.
type Crawler struct {
	cfg   Config
	cat   *locator.Catalog
	x     *extract.Extractor
	tabs  *browser.Tabs
	out   sink.Sink
	dump  *snapshot.Dumper
	stats Stats

	// beforeCard runs before each card is processed.
	beforeCard func(ctx context.Context)
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDumper saves every page the crawler reads into d.
func WithDumper(d *snapshot.Dumper) Option {
	return func(c *Crawler) { c.dump = d }
}

// New returns a crawler. cat must hold every locator.CrawlKeys entry.
func New(cfg Config, cat *locator.Catalog, tabs *browser.Tabs, out sink.Sink, opts ...Option) *Crawler {
	if cfg.RestrictedMarker == "" {
		cfg.RestrictedMarker = DefaultRestrictedMarker
	}
	c := &Crawler{
		cfg:  cfg,
		cat:  cat,
		x:    extract.New(cat),
		tabs: tabs,
		out:  out,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stats returns the counters so far.
func (c *Crawler) Stats() Stats { return c.stats }

// Run searches every unit in turn and traverses its results. A unit whose
// search cannot be entered is skipped; any other error ends the run.
func (c *Crawler) Run(ctx context.Context, units []input.SearchUnit) error {
	log := logger.FromContext(ctx)
	for i, u := range units {
		ulog := log.With(logger.String("query", u.String()), logger.Int("unit", i+1), logger.Int("units", len(units)))
		uctx := logger.WithContext(ctx, ulog)
		c.stats.Units++

		if err := c.tabs.Switch(uctx, browser.ListTab); err != nil {
			return err
		}
		ulog.Info("starting search")
		if err := Search(uctx, c.tabs.List(), c.cat, c.cfg.BaseURL, u); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ulog.Error("search failed, skipping unit", logger.Error(err))
			continue
		}
		if err := c.Traverse(uctx, u.String()); err != nil {
			return err
		}
	}
	return nil
}

// TraverseFrom loads startURL in the list tab and traverses from there.
func (c *Crawler) TraverseFrom(ctx context.Context, startURL, query string) error {
	if err := c.tabs.Switch(ctx, browser.ListTab); err != nil {
		return err
	}
	if err := c.tabs.List().Navigate(ctx, startURL); err != nil {
		return err
	}
	return c.Traverse(ctx, query)
}

// Traverse processes the result page currently loaded in the list tab and
// every page after it, until a page shows the no-results marker.
func (c *Crawler) Traverse(ctx context.Context, query string) error {
	list := c.tabs.List()
	log := logger.FromContext(ctx)

	for page := 1; ; page++ {
		if page > 1 {
			if c.cfg.MaxPages > 0 && page > c.cfg.MaxPages {
				log.Warn("page cap reached", logger.Int("max_pages", c.cfg.MaxPages))
				return nil
			}
			current, err := list.URL(ctx)
			if err != nil {
				return err
			}
			next, err := withPage(current, page)
			if err != nil {
				return err
			}
			if err := c.cfg.Pace.Wait(ctx); err != nil {
				return err
			}
			if err := list.Navigate(ctx, next); err != nil {
				return err
			}
		}

		plog := log.With(logger.Int("page", page))
		pctx := logger.WithContext(ctx, plog)
		c.capture(pctx, list, query, page == 1)

		if _, done := list.FindOne(pctx, c.cat.Get(locator.ResultPageNoResults), nil); done {
			plog.Info("no more results")
			return nil
		}
		cards, ok := list.FindAll(pctx, c.cat.Get(locator.SearchResultItems), nil)
		if !ok {
			plog.Warn("page has neither results nor the no-results marker, stopping")
			return nil
		}
		c.stats.Pages++
		plog.Info("processing page", logger.Int("cards", len(cards)))

		for i, card := range cards {
			cctx := logger.WithContext(pctx, plog.With(logger.Int("card", i+1)))
			if err := c.processCard(cctx, card, query); err != nil {
				return err
			}
		}
	}
}

// processCard turns one result card into a record and appends it to the
// sink. Whatever happens, the list tab is active again on return.
func (c *Crawler) processCard(ctx context.Context, card browser.Element, query string) (err error) {
	c.stats.Cards++
	if c.beforeCard != nil {
		c.beforeCard(ctx)
	}
	log := logger.FromContext(ctx)
	list, scratch := c.tabs.List(), c.tabs.Scratch()

	defer func() {
		if serr := c.tabs.Switch(ctx, browser.ListTab); serr != nil && err == nil {
			err = serr
		}
	}()

	_ = list.ScrollIntoView(ctx, card)
	link, ok := c.x.ProfileLink(ctx, list, card)
	if !ok {
		c.stats.Skipped++
		log.Warn("skipping card", logger.Error(ErrNoProfileLink))
		return nil
	}

	rel := Classify(link, c.cfg.RestrictedMarker)
	log = log.With(logger.String("relationship", rel.String()), logger.String("profile", link))
	ctx = logger.WithContext(ctx, log)

	var r *record.Record
	switch rel {
	case record.Restricted:
		// card fields first, while the card is still on screen
		r, err = extract.Assemble(ctx, list, card, c.x.CardSteps())
		if err != nil {
			return err
		}
		if err := c.visit(ctx, scratch, link); err != nil {
			return err
		}
		if err := extract.Apply(ctx, scratch, nil, r, c.x.RestrictedSteps()); err != nil {
			return err
		}
		c.stats.Restricted++
	default:
		if err := c.visit(ctx, scratch, link); err != nil {
			return err
		}
		r, err = extract.Assemble(ctx, scratch, nil, c.x.ProfileSteps())
		if err != nil {
			return err
		}
		c.stats.Full++
	}
	c.capture(ctx, scratch, "", false)

	r.ProfileURL, r.Relationship, r.Query = link, rel, query
	if err := c.out.Append(ctx, r); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	c.stats.Records++
	log.Info("record written", logger.String("name", r.Get(record.Name)))
	return nil
}

// visit opens link in the scratch tab.
func (c *Crawler) visit(ctx context.Context, scratch browser.Page, link string) error {
	if err := c.tabs.Switch(ctx, browser.ScratchTab); err != nil {
		return err
	}
	if err := c.cfg.Pace.Wait(ctx); err != nil {
		return err
	}
	return scratch.Navigate(ctx, link)
}

// capture saves p when dumping is on. Dump failures are logged only.
func (c *Crawler) capture(ctx context.Context, p browser.Page, query string, start bool) {
	if c.dump == nil {
		return
	}
	log := logger.FromContext(ctx)
	if err := c.dump.Capture(ctx, p); err != nil {
		log.Warn("saving page snapshot failed", logger.Error(err))
		return
	}
	if !start {
		return
	}
	u, err := p.URL(ctx)
	if err == nil {
		err = c.dump.MarkStart(u, query)
	}
	if err != nil {
		log.Warn("recording snapshot start failed", logger.Error(err))
	}
}

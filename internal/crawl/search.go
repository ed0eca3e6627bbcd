package crawl

import (
	"context"
	"errors"
	"strings"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/input"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/retry"
)

// SearchPath is the people search page, relative to the base URL.
const SearchPath = "/sales/search/people"

// submitKey is typed after the keywords to run the search.
const submitKey = "\r"

// Search opens the people search in p and enters unit. Entering the
// keywords must succeed; a geography that cannot be applied is logged and
// the search runs without it.
func Search(ctx context.Context, p browser.Page, cat *locator.Catalog, baseURL string, unit input.SearchUnit) error {
	log := logger.FromContext(ctx).With(logger.String("query", unit.String()))

	if err := p.Navigate(ctx, strings.TrimRight(baseURL, "/")+SearchPath); err != nil {
		return err
	}

	err := retry.Run(ctx, retry.Expand.Strict(), "enter_keywords", func(ctx context.Context) error {
		in, ok := p.FindOne(ctx, cat.Get(locator.SearchKeywordsInput), nil)
		if !ok {
			return errors.New("keywords input not found")
		}
		return p.Fill(ctx, in, unit.Keyword+submitKey)
	})
	if err != nil {
		return err
	}

	if unit.Geography == "" {
		return nil
	}
	applied := false
	err = retry.Run(ctx, retry.Expand, "enter_geography", func(ctx context.Context) error {
		filter, ok := p.FindOne(ctx, cat.Get(locator.SearchGeographyFilter), nil)
		if !ok {
			return errors.New("geography filter not found")
		}
		if err := p.Click(ctx, filter); err != nil {
			return err
		}
		in, ok := p.FindOne(ctx, cat.Get(locator.SearchGeographyInput), filter)
		if !ok {
			return errors.New("geography input not found")
		}
		if err := p.Fill(ctx, in, unit.Geography); err != nil {
			return err
		}
		// first suggestion
		sug, ok := p.FindOne(ctx, cat.Get(locator.SearchGeographySuggestion), filter)
		if !ok {
			return errors.New("no geography suggestion")
		}
		if err := p.Click(ctx, sug); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return err
	}
	if !applied {
		log.Warn("geography filter not applied", logger.String("geography", unit.Geography))
	}
	return nil
}

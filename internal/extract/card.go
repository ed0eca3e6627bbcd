package extract

import (
	"context"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/retry"
)

// CardSteps reads a result card. Run them with the card as scope, before the
// list tab navigates anywhere.
func (x *Extractor) CardSteps() []Step {
	return []Step{
		x.textStep("card_name", locator.CardName, record.Name),
		x.textStep("card_current_workplace", locator.CardCurrentWorkplace, record.CurrentWorkplace),
		x.textStep("card_duration", locator.CardDuration, record.Duration),
		x.textStep("card_location", locator.CardLocation, record.Location),
		{Name: "card_previous_workplace", Policy: retry.FieldRead, Run: x.previousWorkplace},
	}
}

// RestrictedSteps reads what a restricted profile page shows beyond the card.
func (x *Extractor) RestrictedSteps() []Step {
	return []Step{
		x.listStep("topcard_educations", locator.ProfileTopcardEducations, record.Education, "\n"),
	}
}

func (x *Extractor) previousWorkplace(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	if more, ok := p.FindOne(ctx, x.loc(locator.CardShowMore), scope); ok {
		if err := p.Click(ctx, more); err != nil {
			return err
		}
	}
	s, ok, err := x.text(ctx, p, locator.CardPreviousWorkplace, scope)
	if err != nil || !ok {
		return err
	}
	set(ctx, r, record.Experience, s)
	return nil
}

// ProfileLink returns the href of the card's profile anchor.
func (x *Extractor) ProfileLink(ctx context.Context, p browser.Page, card browser.Element) (string, bool) {
	a, ok := p.FindOne(ctx, x.loc(locator.CardProfileLink), card)
	if !ok {
		return "", false
	}
	return p.Attr(ctx, a, "href")
}

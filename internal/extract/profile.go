package extract

import (
	"context"
	"strings"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/record"
	"github.com/DanielFillol/CrawlerNavigator/internal/retry"
)

// ProfileSteps returns the full-profile pipeline in page order.
func (x *Extractor) ProfileSteps() []Step {
	return []Step{
		{Name: "identity", Policy: retry.FieldRead, Run: x.identity},
		x.textStep("duration", locator.ProfileDuration, record.Duration),
		x.textStep("current_position", locator.ProfileCurrentPosition, record.CurrentPosition),
		{Name: "summary", Policy: retry.FieldRead, Run: x.summary},
		{Name: "contacts", Policy: retry.FieldRead, Run: x.contacts},
		x.textStep("current_workplace", locator.ProfileCurrentWorkplace, record.CurrentWorkplace),
		x.listStep("education", locator.ProfileEducationHistory, record.Education, "\n\n"),
		{Name: "experience", Policy: retry.FieldRead, Run: x.experience},
		{Name: "skills", Policy: retry.FieldRead, Run: x.skills},
		x.listStep("accomplishments", locator.ProfileAccomplishments, record.Accomplishments, "\n\n"),
		x.listStep("recommendations", locator.ProfileRecommendations, record.Recommendations, "\n\n"),
		{Name: "interests", Policy: retry.FieldRead, Run: x.interests},
	}
}

// identity reads name, photo, location and connections from the top card.
func (x *Extractor) identity(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	for _, t := range []struct {
		key   string
		field record.Field
	}{
		{locator.ProfileName, record.Name},
		{locator.ProfileLocation, record.Location},
		{locator.ProfileConnections, record.Connections},
	} {
		s, ok, err := x.text(ctx, p, t.key, scope)
		if err != nil {
			return err
		}
		if ok {
			set(ctx, r, t.field, s)
		}
	}
	if img, ok := p.FindOne(ctx, x.loc(locator.ProfilePhoto), scope); ok {
		if src, ok := p.Attr(ctx, img, "src"); ok {
			set(ctx, r, record.Photo, src)
		}
	}
	return nil
}

// summary reads the top-card summary. A truncated summary carries a button
// that opens the full text in a modal; the modal is read and dismissed.
func (x *Extractor) summary(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	el, ok := p.FindOne(ctx, x.loc(locator.ProfileSummary), scope)
	if !ok {
		return nil
	}
	more, ok := p.FindOne(ctx, x.loc(locator.ProfileSummaryShowMore), el)
	if !ok {
		s, ok := p.Text(ctx, el)
		if !ok {
			return errStale
		}
		set(ctx, r, record.Summary, strings.TrimSpace(s))
		return nil
	}

	if err := expand(ctx, p, more, "summary_show_more"); err != nil {
		return err
	}
	s, _, err := x.text(ctx, p, locator.ProfileSummaryModal, nil)
	if err != nil {
		return err
	}
	if okBtn, found := p.FindOne(ctx, x.loc(locator.ProfileSummaryModalOK), nil); found {
		if err := p.Click(ctx, okBtn); err != nil {
			return err
		}
	}
	set(ctx, r, record.Summary, s)
	return nil
}

// contacts joins every contact item as "label\nhref". Items without a link
// keep the label alone.
func (x *Extractor) contacts(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	items, ok := p.FindAll(ctx, x.loc(locator.ProfileContacts), scope)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		label, ok, err := x.text(ctx, p, locator.ProfileContactText, item)
		if err != nil {
			return err
		}
		if !ok || label == "" {
			continue
		}
		if a, found := p.FindOne(ctx, x.loc(locator.ProfileContactLink), item); found {
			if href, ok := p.Attr(ctx, a, "href"); ok {
				label += "\n" + href
			}
		}
		out = append(out, label)
	}
	set(ctx, r, record.Contact, strings.Join(out, "\n\n"))
	return nil
}

// experience expands the positions list and joins every position.
func (x *Extractor) experience(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	if more, ok := p.FindOne(ctx, x.loc(locator.ProfileExperienceShowMore), scope); ok {
		if err := expand(ctx, p, more, "experience_show_more"); err != nil {
			return err
		}
	}
	items, err := x.texts(ctx, p, locator.ProfilePositions, scope)
	if err != nil {
		return err
	}
	set(ctx, r, record.Experience, strings.Join(items, "\n\n"))
	return nil
}

// skills expands the skills section and writes one pill per line, with the
// endorsement count folded in after a dot.
func (x *Extractor) skills(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	section, ok := p.FindOne(ctx, x.loc(locator.ProfileSkills), scope)
	if !ok {
		return nil
	}
	if more, ok := p.FindOne(ctx, x.loc(locator.ProfileSkillsShowMore), section); ok {
		if err := expand(ctx, p, more, "skills_show_more"); err != nil {
			return err
		}
	}
	pills, err := x.texts(ctx, p, locator.ProfileSkillPills, section)
	if err != nil {
		return err
	}
	for i, s := range pills {
		pills[i] = strings.ReplaceAll(s, "\n", ".")
	}
	set(ctx, r, record.Skills, strings.Join(pills, "\n"))
	return nil
}

// interests joins every followed entity as "title: subtitle\nhref".
func (x *Extractor) interests(ctx context.Context, p browser.Page, scope browser.Element, r *record.Record) error {
	items, ok := p.FindAll(ctx, x.loc(locator.ProfileInterests), scope)
	if !ok {
		return nil
	}
	if err := p.ScrollIntoView(ctx, items[len(items)-1]); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := p.Text(ctx, item)
		if !ok {
			return errStale
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), "\n", ": ")
		if s == "" {
			continue
		}
		if a, found := p.FindOne(ctx, x.loc(locator.ProfileInterestLink), item); found {
			if href, ok := p.Attr(ctx, a, "href"); ok {
				s += "\n" + href
			}
		}
		out = append(out, s)
	}
	set(ctx, r, record.Interests, strings.Join(out, "\n\n"))
	return nil
}

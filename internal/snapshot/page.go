package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
)

var errForeignElement = errors.New("element does not belong to a snapshot page")

// Page is a browser.Page over a captured document. Clicks and scrolls only
// bump counters; Fill sets the value attribute.
type Page struct {
	site *Site
	url  string
	raw  string
	doc  *goquery.Document

	Clicks int
	Fills  []string
}

func (p *Page) load(rawURL, html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	p.url, p.raw, p.doc = rawURL, html, doc
	return nil
}

func selection(el browser.Element) (*goquery.Selection, error) {
	sel, ok := el.(*goquery.Selection)
	if !ok || sel == nil || sel.Length() == 0 {
		return nil, errForeignElement
	}
	return sel, nil
}

func (p *Page) find(s locator.Strategy, scope browser.Element) *goquery.Selection {
	if p.doc == nil || s.IsZero() {
		return nil
	}
	if scope == nil {
		return p.doc.Find(s.CSS())
	}
	sel, err := selection(scope)
	if err != nil {
		return nil
	}
	return sel.Find(s.CSS())
}

func (p *Page) FindOne(_ context.Context, s locator.Strategy, scope browser.Element) (browser.Element, bool) {
	found := p.find(s, scope)
	if found == nil || found.Length() == 0 {
		return nil, false
	}
	return found.First(), true
}

func (p *Page) FindAll(_ context.Context, s locator.Strategy, scope browser.Element) ([]browser.Element, bool) {
	found := p.find(s, scope)
	if found == nil || found.Length() == 0 {
		return nil, false
	}
	out := make([]browser.Element, 0, found.Length())
	found.Each(func(_ int, sel *goquery.Selection) {
		out = append(out, sel)
	})
	return out, true
}

func (p *Page) Text(_ context.Context, el browser.Element) (string, bool) {
	sel, err := selection(el)
	if err != nil {
		return "", false
	}
	return innerText(sel.Nodes[0]), true
}

// Attr resolves href and src against the page URL, as the DOM properties of
// the same name do.
func (p *Page) Attr(_ context.Context, el browser.Element, name string) (string, bool) {
	sel, err := selection(el)
	if err != nil {
		return "", false
	}
	v, ok := sel.Attr(name)
	if !ok || v == "" {
		return "", false
	}
	if name == "href" || name == "src" {
		v = p.resolve(v)
	}
	return v, true
}

func (p *Page) resolve(ref string) string {
	base, err := url.Parse(p.url)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func (p *Page) ScrollIntoView(_ context.Context, el browser.Element) error {
	_, err := selection(el)
	return err
}

func (p *Page) Click(_ context.Context, el browser.Element) error {
	if _, err := selection(el); err != nil {
		return err
	}
	p.Clicks++
	return nil
}

func (p *Page) Fill(_ context.Context, el browser.Element, text string) error {
	sel, err := selection(el)
	if err != nil {
		return err
	}
	sel.SetAttr("value", text)
	p.Fills = append(p.Fills, text)
	return nil
}

func (p *Page) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, ok := p.site.Lookup(rawURL)
	if !ok {
		return fmt.Errorf("navigating to %s: %w", rawURL, ErrNotCaptured)
	}
	return p.load(rawURL, html)
}

func (p *Page) URL(context.Context) (string, error) { return p.url, nil }

func (p *Page) HTML(context.Context) (string, error) { return p.raw, nil }

// Browser is a browser.Browser whose tabs read from one Site. It starts with
// a single blank tab.
type Browser struct {
	site   *Site
	pages  []*Page
	active *Page
}

// NewBrowser returns a browser over site.
func NewBrowser(site *Site) *Browser {
	first := &Page{site: site}
	return &Browser{site: site, pages: []*Page{first}, active: first}
}

func (b *Browser) Pages(context.Context) ([]browser.Page, error) {
	out := make([]browser.Page, len(b.pages))
	for i, p := range b.pages {
		out[i] = p
	}
	return out, nil
}

func (b *Browser) NewPage(context.Context) (browser.Page, error) {
	p := &Page{site: b.site}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *Browser) Activate(_ context.Context, p browser.Page) error {
	sp, ok := p.(*Page)
	if !ok {
		return fmt.Errorf("activate: %T is not a snapshot page", p)
	}
	b.active = sp
	return nil
}

// Active returns the page most recently activated.
func (b *Browser) Active() *Page { return b.active }

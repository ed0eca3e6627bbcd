package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
)

var errNotNode = errors.New("element is not a chrome node")

// Tab is a Page backed by one chromedp target.
type Tab struct {
	ctx         context.Context
	cancel      context.CancelFunc
	wait        time.Duration
	pageTimeout time.Duration
}

func newTab(ctx context.Context, cancel context.CancelFunc, opts Options) *Tab {
	return &Tab{ctx: ctx, cancel: cancel, wait: opts.ElementWait, pageTimeout: opts.PageTimeout}
}

// bind derives a context for one action: it carries the tab's target, is
// bounded by d and ends early when the caller's ctx does.
func (t *Tab) bind(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithTimeout(t.ctx, d)
	stop := context.AfterFunc(ctx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func (t *Tab) query(ctx context.Context, s locator.Strategy, scope Element, by chromedp.QueryOption) ([]*cdp.Node, bool) {
	if s.IsZero() {
		return nil, false
	}
	opts := []chromedp.QueryOption{by}
	if scope != nil {
		n, ok := scope.(*cdp.Node)
		if !ok {
			return nil, false
		}
		opts = append(opts, chromedp.FromNode(n))
	}

	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()

	var nodes []*cdp.Node
	if err := chromedp.Run(rctx, chromedp.Nodes(s.CSS(), &nodes, opts...)); err != nil || len(nodes) == 0 {
		return nil, false
	}
	return nodes, true
}

func (t *Tab) FindOne(ctx context.Context, s locator.Strategy, scope Element) (Element, bool) {
	nodes, ok := t.query(ctx, s, scope, chromedp.ByQuery)
	if !ok {
		return nil, false
	}
	return nodes[0], true
}

func (t *Tab) FindAll(ctx context.Context, s locator.Strategy, scope Element) ([]Element, bool) {
	nodes, ok := t.query(ctx, s, scope, chromedp.ByQueryAll)
	if !ok {
		return nil, false
	}
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out, true
}

// callOn runs fn with `this` bound to el.
func (t *Tab) callOn(ctx context.Context, el Element, fn string, res any) error {
	n, ok := el.(*cdp.Node)
	if !ok || n == nil {
		return errNotNode
	}
	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()
	return chromedp.Run(rctx, chromedp.ActionFunc(func(c context.Context) error {
		return chromedp.CallFunctionOnNode(c, n, fn, res)
	}))
}

func (t *Tab) Text(ctx context.Context, el Element) (string, bool) {
	var s string
	if err := t.callOn(ctx, el, `function() { return this.innerText || this.textContent || ""; }`, &s); err != nil {
		return "", false
	}
	return s, true
}

func (t *Tab) Attr(ctx context.Context, el Element, name string) (string, bool) {
	fn := fmt.Sprintf(`function() {
		const v = this[%q];
		if (typeof v === "string" && v !== "") return v;
		return this.getAttribute(%q) || "";
	}`, name, name)
	var s string
	if err := t.callOn(ctx, el, fn, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (t *Tab) ScrollIntoView(ctx context.Context, el Element) error {
	var ok bool
	return t.callOn(ctx, el, `function() { this.scrollIntoView({block: "center"}); return true; }`, &ok)
}

func (t *Tab) Click(ctx context.Context, el Element) error {
	var ok bool
	return t.callOn(ctx, el, `function() { this.click(); return true; }`, &ok)
}

func (t *Tab) Fill(ctx context.Context, el Element, text string) error {
	n, ok := el.(*cdp.Node)
	if !ok || n == nil {
		return errNotNode
	}
	var cleared bool
	if err := t.callOn(ctx, el, `function() { this.focus(); this.value = ""; return true; }`, &cleared); err != nil {
		return err
	}
	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()
	return chromedp.Run(rctx, chromedp.SendKeys([]cdp.NodeID{n.NodeID}, text, chromedp.ByNodeID))
}

func (t *Tab) Navigate(ctx context.Context, url string) error {
	rctx, cancel := t.bind(ctx, t.pageTimeout)
	defer cancel()
	if err := chromedp.Run(rctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitDOMComplete(),
	); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (t *Tab) URL(ctx context.Context) (string, error) {
	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()
	var u string
	if err := chromedp.Run(rctx, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return u, nil
}

func (t *Tab) HTML(ctx context.Context) (string, error) {
	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()
	var html string
	if err := chromedp.Run(rctx, chromedp.EvaluateAsDevTools(`document.documentElement.outerHTML`, &html)); err != nil {
		return "", fmt.Errorf("reading page html: %w", err)
	}
	return html, nil
}

// evaluate runs js in the tab and decodes its result into res.
func (t *Tab) evaluate(ctx context.Context, js string, res any) error {
	rctx, cancel := t.bind(ctx, t.wait)
	defer cancel()
	return chromedp.Run(rctx, chromedp.EvaluateAsDevTools(js, res))
}

func waitDOMComplete() chromedp.Action {
	var done bool
	return chromedp.Evaluate(`new Promise(r => {
		if (document.readyState === "complete") return r(true);
		window.addEventListener("load", () => r(true), {once: true});
	})`, &done, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	})
}

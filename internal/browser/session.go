package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
)

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

// Options configures the Chrome process and the tabs opened in it.
type Options struct {
	Headless   bool
	ChromePath string
	UserAgent  string
	Lang       string
	// ElementWait bounds every element lookup.
	ElementWait time.Duration
	// PageTimeout bounds every navigation.
	PageTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Lang == "" {
		o.Lang = "en-US"
	}
	if o.ElementWait <= 0 {
		o.ElementWait = 10 * time.Second
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = 60 * time.Second
	}
	if o.ChromePath == "" {
		o.ChromePath = os.Getenv("CHROME_PATH")
	}
}

// Session is one Chrome process. Open it once, pass it to the crawler and
// release it with Close on every exit path.
type Session struct {
	opts          Options
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	tabs          []*Tab
	log           logger.Logger
}

// Open starts Chrome with a single blank tab.
func Open(ctx context.Context, opts Options) (*Session, error) {
	opts.setDefaults()
	log := logger.FromContext(ctx)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("lang", opts.Lang),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)

	debugf := func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...), logger.String("component", "chromedp"))
	}
	bctx, bcancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(debugf),
		chromedp.WithErrorf(debugf),
	)

	if err := chromedp.Run(bctx, chromedp.Navigate("about:blank")); err != nil {
		bcancel()
		allocCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	s := &Session{
		opts:          opts,
		browserCtx:    bctx,
		browserCancel: bcancel,
		allocCancel:   allocCancel,
		log:           log,
	}
	s.tabs = []*Tab{newTab(bctx, bcancel, opts)}
	log.Info("chrome started", logger.Bool("headless", opts.Headless))
	return s, nil
}

// Close closes every tab and stops Chrome.
func (s *Session) Close() error {
	for _, t := range s.tabs[1:] {
		t.cancel()
	}
	err := chromedp.Cancel(s.browserCtx)
	s.browserCancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing chrome: %w", err)
	}
	return nil
}

// Headless reports whether Chrome runs without a window.
func (s *Session) Headless() bool { return s.opts.Headless }

// Pages returns the tabs opened through this session, in opening order.
func (s *Session) Pages(context.Context) ([]Page, error) {
	out := make([]Page, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = t
	}
	return out, nil
}

// NewPage opens a tab in the same browser window.
func (s *Session) NewPage(context.Context) (Page, error) {
	ctx, cancel := chromedp.NewContext(s.browserCtx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	t := newTab(ctx, cancel, s.opts)
	s.tabs = append(s.tabs, t)
	s.log.Debug("tab opened", logger.Int("tabs", len(s.tabs)))
	return t, nil
}

// Activate brings p to the front.
func (s *Session) Activate(_ context.Context, p Page) error {
	t, ok := p.(*Tab)
	if !ok {
		return fmt.Errorf("activate: %T is not a chrome tab", p)
	}
	c := chromedp.FromContext(t.ctx)
	if c == nil || c.Target == nil {
		return errors.New("activate: tab has no target")
	}
	return chromedp.Run(t.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return target.ActivateTarget(c.Target.TargetID).Do(ctx)
	}))
}

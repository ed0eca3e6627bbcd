package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/retry"
)

// Login errors.
var (
	ErrCaptcha         = errors.New("captcha challenge")
	ErrTwoFactor       = errors.New("two-factor challenge")
	ErrLoginIncomplete = errors.New("login did not complete")
)

const (
	challengeWait = 3 * time.Minute
	pollInterval  = 1500 * time.Millisecond
)

// Credentials are the account the crawler signs in with.
type Credentials struct {
	Username string
	Password string
}

// Login signs in through the Sales Navigator login page in the first tab.
// Challenges are waited out when a window is visible and fail fast when
// Chrome runs headless.
func (s *Session) Login(ctx context.Context, baseURL string, creds Credentials, cat *locator.Catalog) error {
	tab := s.tabs[0]
	log := logger.FromContext(ctx)

	err := retry.Run(ctx, retry.FieldRead.Strict(), "login", func(ctx context.Context) error {
		if err := tab.Navigate(ctx, strings.TrimRight(baseURL, "/")+"/sales/login"); err != nil {
			return err
		}
		// the form is served from an iframe; open it directly
		if frame, ok := tab.FindOne(ctx, cat.Get(locator.LoginIframe), nil); ok {
			if src, ok := tab.Attr(ctx, frame, "src"); ok {
				if err := tab.Navigate(ctx, src); err != nil {
					return err
				}
			}
		}
		user, ok := tab.FindOne(ctx, cat.Get(locator.LoginUsername), nil)
		if !ok {
			return errors.New("username input not found")
		}
		if err := tab.Fill(ctx, user, creds.Username); err != nil {
			return fmt.Errorf("typing username: %w", err)
		}
		pass, ok := tab.FindOne(ctx, cat.Get(locator.LoginPassword), nil)
		if !ok {
			return errors.New("password input not found")
		}
		if err := tab.Fill(ctx, pass, creds.Password); err != nil {
			return fmt.Errorf("typing password: %w", err)
		}
		btn, ok := tab.FindOne(ctx, cat.Get(locator.LoginSigninButton), nil)
		if !ok {
			return errors.New("sign-in button not found")
		}
		return tab.Click(ctx, btn)
	})
	if err != nil {
		return err
	}

	if tab.count(ctx, `iframe[src*="captcha"], iframe[src*="challenge"]`) > 0 {
		if s.opts.Headless {
			return fmt.Errorf("%w in headless mode; rerun with --headless=false to solve it", ErrCaptcha)
		}
		log.Warn("captcha detected, solve it in the browser window", logger.Duration("wait", challengeWait))
		if err := tab.waitGone(ctx, challengeWait, `iframe[src*="captcha"], iframe[src*="challenge"]`); err != nil {
			return fmt.Errorf("%w: %w", ErrCaptcha, err)
		}
	}
	if tab.count(ctx, `input[autocomplete="one-time-code"], input[name*="pin"]`) > 0 {
		if s.opts.Headless {
			return fmt.Errorf("%w in headless mode; rerun with --headless=false to enter the code", ErrTwoFactor)
		}
		log.Warn("two-factor prompt detected, enter the code in the browser window", logger.Duration("wait", challengeWait))
		if err := tab.waitGone(ctx, challengeWait, `input[autocomplete="one-time-code"], input[name*="pin"]`); err != nil {
			return fmt.Errorf("%w: %w", ErrTwoFactor, err)
		}
	}

	if err := tab.waitUntil(ctx, s.opts.PageTimeout, `(() => {
		const href = location.href || "";
		return href.includes("/sales/") && !href.includes("/login") && !href.includes("/checkpoint/");
	})()`); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginIncomplete, err)
	}
	log.Info("logged in")
	return nil
}

func (t *Tab) count(ctx context.Context, css string) int {
	var n int
	_ = t.evaluate(ctx, fmt.Sprintf(`document.querySelectorAll(%q).length`, css), &n)
	return n
}

func (t *Tab) waitGone(ctx context.Context, timeout time.Duration, css string) error {
	return t.waitUntil(ctx, timeout, fmt.Sprintf(`document.querySelectorAll(%q).length === 0`, css))
}

func (t *Tab) waitUntil(ctx context.Context, timeout time.Duration, jsCond string) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var ok bool
		if err := t.evaluate(ctx, jsCond, &ok); err == nil && ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return errors.New("timed out waiting for condition")
}

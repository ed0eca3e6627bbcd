package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/config"
	"github.com/DanielFillol/CrawlerNavigator/internal/crawl"
	"github.com/DanielFillol/CrawlerNavigator/internal/input"
	"github.com/DanielFillol/CrawlerNavigator/internal/locator"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
	"github.com/DanielFillol/CrawlerNavigator/internal/snapshot"
)

func newCrawlCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Sign in and crawl every search in the input file",
		Example: `  navigator crawl --input keywords.txt --format csv --output data/leads
  NAVIGATOR_CREDENTIALS_USERNAME=me@example.com NAVIGATOR_CREDENTIALS_PASSWORD=... navigator crawl --headless=false`,
		Args: cobra.NoArgs,
		RunE: a.runCrawl,
	}

	f := cmd.Flags()
	f.String("input", "", `file with one "keyword,geography" per line (prompted when empty)`)
	f.Bool("headless", true, "run Chrome without a window; captcha and two-factor prompts need --headless=false")
	f.Int("max-pages", 0, "stop after this many result pages per search, 0 for no cap (default from config: 100)")
	f.String("dump-dir", "", "save every visited page here for offline replay")
	f.String("chrome-path", "", "Chrome executable (default: CHROME_PATH or the system Chrome)")
	f.String("base-url", "", "site root")
	addOutputFlags(cmd)

	bind(cmd, "input", "input")
	bind(cmd, "headless", "headless")
	bind(cmd, "max_pages", "max-pages")
	bind(cmd, "dump_dir", "dump-dir")
	bind(cmd, "chrome_path", "chrome-path")
	bind(cmd, "base_url", "base-url")
	bindOutputFlags(cmd)
	return cmd
}

// addOutputFlags registers the flags shared by crawl and replay.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "", "output format: xlsx, csv or sqlite")
	f.String("output", "", "output path; the format's extension is added when missing")
	f.String("locators", "", "YAML file overriding entries of the built-in selector catalog")
}

func bindOutputFlags(cmd *cobra.Command) {
	bind(cmd, "format", "format")
	bind(cmd, "output", "output")
	bind(cmd, "locators", "locators")
}

func (a *app) runCrawl(cmd *cobra.Command, _ []string) error {
	defer func() { _ = a.log.Sync() }()
	ctx := cmd.Context()
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	cat, err := loadCatalog(cfg, locator.LoginKeys)
	if err != nil {
		return err
	}
	units, err := readUnits(cmd, cfg.Input)
	if err != nil {
		return err
	}
	a.log.Info("starting crawl", append(cfg.Fields(), logger.Int("units", len(units)))...)

	out, err := sink.Open(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	var opts []crawl.Option
	if cfg.DumpDir != "" {
		d, err := snapshot.NewDumper(cfg.DumpDir)
		if err != nil {
			return err
		}
		opts = append(opts, crawl.WithDumper(d))
	}

	sess, err := browser.Open(ctx, browser.Options{
		Headless:    cfg.Headless,
		ChromePath:  cfg.ChromePath,
		UserAgent:   cfg.UserAgent,
		ElementWait: cfg.ElementWait,
		PageTimeout: cfg.PageTimeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			a.log.Warn("closing browser", logger.Error(err))
		}
	}()

	creds := browser.Credentials{Username: cfg.Credentials.Username, Password: cfg.Credentials.Password}
	if err := sess.Login(ctx, cfg.BaseURL, creds, cat); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	tabs, err := browser.NewTabs(ctx, sess)
	if err != nil {
		return err
	}

	c := crawl.New(crawlConfig(cfg, true), cat, tabs, out, opts...)
	runErr := c.Run(ctx, units)
	renderStats(cmd.OutOrStdout(), c.Stats(), out.Path())
	if runErr != nil {
		return runErr
	}
	a.log.Info("crawl finished", logger.Int("records", c.Stats().Records), logger.String("output", out.Path()))
	return nil
}

func crawlConfig(cfg *config.Config, paced bool) crawl.Config {
	cc := crawl.Config{
		BaseURL:          cfg.BaseURL,
		RestrictedMarker: cfg.RestrictedMarker,
		MaxPages:         cfg.MaxPages,
	}
	if paced {
		cc.Pace = crawl.Pacer{Min: cfg.PaceMin, Max: cfg.PaceMax}
	}
	return cc
}

// loadCatalog loads the selector catalog and checks it has every key the
// crawl reads, plus extra.
func loadCatalog(cfg *config.Config, extra []string) (*locator.Catalog, error) {
	cat, err := locator.Load(cfg.Locators)
	if err != nil {
		return nil, err
	}
	if err := cat.Require(append(append([]string{}, locator.CrawlKeys...), extra...)...); err != nil {
		return nil, err
	}
	return cat, nil
}

// readUnits reads the input file, asking for its name when none was given.
func readUnits(cmd *cobra.Command, path string) ([]input.SearchUnit, error) {
	if path == "" {
		p, err := input.Prompt(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return nil, err
		}
		path = p
	}
	units, err := input.ReadFile(path)
	if errors.Is(err, input.ErrNoUnits) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return units, err
}

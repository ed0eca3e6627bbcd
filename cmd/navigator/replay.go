package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielFillol/CrawlerNavigator/internal/browser"
	"github.com/DanielFillol/CrawlerNavigator/internal/crawl"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
	"github.com/DanielFillol/CrawlerNavigator/internal/snapshot"
)

var errNoStarts = errors.New("dump holds no search starts")

func newReplayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run extraction over pages saved by crawl --dump-dir",
		Long: `replay walks the result pages and profiles saved by an earlier crawl and
writes the records again, without a browser or an account. Use it to check
selector changes against known pages.`,
		Example: "  navigator replay --dir dumps/2026-10-19 --format csv --output replayed",
		Args:    cobra.NoArgs,
		RunE:    a.runReplay,
	}
	cmd.Flags().String("dir", "", "directory written by crawl --dump-dir")
	_ = cmd.MarkFlagRequired("dir")
	addOutputFlags(cmd)
	bindOutputFlags(cmd)
	return cmd
}

func (a *app) runReplay(cmd *cobra.Command, _ []string) error {
	defer func() { _ = a.log.Sync() }()
	ctx := cmd.Context()
	cfg := a.cfg

	if err := cfg.ValidateOffline(); err != nil {
		return err
	}
	cat, err := loadCatalog(cfg, nil)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	site, err := snapshot.LoadDir(dir)
	if err != nil {
		return err
	}
	if len(site.Starts) == 0 {
		return fmt.Errorf("%s: %w", dir, errNoStarts)
	}
	a.log.Info("starting replay",
		logger.String("dir", dir),
		logger.Int("pages", site.Len()),
		logger.Int("starts", len(site.Starts)),
		logger.String("format", cfg.Format),
	)

	tabs, err := browser.NewTabs(ctx, snapshot.NewBrowser(site))
	if err != nil {
		return err
	}
	out, err := sink.Open(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	c := crawl.New(crawlConfig(cfg, false), cat, tabs, out)
	for _, s := range site.Starts {
		qlog := a.log.With(logger.String("query", s.Query))
		if err = c.TraverseFrom(logger.WithContext(ctx, qlog), s.URL, s.Query); err != nil {
			break
		}
	}
	renderStats(cmd.OutOrStdout(), c.Stats(), out.Path())
	return err
}

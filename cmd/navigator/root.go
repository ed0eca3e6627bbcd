package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DanielFillol/CrawlerNavigator/internal/config"
	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// app is the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string

	cfg   *config.Config
	log   logger.Logger
	runID string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "navigator",
		Short: "Harvest Sales Navigator search results into structured records",
		Long: `navigator signs in to LinkedIn Sales Navigator, runs one people search per
input line ("keyword,geography") and writes one row per result: full profiles
are read in detail, out-of-network results from their card and top card.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./navigator.yaml or ~/.config/navigator/navigator.yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded into the environment")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-encoding", "", "log encoding (console, json)")
	bind(root, "log.level", "log-level")
	bind(root, "log.encoding", "log-encoding")

	root.AddCommand(
		newCrawlCmd(a),
		newReplayCmd(a),
		newPreviewCmd(a),
		newVersionCmd(),
	)
	return root
}

// configKey is the flag annotation naming the config key a flag sets.
const configKey = "navigator_config_key"

// bind marks a flag of cmd as the command-line source of a config key.
// Several subcommands share keys, so the binding itself happens in setup
// for the command that actually runs.
func bind(cmd *cobra.Command, key, flag string) {
	fs := cmd.Flags()
	if fs.Lookup(flag) == nil {
		fs = cmd.PersistentFlags()
	}
	if err := fs.SetAnnotation(flag, configKey, []string{key}); err != nil {
		panic(fmt.Sprintf("binding --%s: %v", flag, err))
	}
}

// bindFlags binds every annotated flag visible to cmd.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKey]
		if err != nil || len(keys) == 0 {
			return
		}
		err = v.BindPFlag(keys[0], f)
	})
	return err
}

// setup loads the configuration and the run logger before any subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(a.v, cmd); err != nil {
		return err
	}
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.runID = uuid.NewString()
	a.log = log.With(logger.String("run_id", a.runID))
	a.cfg = cfg

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("config file loaded", logger.String("path", used))
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	return nil
}

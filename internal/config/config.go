// Package config loads crawler settings from defaults, a config file, the
// environment (NAVIGATOR_*), a .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DanielFillol/CrawlerNavigator/internal/logger"
	"github.com/DanielFillol/CrawlerNavigator/internal/sink"
)

// EnvPrefix prefixes every environment variable, e.g. NAVIGATOR_MAX_PAGES.
const EnvPrefix = "NAVIGATOR"

// Validation errors.
var (
	ErrMissingCredentials = errors.New("missing credentials: set credentials.username and credentials.password")
	ErrInvalid            = errors.New("invalid configuration")
)

const mask = "********"

// Credentials is the Sales Navigator account.
type Credentials struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Config is the effective configuration of one run.
type Config struct {
	BaseURL     string      `mapstructure:"base_url"`
	Credentials Credentials `mapstructure:"credentials"`

	Headless    bool          `mapstructure:"headless"`
	ChromePath  string        `mapstructure:"chrome_path"`
	UserAgent   string        `mapstructure:"user_agent"`
	ElementWait time.Duration `mapstructure:"element_wait"`
	PageTimeout time.Duration `mapstructure:"page_timeout"`

	PaceMin          time.Duration `mapstructure:"pace_min"`
	PaceMax          time.Duration `mapstructure:"pace_max"`
	MaxPages         int           `mapstructure:"max_pages"`
	RestrictedMarker string        `mapstructure:"restricted_marker"`
	Locators         string        `mapstructure:"locators"`
	DumpDir          string        `mapstructure:"dump_dir"`

	Input  string `mapstructure:"input"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`

	Log logger.Config `mapstructure:"log"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://www.linkedin.com")
	v.SetDefault("credentials.username", "")
	v.SetDefault("credentials.password", "")

	v.SetDefault("headless", true)
	v.SetDefault("chrome_path", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("element_wait", 10*time.Second)
	v.SetDefault("page_timeout", 60*time.Second)

	v.SetDefault("pace_min", 3*time.Second)
	v.SetDefault("pace_max", 12*time.Second)
	v.SetDefault("max_pages", 100)
	v.SetDefault("restricted_marker", "OUT_OF_NETWORK")
	v.SetDefault("locators", "")
	v.SetDefault("dump_dir", "")

	v.SetDefault("input", "")
	v.SetDefault("format", sink.FormatXLSX)
	v.SetDefault("output", "output")

	v.SetDefault("log.level", logger.DefaultLevel)
	v.SetDefault("log.encoding", logger.DefaultEncoding)
	v.SetDefault("log.output_paths", []string{"stderr"})
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadEnvFile loads a .env file into the process environment. A missing
// file is not an error; variables already set are kept.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ReadFile reads the config file at path, or searches navigator.{yaml,json,toml}
// in the working directory and ~/.config/navigator when path is empty. Only
// an explicitly named file is required to exist.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}
	v.SetConfigName("navigator")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "navigator"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load decodes the effective configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cfg, nil
}

// Validate checks everything a crawl needs before a browser starts.
func (c *Config) Validate() error {
	if err := c.ValidateOffline(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Credentials.Username) == "" || c.Credentials.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidateOffline checks the settings a replay needs, which has no login.
func (c *Config) ValidateOffline() error {
	if !sink.ValidFormat(c.Format) {
		return fmt.Errorf("%w: %q", sink.ErrUnknownFormat, c.Format)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}
	if c.PaceMin < 0 || c.PaceMax < c.PaceMin {
		return fmt.Errorf("%w: pace range %s..%s", ErrInvalid, c.PaceMin, c.PaceMax)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("%w: max_pages must not be negative", ErrInvalid)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url is empty", ErrInvalid)
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	out := *c
	if out.Credentials.Password != "" {
		out.Credentials.Password = mask
	}
	return out
}

// Fields renders the redacted configuration as log fields.
func (c *Config) Fields() []logger.Field {
	r := c.Redacted()
	return []logger.Field{
		logger.String("base_url", r.BaseURL),
		logger.String("username", r.Credentials.Username),
		logger.String("password", r.Credentials.Password),
		logger.Bool("headless", r.Headless),
		logger.Duration("element_wait", r.ElementWait),
		logger.Duration("page_timeout", r.PageTimeout),
		logger.Duration("pace_min", r.PaceMin),
		logger.Duration("pace_max", r.PaceMax),
		logger.Int("max_pages", r.MaxPages),
		logger.String("format", r.Format),
		logger.String("output", r.Output),
		logger.String("dump_dir", r.DumpDir),
	}
}

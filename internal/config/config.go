// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds the configuration from the site.yaml file.
// The `yaml` tags map file keys to struct fields; the `env` tags let the
// environment override them (secrets usually live there).
type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"baseurl"`
	Description string `yaml:"description"`
	Template    string `yaml:"template" env:"FOLIO_TEMPLATE"`

	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Feed      FeedConfig      `yaml:"feed"`
	Radio     RadioConfig     `yaml:"radio"`
	KeepAlive KeepAliveConfig `yaml:"keepalive"`
}

// ServerConfig controls the HTTP server and the per-visitor sessions.
type ServerConfig struct {
	Port        int           `yaml:"port" env:"FOLIO_PORT"`
	MaxSessions int           `yaml:"max_sessions" env:"FOLIO_MAX_SESSIONS"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"FOLIO_SESSION_TTL"`
}

// CatalogConfig points at the hosted table holding the projects.
type CatalogConfig struct {
	URL     string        `yaml:"url" env:"FOLIO_CATALOG_URL"`
	AnonKey string        `yaml:"anon_key" env:"FOLIO_CATALOG_ANON_KEY"`
	Table   string        `yaml:"table" env:"FOLIO_CATALOG_TABLE"`
	Timeout time.Duration `yaml:"timeout" env:"FOLIO_CATALOG_TIMEOUT"`
}

// Enabled reports whether enough is configured to query the catalog.
func (c CatalogConfig) Enabled() bool {
	return c.URL != "" && c.AnonKey != ""
}

// FeedConfig describes the public repository listing shown in the repos section.
type FeedConfig struct {
	User           string        `yaml:"user" env:"FOLIO_FEED_USER"`
	PerPage        int           `yaml:"per_page" env:"FOLIO_FEED_PER_PAGE"`
	APIURL         string        `yaml:"api_url" env:"FOLIO_FEED_API_URL"`
	Token          string        `yaml:"-" env:"GITHUB_TOKEN"`
	FallbackAvatar string        `yaml:"fallback_avatar"`
	Timeout        time.Duration `yaml:"timeout" env:"FOLIO_FEED_TIMEOUT"`
}

// Enabled reports whether a feed user is configured.
func (c FeedConfig) Enabled() bool {
	return c.User != ""
}

// Station is one internet-radio stream.
type Station struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// RadioConfig lists the stations the widget rotates through.
type RadioConfig struct {
	Stations []Station `yaml:"stations"`
	Volume   float64   `yaml:"volume"`
}

// KeepAliveConfig tunes the idle ping sent to the catalog backend.
type KeepAliveConfig struct {
	Idle     time.Duration `yaml:"idle" env:"FOLIO_KEEPALIVE_IDLE"`
	Interval time.Duration `yaml:"interval" env:"FOLIO_KEEPALIVE_INTERVAL"`
}

// Defaults used when site.yaml leaves a value out.
const (
	DefaultTemplate    = "simple"
	DefaultPort        = 1313
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 2 * time.Hour
	DefaultTable       = "proyectos"
	DefaultFeedPerPage = 30
	DefaultFeedAPIURL  = "https://api.github.com"
	DefaultAvatar      = "static/images/avatar.jpg"
	DefaultHTTPTimeout = 15 * time.Second
	DefaultVolume      = 0.5
	DefaultIdle        = 4 * time.Minute
	DefaultInterval    = 30 * time.Second
)

// LoadSiteConfig reads and parses site.yaml, applies environment overrides
// and fills defaults. A missing file is reported with os.ErrNotExist so
// callers can decide whether defaults alone are acceptable.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	// Unmarshal the YAML data into the SiteConfig struct.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return finish(cfg)
}

// LoadOrDefault behaves like LoadSiteConfig but treats a missing file as an
// empty one.
func LoadOrDefault(path string) (SiteConfig, error) {
	cfg, err := LoadSiteConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return finish(SiteConfig{})
	}
	return cfg, err
}

func finish(cfg SiteConfig) (SiteConfig, error) {
	if err := env.Parse(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyDefaults() {
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = DefaultMaxSessions
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = DefaultTable
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = DefaultHTTPTimeout
	}
	if c.Feed.PerPage == 0 {
		c.Feed.PerPage = DefaultFeedPerPage
	}
	if c.Feed.APIURL == "" {
		c.Feed.APIURL = DefaultFeedAPIURL
	}
	if c.Feed.FallbackAvatar == "" {
		c.Feed.FallbackAvatar = DefaultAvatar
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultHTTPTimeout
	}
	if c.Radio.Volume == 0 {
		c.Radio.Volume = DefaultVolume
	}
	if c.KeepAlive.Idle == 0 {
		c.KeepAlive.Idle = DefaultIdle
	}
	if c.KeepAlive.Interval == 0 {
		c.KeepAlive.Interval = DefaultInterval
	}
}

// Validate reports values that would make the site misbehave.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions must not be negative"))
	}
	if c.Server.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl %v must not be negative", c.Server.SessionTTL))
	}
	if c.Catalog.Timeout < 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout %v must not be negative", c.Catalog.Timeout))
	}
	if c.Feed.Timeout < 0 {
		errs = append(errs, fmt.Errorf("feed.timeout %v must not be negative", c.Feed.Timeout))
	}
	if c.Catalog.URL != "" {
		if u, err := url.Parse(c.Catalog.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("catalog.url %q is not an absolute URL", c.Catalog.URL))
		}
	}
	if c.Feed.PerPage < 0 || c.Feed.PerPage > 100 {
		errs = append(errs, fmt.Errorf("feed.per_page %d out of range 1-100", c.Feed.PerPage))
	}
	if c.Radio.Volume < 0 || c.Radio.Volume > 1 {
		errs = append(errs, fmt.Errorf("radio.volume %v out of range 0-1", c.Radio.Volume))
	}
	for i, st := range c.Radio.Stations {
		if st.URL == "" {
			errs = append(errs, fmt.Errorf("radio.stations[%d] has no url", i))
		}
	}
	if c.KeepAlive.Idle < 0 || c.KeepAlive.Interval < 0 {
		errs = append(errs, fmt.Errorf("keepalive durations must not be negative"))
	}
	return errors.Join(errs...)
}

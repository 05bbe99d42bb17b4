package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings for the QuickQR CLI.
type Config struct {
	ConfigFile string

	APIURL     string
	AppOrigin  string
	HealthAddr string

	OnlineCheckInterval time.Duration
	SettleDelay         time.Duration
	RequestTimeout      time.Duration

	DBPath      string
	DownloadDir string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.AppOrigin = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.SettleDelay = 100 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "quickqr.db"
	c.DownloadDir = "."
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// New returns a Config holding the defaults.
func New() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

// Load overlays the JSON file named by the config flag, then re-applies the
// flags the user set explicitly, so the precedence is
// defaults < JSON < flags. fs must be the set BindFlags was called on.
func (c *Config) Load(fs *pflag.FlagSet) error {
	if c.ConfigFile != "" {
		if err := parseJSON(c, c.ConfigFile, fs.Changed); err != nil {
			return err
		}
	}
	return c.validate()
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{"api-url": c.APIURL, "origin": c.AppOrigin} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute URL", name, raw)
		}
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online-check-interval must be positive")
	}
	if c.SettleDelay < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// stay nil and leave the current value alone.
type JsonConfig struct {
	APIURL              *string         `json:"api_url"`
	AppOrigin           *string         `json:"app_origin"`
	HealthAddr          *string         `json:"health_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SettleDelay         *timex.Duration `json:"settle_delay"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	DBPath              *string         `json:"db_path"`
	DownloadDir         *string         `json:"download_dir"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJSON overlays cfg with the file at path. A value is skipped when
// changed reports that its flag was set on the command line.
func parseJSON(cfg *Config, path string, changed func(flag string) bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	str := func(flag string, src *string, dst *string) {
		if src != nil && !changed(flag) {
			*dst = *src
		}
	}
	dur := func(flag string, src *timex.Duration, dst *time.Duration) {
		if src != nil && !changed(flag) {
			*dst = src.Duration
		}
	}

	str("api-url", jc.APIURL, &cfg.APIURL)
	str("origin", jc.AppOrigin, &cfg.AppOrigin)
	str("health-addr", jc.HealthAddr, &cfg.HealthAddr)
	dur("online-check-interval", jc.OnlineCheckInterval, &cfg.OnlineCheckInterval)
	dur("settle-delay", jc.SettleDelay, &cfg.SettleDelay)
	dur("timeout", jc.RequestTimeout, &cfg.RequestTimeout)
	str("db", jc.DBPath, &cfg.DBPath)
	str("download-dir", jc.DownloadDir, &cfg.DownloadDir)
	str("log-level", jc.LogLevel, &cfg.LogLevel)
	str("log-format", jc.LogFormat, &cfg.LogFormat)

	return nil
}

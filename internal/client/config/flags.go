package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the client flags on fs, writing straight into c.
//
//	-c, --config                 JSON config file
//	-a, --api-url                backend REST API base URL
//	    --origin                 public origin used in dynamic code URLs
//	    --health-addr            backend gRPC health address (empty: HTTP probe)
//	-i, --online-check-interval  online status probe interval
//	    --settle-delay           preview mount delay
//	    --timeout                per request timeout
//	    --db                     local SQLite database file
//	-d, --download-dir           default export directory
//	    --log-level, --log-format
func BindFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVarP(&c.ConfigFile, "config", "c", c.ConfigFile, "path to JSON config file")
	fs.StringVarP(&c.APIURL, "api-url", "a", c.APIURL, "backend API base URL")
	fs.StringVar(&c.AppOrigin, "origin", c.AppOrigin, "public origin for dynamic code redirect URLs")
	fs.StringVar(&c.HealthAddr, "health-addr", c.HealthAddr, "backend gRPC health address")
	fs.DurationVarP(&c.OnlineCheckInterval, "online-check-interval", "i", c.OnlineCheckInterval, "online status check interval")
	fs.DurationVar(&c.SettleDelay, "settle-delay", c.SettleDelay, "delay before the preview mounts")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "API request timeout")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "local database file")
	fs.StringVarP(&c.DownloadDir, "download-dir", "d", c.DownloadDir, "directory for exported images")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
}

// Package config loads runtime configuration for the QuickQR CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or --config.
//  3. Command-line flags set explicitly by the user.
//
// # JSON schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.quickqr.example.com",
//	  "app_origin": "https://quickqr.example.com",
//	  "health_addr": "api.quickqr.example.com:50051",
//	  "online_check_interval": "3s",
//	  "settle_delay": "100ms",
//	  "request_timeout": "10s",
//	  "db_path": "/home/me/.quickqr.db",
//	  "download_dir": "/home/me/Downloads",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config

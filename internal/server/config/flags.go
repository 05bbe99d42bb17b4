package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
//	-a string    HTTP bind address (e.g., ":8080")
//	-g string    gRPC health bind address (e.g., ":50051")
//	-d string    PostgreSQL DSN
//	-s string    JWT HMAC secret key
//	-t int       access token validity, minutes
//	-admin       admin account email
//	-u, -p       S3 root user and password
//	-b, -r, -e   S3 bucket, region and base endpoint
//	-public-url  base URL uploaded logos are served from
//	-l           log level
//
// args are filtered with flagx.FilterArgs first, so flags handled elsewhere
// (such as -c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-g", "-d", "-s", "-t", "-admin", "-u", "-p", "-b", "-r", "-e", "-public-url", "-l",
	})

	fs := flag.NewFlagSet("quickqr-server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.AdminEmail, "admin", config.AdminEmail, "admin account email")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "public-url", config.S3PublicURL, "public base URL of uploaded logos")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
		}
	})
	return nil
}

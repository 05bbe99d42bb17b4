package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "QUICKQR_"

// parseEnv loads envFile into the process environment (missing files are
// ignored, existing variables win) and then overlays QUICKQR_* variables
// onto c.
func parseEnv(c *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	strs := map[string]*string{
		"HTTP_ADDR":        &c.EndpointAddrHTTP,
		"GRPC_ADDR":        &c.EndpointAddrGRPC,
		"DATABASE_DSN":     &c.DatabaseDSN,
		"SECRET_KEY":       &c.SecretKey,
		"ADMIN_EMAIL":      &c.AdminEmail,
		"S3_ROOT_USER":     &c.S3RootUser,
		"S3_ROOT_PASSWORD": &c.S3RootPassword,
		"S3_BUCKET":        &c.S3Bucket,
		"S3_REGION":        &c.S3Region,
		"S3_BASE_ENDPOINT": &c.S3BaseEndpoint,
		"S3_PUBLIC_URL":    &c.S3PublicURL,
		"LOG_LEVEL":        &c.LogLevel,
		"LOG_FORMAT":       &c.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "ACCESS_TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sACCESS_TOKEN_VALIDITY: %w", envPrefix, err)
		}
		c.AccessTokenValidityDuration = d
	}
	return nil
}

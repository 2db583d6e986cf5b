package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "JOBBOARD_"

// parseEnv overlays JOBBOARD_* environment variables.
func parseEnv(c *Config) error {
	setString(&c.EndpointAddrHTTP, os.Getenv(envPrefix+"ADDR"))
	setString(&c.DatabaseDSN, os.Getenv(envPrefix+"DATABASE_DSN"))
	setString(&c.SecretKey, os.Getenv(envPrefix+"SECRET_KEY"))
	setString(&c.S3RootUser, os.Getenv(envPrefix+"S3_ROOT_USER"))
	setString(&c.S3RootPassword, os.Getenv(envPrefix+"S3_ROOT_PASSWORD"))
	setString(&c.S3Bucket, os.Getenv(envPrefix+"S3_BUCKET"))
	setString(&c.S3Region, os.Getenv(envPrefix+"S3_REGION"))
	setString(&c.S3BaseEndpoint, os.Getenv(envPrefix+"S3_BASE_ENDPOINT"))
	setString(&c.S3PublicBaseURL, os.Getenv(envPrefix+"S3_PUBLIC_BASE_URL"))
	setString(&c.LogLevel, os.Getenv(envPrefix+"LOG_LEVEL"))

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", &c.AccessTokenValidityDuration},
		{"REQUEST_TIMEOUT", &c.RequestTimeout},
		{"UPLOAD_TIMEOUT", &c.UploadTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(envPrefix + d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.key, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv(envPrefix + "MAX_RESUME_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_RESUME_BYTES: %w", envPrefix, err)
		}
		c.MaxResumeBytes = n
	}
	return nil
}

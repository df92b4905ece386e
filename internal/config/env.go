package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every variable name, e.g. MINDSTITCH_DATA_DIR.
const EnvPrefix = "MINDSTITCH"

// parseEnv overlays cfg with MINDSTITCH_* variables. A .env file in the
// working directory is loaded first; it never overrides variables that are
// already set.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	strs := map[string]*string{
		"data_dir":         &cfg.DataDir,
		"database_driver":  &cfg.DatabaseDriver,
		"database_dsn":     &cfg.DatabaseDSN,
		"log_level":        &cfg.LogLevel,
		"log_format":       &cfg.LogFormat,
		"remote_url":       &cfg.RemoteURL,
		"remote_user":      &cfg.RemoteUser,
		"remote_password":  &cfg.RemotePassword,
		"s3_region":        &cfg.S3Region,
		"s3_base_endpoint": &cfg.S3BaseEndpoint,
		"http_addr":        &cfg.HTTPAddr,
		"webdav_addr":      &cfg.WebDAVAddr,
		"webdav_root":      &cfg.WebDAVRoot,
	}
	for key, dst := range strs {
		setString(dst, v.GetString(key))
	}

	durations := map[string]*time.Duration{
		"connect_timeout": &cfg.ConnectTimeout,
		"read_timeout":    &cfg.ReadTimeout,
		"write_timeout":   &cfg.WriteTimeout,
	}
	for key, dst := range durations {
		raw := v.GetString(key)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
		*dst = d
	}

	if raw := v.GetString("transfer_workers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s_TRANSFER_WORKERS: %w", EnvPrefix, err)
		}
		cfg.TransferWorkers = n
	}
	return nil
}

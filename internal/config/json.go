package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mindstitch/internal/flagx"
	"github.com/dmitrijs2005/mindstitch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so the file may say "30s" or give nanoseconds.
type JsonConfig struct {
	DataDir         string         `json:"data_dir"`
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	RemoteURL       string         `json:"remote_url"`
	RemoteUser      string         `json:"remote_user"`
	RemotePassword  string         `json:"remote_password"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	ConnectTimeout  timex.Duration `json:"connect_timeout"`
	ReadTimeout     timex.Duration `json:"read_timeout"`
	WriteTimeout    timex.Duration `json:"write_timeout"`
	TransferWorkers int            `json:"transfer_workers"`
	HTTPAddr        string         `json:"http_addr"`
	WebDAVAddr      string         `json:"webdav_addr"`
	WebDAVRoot      string         `json:"webdav_root"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays cfg with the file named by -c/-config/--config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.RemoteURL, jc.RemoteURL)
	setString(&cfg.RemoteUser, jc.RemoteUser)
	setString(&cfg.RemotePassword, jc.RemotePassword)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	setString(&cfg.WebDAVAddr, jc.WebDAVAddr)
	setString(&cfg.WebDAVRoot, jc.WebDAVRoot)

	if jc.ConnectTimeout.Duration > 0 {
		cfg.ConnectTimeout = jc.ConnectTimeout.Duration
	}
	if jc.ReadTimeout.Duration > 0 {
		cfg.ReadTimeout = jc.ReadTimeout.Duration
	}
	if jc.WriteTimeout.Duration > 0 {
		cfg.WriteTimeout = jc.WriteTimeout.Duration
	}
	if jc.TransferWorkers > 0 {
		cfg.TransferWorkers = jc.TransferWorkers
	}
	return nil
}

package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/mindstitch/internal/flagx"
)

// Flag names shared with the cobra command tree.
const (
	FlagConfig         = "config"
	FlagDataDir        = "data-dir"
	FlagDBDriver       = "db-driver"
	FlagDBDSN          = "db-dsn"
	FlagLogLevel       = "log-level"
	FlagLogFormat      = "log-format"
	FlagRemoteURL      = "remote-url"
	FlagRemoteUser     = "remote-user"
	FlagRemotePassword = "remote-password"
	FlagS3Region       = "s3-region"
	FlagS3Endpoint     = "s3-endpoint"
	FlagConnectTimeout = "connect-timeout"
	FlagReadTimeout    = "read-timeout"
	FlagWriteTimeout   = "write-timeout"
	FlagWorkers        = "workers"
	FlagHTTPAddr       = "http-addr"
	FlagWebDAVAddr     = "webdav-addr"
	FlagWebDAVRoot     = "webdav-root"
)

// FlagNames lists every flag parseFlags understands.
var FlagNames = []string{
	FlagDataDir, FlagDBDriver, FlagDBDSN, FlagLogLevel, FlagLogFormat,
	FlagRemoteURL, FlagRemoteUser, FlagRemotePassword, FlagS3Region, FlagS3Endpoint,
	FlagConnectTimeout, FlagReadTimeout, FlagWriteTimeout, FlagWorkers,
	FlagHTTPAddr, FlagWebDAVAddr, FlagWebDAVRoot,
}

// parseFlags overlays cfg with the known flags in args. Everything else
// (subcommands, their own flags) is filtered out first.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, flagx.Spellings(FlagNames...))

	fs := flag.NewFlagSet("mindstitch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, FlagDataDir, cfg.DataDir, "data directory")
	fs.StringVar(&cfg.DatabaseDriver, FlagDBDriver, cfg.DatabaseDriver, "database driver: sqlite or postgres")
	fs.StringVar(&cfg.DatabaseDSN, FlagDBDSN, cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, FlagLogLevel, cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, FlagLogFormat, cfg.LogFormat, "log format: text or json")
	fs.StringVar(&cfg.RemoteURL, FlagRemoteURL, cfg.RemoteURL, "backup server URL")
	fs.StringVar(&cfg.RemoteUser, FlagRemoteUser, cfg.RemoteUser, "backup server user")
	fs.StringVar(&cfg.RemotePassword, FlagRemotePassword, cfg.RemotePassword, "backup server password")
	fs.StringVar(&cfg.S3Region, FlagS3Region, cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, FlagS3Endpoint, cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&cfg.ConnectTimeout, FlagConnectTimeout, cfg.ConnectTimeout, "connect timeout")
	fs.DurationVar(&cfg.ReadTimeout, FlagReadTimeout, cfg.ReadTimeout, "read timeout")
	fs.DurationVar(&cfg.WriteTimeout, FlagWriteTimeout, cfg.WriteTimeout, "write timeout")
	fs.IntVar(&cfg.TransferWorkers, FlagWorkers, cfg.TransferWorkers, "parallel image transfers")
	fs.StringVar(&cfg.HTTPAddr, FlagHTTPAddr, cfg.HTTPAddr, "HTTP API listen address")
	fs.StringVar(&cfg.WebDAVAddr, FlagWebDAVAddr, cfg.WebDAVAddr, "WebDAV server listen address")
	fs.StringVar(&cfg.WebDAVRoot, FlagWebDAVRoot, cfg.WebDAVRoot, "WebDAV server root directory")

	return fs.Parse(filtered)
}

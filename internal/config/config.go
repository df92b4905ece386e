package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultDatabaseDriver = "sqlite"
	DefaultTimeout        = 30 * time.Second
	DefaultDirName        = ".mindstitch"
	DatabaseFile          = "mindstitch.db"
	WebDAVDirName         = "webdav"
)

// Config holds runtime settings for the CLI, the HTTP API and the bundled
// WebDAV server.
//
// An empty DatabaseDSN means the SQLite file inside DataDir; an empty
// WebDAVRoot means the "webdav" directory inside DataDir.
type Config struct {
	DataDir        string
	DatabaseDriver string
	DatabaseDSN    string

	LogLevel  string
	LogFormat string

	RemoteURL      string
	RemoteUser     string
	RemotePassword string
	S3Region       string
	S3BaseEndpoint string

	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	TransferWorkers int

	HTTPAddr   string
	WebDAVAddr string
	WebDAVRoot string
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.DatabaseDriver = DefaultDatabaseDriver
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ConnectTimeout = DefaultTimeout
	c.ReadTimeout = DefaultTimeout
	c.WriteTimeout = DefaultTimeout
	c.TransferWorkers = 1
	c.HTTPAddr = "127.0.0.1:8080"
	c.WebDAVAddr = "127.0.0.1:8081"
}

// DSN returns the database connection string to use.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	return filepath.Join(c.DataDir, DatabaseFile)
}

// WebDAVDir returns the directory served by serve-webdav.
func (c *Config) WebDAVDir() string {
	if c.WebDAVRoot != "" {
		return c.WebDAVRoot
	}
	return filepath.Join(c.DataDir, WebDAVDirName)
}

func (c *Config) normalize() {
	if c.TransferWorkers < 1 {
		c.TransferWorkers = 1
	}
}

// Load builds a Config from defaults, then overlays the JSON file, the
// environment and finally the flags found in args (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// Package config holds runtime settings of the TeachConnect client.
//
// Sources & precedence
//
//  1. Built-in defaults (see Defaults).
//  2. Optional YAML file selected with -config.
//  3. Command-line flags, which override earlier values.
//
// The Config is built once in main and passed to the components that need it;
// nothing in the module reads settings from globals.
//
// YAML schema:
//
//	data_dir: /home/teacher/.tconect
//	storage: bolt          # bolt | json | sqlite
//	port: 11224
//	send_timeout: 10s
//	debug: false
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultPort is the fixed port of the classroom listener
	DefaultPort = 11224
	// DefaultSendTimeout bounds connect and write of one message
	DefaultSendTimeout = 10 * time.Second

	// appDirName - каталог данных, как у настольного клиента TConect
	appDirName = "TConect"
)

// Storage backends
const (
	StorageBolt   = "bolt"
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config holds runtime settings for the client.
type Config struct {
	DataDir     string
	Storage     string
	Port        int
	SendTimeout time.Duration
	Debug       bool
}

// Defaults returns the built-in settings.
// DataDir is %APPDATA%/TConect when APPDATA is set, otherwise TConect next to the executable.
func Defaults(getenv func(string) string) *Config {
	return &Config{
		DataDir:     defaultDataDir(getenv),
		Storage:     StorageBolt,
		Port:        DefaultPort,
		SendTimeout: DefaultSendTimeout,
	}
}

func defaultDataDir(getenv func(string) string) string {
	if getenv != nil {
		if appData := getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName)
		}
	}

	// Фолбэк на каталог исполняемого файла (APPDATA нет на Linux/Android)
	base := "."
	if exe, err := os.Executable(); err == nil {
		base = filepath.Dir(exe)
	}
	return filepath.Join(base, appDirName)
}

// UserDir holds credentials
func (c *Config) UserDir() string { return filepath.Join(c.DataDir, "User") }

// CacheDir holds recent names and endpoints
func (c *Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// LogDir holds per-run audit logs
func (c *Config) LogDir() string { return filepath.Join(c.DataDir, "log") }

// DBPath is the BoltDB file used by the bolt backend
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, "teachconnect.db") }

// SQLitePath is the database file used by the sqlite backend
func (c *Config) SQLitePath() string { return filepath.Join(c.DataDir, "teachconnect.sqlite") }

// EnsureDirs creates the data directory tree
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.UserDir(), c.CacheDir(), c.LogDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks that settings are usable
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data dir cannot be empty"))
	}
	switch c.Storage {
	case StorageBolt, StorageJSON, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			c.Storage, StorageBolt, StorageJSON, StorageSQLite))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in 1..65535, got %d", c.Port))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("send timeout must be positive, got %s", c.SendTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

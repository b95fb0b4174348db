package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML representation. Pointers tell absent keys from zero values.
type fileConfig struct {
	DataDir     *string `yaml:"data_dir"`
	Storage     *string `yaml:"storage"`
	Port        *int    `yaml:"port"`
	SendTimeout *string `yaml:"send_timeout"`
	Debug       *bool   `yaml:"debug"`
}

// LoadFile overlays cfg with the values present in the YAML file at path
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.Storage != nil {
		cfg.Storage = *fc.Storage
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.SendTimeout != nil {
		d, err := time.ParseDuration(*fc.SendTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse send_timeout: %w", err)
		}
		cfg.SendTimeout = d
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	return nil
}

// Load builds the Config from defaults, the optional -config YAML file and flags.
// It returns the positional arguments left after flags.
func Load(args []string, getenv func(string) string, output io.Writer) (*Config, []string, error) {
	cfg := Defaults(getenv)

	fs := flag.NewFlagSet("teachconnect", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	configPath := fs.String("config", "", "Path to YAML config file")
	dataDir := fs.String("data", cfg.DataDir, "Data directory")
	storageKind := fs.String("storage", cfg.Storage, "Storage backend: bolt, json or sqlite")
	port := fs.Int("port", cfg.Port, "Listener port")
	timeout := fs.Duration("timeout", cfg.SendTimeout, "Connect/write timeout of one message")
	debug := fs.Bool("debug", cfg.Debug, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *configPath != "" {
		if err := LoadFile(cfg, *configPath); err != nil {
			return nil, nil, err
		}
	}

	// Флаги, заданные явно, перекрывают файл
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataDir = *dataDir
		case "storage":
			cfg.Storage = *storageKind
		case "port":
			cfg.Port = *port
		case "timeout":
			cfg.SendTimeout = *timeout
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}

// Package config loads the adsb_parser YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	NATS   NATSConfig   `yaml:"nats"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Name    string `yaml:"name"`
	Subject string `yaml:"subject"`
	Publish string `yaml:"publish"`
	Queue   string `yaml:"queue"`
}

type OutputConfig struct {
	Pretty bool `yaml:"pretty"`
	All    bool `yaml:"all"`
	Trace  bool `yaml:"trace"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads path, applies defaults and validates the result.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.NATS.Name == "" {
		cfg.NATS.Name = "adsb_parser"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "adsb.raw"
	}
	if cfg.NATS.Publish == "" {
		cfg.NATS.Publish = "adsb.decoded"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks values a flag or file may have set.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.NATS.URL, "nats://") && !strings.HasPrefix(c.NATS.URL, "tls://") {
		return fmt.Errorf("nats.url must start with nats:// or tls://")
	}
	if strings.ContainsAny(c.NATS.Subject, " \t") {
		return fmt.Errorf("nats.subject must not contain whitespace")
	}
	if strings.ContainsAny(c.NATS.Publish, " \t*>") {
		return fmt.Errorf("nats.publish must be a literal subject")
	}
	if c.NATS.Subject == c.NATS.Publish {
		return fmt.Errorf("nats.subject and nats.publish must differ")
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "off", "disabled", "none":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}
	return nil
}

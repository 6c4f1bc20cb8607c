package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ilog "mcgate/internal/log"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	AWSRegion  string `yaml:"aws_region"`
	InstanceID string `yaml:"instance_id"`

	// Optional features. Leaving any of these empty disables only the
	// feature that depends on it.
	WebhookURL    string `yaml:"webhook_url"`
	DuckDNSDomain string `yaml:"duckdns_domain"`
	DuckDNSToken  string `yaml:"duckdns_token"`

	// Stage segment inserted into the navigation links, e.g. "prod".
	LinkStage string `yaml:"link_stage"`

	StartIPWaitSeconds   int `yaml:"start_ip_wait_seconds"`
	ShutdownCheckMinutes int `yaml:"shutdown_check_minutes"`
}

func Load() (Config, error) {
	logger := ilog.Component("config")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		logger.Infof("CONFIG_PATH is set, loading: %s", p)
		return LoadFromFile(p)
	}
	path := resolveDefaultConfigPath()
	logger.Infof("using resolved config path: %s", path)
	return LoadFromFile(path)
}

func LoadFromFile(path string) (Config, error) {
	logger := ilog.Component("config")
	logger.Infof("reading config file: %s", path)
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Errorf("read failed: %v", err)
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	logger.Infof("parsing yaml")
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		logger.Errorf("yaml parse failed: %v", err)
		return Config{}, fmt.Errorf("failed to parse yaml %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	logger.Infof("validating fields")
	if err := cfg.Validate(); err != nil {
		logger.Errorf("validation failed: %v", err)
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger.Infof("config loaded successfully (http_addr=%s instance_id=%s)", cfg.HTTPAddr, cfg.InstanceID)
	return cfg, nil
}

// applyEnvOverrides lets the deployment environment win over the yaml file
// for the values that differ per deployment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INSTANCE_ID"); v != "" {
		c.InstanceID = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	if v := os.Getenv("DUCKDNS_DOMAIN"); v != "" {
		c.DuckDNSDomain = v
	}
	if v := os.Getenv("DUCKDNS_TOKEN"); v != "" {
		c.DuckDNSToken = v
	}
}

// Validate intentionally does not require instance_id: its absence must fail
// each invocation with a configuration error, not prevent the process from
// starting, so the gateway checks it per request.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr is required")
	}
	if c.DuckDNSToken != "" && c.DuckDNSDomain == "" {
		return errors.New("duckdns_token is set but duckdns_domain is empty")
	}
	return nil
}

func resolveDefaultConfigPath() string {
	logger := ilog.Component("config")
	candidates := []string{
		"config/config.yml",
		"../config/config.yml",
		"../../config/config.yml",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			logger.Infof("found config candidate: %s", p)
			return p
		}
	}
	// fallback for better error display in LoadFromFile
	logger.Warnf("no candidate found, fallback path: %s", candidates[0])
	return filepath.Clean(candidates[0])
}

// Package config loads iqt configuration.
//
// One file carries both the operator CLI settings (client) and the agent
// settings (agent). Files ending in .toml are decoded as TOML, anything else
// as YAML. A missing file is not an error: defaults apply.
//
// Config file locations (priority order):
//  1. $IQT_CONFIG
//  2. ./iqt.yaml
//  3. ./iqt.toml
//  4. $XDG_CONFIG_HOME/iqt/config.yaml
//  5. ~/.config/iqt/config.yaml
//  6. /etc/iqt/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the config at explicit, or the first discovered file when
// explicit is empty. It returns the path that was loaded, "" for defaults.
func Load(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Format is a config file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes data, fills in defaults and validates the result
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is found
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	cl := &c.Client
	if cl.Timeout == 0 {
		cl.Timeout = DefaultClientTimeout
	}
	if cl.Concurrency == 0 {
		cl.Concurrency = 1
	}
	if cl.FailurePolicy == "" {
		cl.FailurePolicy = "fail-fast"
	}
	if cl.Enumeration == "" {
		cl.Enumeration = "all"
	}
	if cl.MaxAddresses == 0 {
		cl.MaxAddresses = DefaultMaxAddresses
	}
	if cl.Port == 0 {
		cl.Port = DefaultPort
	}
	if cl.Probe.Method == "" {
		cl.Probe.Method = "tcp"
	}
	if cl.Probe.Timeout == 0 {
		cl.Probe.Timeout = DefaultProbeTimeout
	}
	if cl.Probe.MaxConcurrent == 0 {
		cl.Probe.MaxConcurrent = DefaultProbeConcurrency
	}

	a := &c.Agent
	if a.Listen == "" {
		a.Listen = fmt.Sprintf(":%d", DefaultPort)
	}
	if a.CommandTimeout == 0 {
		a.CommandTimeout = DefaultCommandTimeout
	}
	if a.ReadTimeout == 0 {
		a.ReadTimeout = DefaultReadTimeout
	}
	if a.WriteTimeout == 0 {
		a.WriteTimeout = DefaultWriteTimeout
	}
	if a.SSH.Host != "" && a.SSH.Port == 0 {
		a.SSH.Port = 22
	}
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	if c.Client.Concurrency < 1 {
		return fmt.Errorf("client.concurrency must be at least 1, got %d", c.Client.Concurrency)
	}
	if c.Client.MaxAddresses < 1 {
		return fmt.Errorf("client.max_addresses must be positive, got %d", c.Client.MaxAddresses)
	}
	if c.Client.Port < 1 || c.Client.Port > 65535 {
		return fmt.Errorf("client.port out of range: %d", c.Client.Port)
	}
	if c.Client.Timeout < 0 || c.Agent.CommandTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Agent.SSH.Host != "" && c.Agent.SSH.User == "" {
		return fmt.Errorf("agent.ssh.user is required when agent.ssh.host is set")
	}
	return nil
}

// Save writes config as YAML to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

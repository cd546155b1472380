package watcher

import (
	"fmt"
	"log"
	"sync"

	"iqt/internal/adapter"
	"iqt/internal/config"
)

// ApplyAgentConfig pushes the runtime-tunable agent settings into reg.
// Nothing is changed when the SSH runner cannot be built.
func ApplyAgentConfig(reg *adapter.Registry, cfg config.AgentConfig) error {
	runner, err := buildRunner(cfg.SSH)
	if err != nil {
		return err
	}

	reg.SetRunner(runner)
	reg.SetTimeout(cfg.CommandTimeout.Duration())
	reg.SetDisabled(cfg.DisabledCapabilities)
	return nil
}

// buildRunner returns an SSH runner when a host is configured, a local one otherwise
func buildRunner(cfg config.SSHConfig) (adapter.Runner, error) {
	if cfg.Host == "" {
		return adapter.NewLocalRunner(), nil
	}

	runner, err := adapter.NewSSHRunner(adapter.SSHConfig{
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		KeyPath:    cfg.KeyPath,
		Passphrase: cfg.Passphrase,
		Password:   cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("ssh runner: %w", err)
	}
	log.Printf("Running commands on %s over SSH", runner.Addr())
	return runner, nil
}

// Reloader re-reads the config file and applies it to a registry
type Reloader struct {
	path     string
	registry *adapter.Registry

	mu      sync.Mutex
	current config.AgentConfig
}

// NewReloader creates a reloader for the agent running with initial
func NewReloader(path string, reg *adapter.Registry, initial config.AgentConfig) *Reloader {
	return &Reloader{
		path:     path,
		registry: reg,
		current:  initial,
	}
}

// Reload loads the file and applies it. On any error the previous settings stay.
func (r *Reloader) Reload() error {
	cfg, _, err := config.LoadFromPath(r.path)
	if err != nil {
		log.Printf("Config reload failed, keeping previous settings: %v", err)
		return err
	}

	if err := ApplyAgentConfig(r.registry, cfg.Agent); err != nil {
		log.Printf("Config reload failed, keeping previous settings: %v", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Agent.Listen != r.current.Listen {
		log.Printf("Listen address change to %s takes effect after restart", cfg.Agent.Listen)
	}
	r.current = cfg.Agent
	log.Printf("Config reloaded from %s", r.path)
	return nil
}

// Current returns the last successfully applied agent settings
func (r *Reloader) Current() config.AgentConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

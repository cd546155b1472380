package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Client.Timeout.Duration() != time.Minute {
		t.Errorf("Client.Timeout = %s, want 1m", cfg.Client.Timeout.Duration())
	}
	if cfg.Client.Concurrency != 1 {
		t.Errorf("Client.Concurrency = %d, want 1", cfg.Client.Concurrency)
	}
	if cfg.Client.FailurePolicy != "fail-fast" {
		t.Errorf("Client.FailurePolicy = %s, want fail-fast", cfg.Client.FailurePolicy)
	}
	if cfg.Client.Enumeration != "all" {
		t.Errorf("Client.Enumeration = %s, want all", cfg.Client.Enumeration)
	}
	if cfg.Client.Port != DefaultPort {
		t.Errorf("Client.Port = %d, want %d", cfg.Client.Port, DefaultPort)
	}
	if cfg.Client.Probe.Enabled {
		t.Error("Probe should be disabled by default")
	}
	if cfg.Agent.Listen != ":4807" {
		t.Errorf("Agent.Listen = %s, want :4807", cfg.Agent.Listen)
	}
	if cfg.Agent.CommandTimeout.Duration() != 5*time.Second {
		t.Errorf("Agent.CommandTimeout = %s, want 5s", cfg.Agent.CommandTimeout.Duration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	data := `
client:
  timeout: 3s
  concurrency: 8
  failure_policy: isolate
  probe:
    enabled: true
    method: nmap
agent:
  listen: 127.0.0.1:9000
  command_timeout: 5s
  disabled_capabilities: [docker]
  ssh:
    host: 10.0.0.5
    user: ops
`
	cfg, err := Parse([]byte(data), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Client.Timeout.Duration() != 3*time.Second {
		t.Errorf("Client.Timeout = %s, want 3s", cfg.Client.Timeout.Duration())
	}
	if cfg.Client.Concurrency != 8 || cfg.Client.FailurePolicy != "isolate" {
		t.Errorf("Client = %+v", cfg.Client)
	}
	if !cfg.Client.Probe.Enabled || cfg.Client.Probe.Method != "nmap" {
		t.Errorf("Probe = %+v", cfg.Client.Probe)
	}
	if cfg.Client.Probe.Timeout != DefaultProbeTimeout {
		t.Errorf("Probe.Timeout = %s, want default", cfg.Client.Probe.Timeout.Duration())
	}
	if cfg.Agent.Listen != "127.0.0.1:9000" {
		t.Errorf("Agent.Listen = %s", cfg.Agent.Listen)
	}
	if !slices.Equal(cfg.Agent.DisabledCapabilities, []string{"docker"}) {
		t.Errorf("DisabledCapabilities = %v", cfg.Agent.DisabledCapabilities)
	}
	if cfg.Agent.SSH.Port != 22 {
		t.Errorf("SSH.Port = %d, want 22", cfg.Agent.SSH.Port)
	}
}

func TestParseTOML(t *testing.T) {
	data := `
[client]
timeout = "750ms"
enumeration = "hosts-only"
max_addresses = 1024

[agent]
command_timeout = "1m"
disabled_capabilities = ["disk", "docker"]
`
	cfg, err := Parse([]byte(data), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Client.Timeout.Duration() != 750*time.Millisecond {
		t.Errorf("Client.Timeout = %s, want 750ms", cfg.Client.Timeout.Duration())
	}
	if cfg.Client.Enumeration != "hosts-only" || cfg.Client.MaxAddresses != 1024 {
		t.Errorf("Client = %+v", cfg.Client)
	}
	if cfg.Agent.CommandTimeout.Duration() != time.Minute {
		t.Errorf("Agent.CommandTimeout = %s, want 1m", cfg.Agent.CommandTimeout.Duration())
	}
	if len(cfg.Agent.DisabledCapabilities) != 2 {
		t.Errorf("DisabledCapabilities = %v", cfg.Agent.DisabledCapabilities)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr string
	}{
		{"bad yaml", "client: [", FormatYAML, "parse config"},
		{"bad duration", "client:\n  timeout: soon\n", FormatYAML, "invalid duration"},
		{"bad toml", "[client\n", FormatTOML, "parse config"},
		{"negative concurrency", "client:\n  concurrency: -1\n", FormatYAML, "concurrency"},
		{"port range", "client:\n  port: 70000\n", FormatYAML, "port"},
		{"ssh without user", "agent:\n  ssh:\n    host: 10.0.0.5\n", FormatYAML, "ssh.user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Client.Concurrency = 4
	cfg.Client.History.Path = "/var/lib/iqt/history.db"
	cfg.Agent.CommandTimeout = Duration(45 * time.Second)

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Client.Concurrency != 4 {
		t.Errorf("Client.Concurrency = %d, want 4", loaded.Client.Concurrency)
	}
	if loaded.Client.History.Path != "/var/lib/iqt/history.db" {
		t.Errorf("History.Path = %s", loaded.Client.History.Path)
	}
	if loaded.Agent.CommandTimeout.Duration() != 45*time.Second {
		t.Errorf("CommandTimeout = %s, want 45s", loaded.Agent.CommandTimeout.Duration())
	}
}

func TestLoadTOMLByExtension(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "iqt.toml")
	if err := os.WriteFile(configPath, []byte("[client]\nconcurrency = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.Concurrency != 3 {
		t.Errorf("Client.Concurrency = %d, want 3", cfg.Client.Concurrency)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Error("Load() should fail for a missing explicit path")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv(EnvConfigPath, "")
	t.Chdir(tmpDir)

	if found := FindConfigPath(); found != "" && !strings.HasPrefix(found, "/etc/") {
		t.Errorf("FindConfigPath() = %s, want nothing in an empty tree", found)
	}

	xdgPath := filepath.Join(tmpDir, "xdg", ConfigDirName, "config.yaml")
	if err := DefaultConfig().Save(xdgPath); err != nil {
		t.Fatal(err)
	}
	if found := FindConfigPath(); found != xdgPath {
		t.Errorf("FindConfigPath() = %s, want %s", found, xdgPath)
	}

	// Working directory beats XDG
	if err := os.WriteFile(filepath.Join(tmpDir, "iqt.toml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if found := FindConfigPath(); filepath.Base(found) != "iqt.toml" {
		t.Errorf("FindConfigPath() = %s, want ./iqt.toml", found)
	}

	// Nonexistent env path falls back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); filepath.Base(found) != "iqt.toml" {
		t.Errorf("FindConfigPath() = %s, want fallback to ./iqt.toml", found)
	}

	envPath := filepath.Join(tmpDir, "explicit.yaml")
	if err := os.WriteFile(envPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, envPath)
	if found := FindConfigPath(); found != envPath {
		t.Errorf("FindConfigPath() = %s, want %s", found, envPath)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}

	var parsed Duration
	if err := parsed.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if parsed.Duration() != 90*time.Second {
		t.Errorf("UnmarshalText() = %s, want 1m30s", parsed.Duration())
	}
}

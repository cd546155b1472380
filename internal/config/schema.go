package config

import (
	"fmt"
	"time"
)

// Timeout relationship: the agent resolves the fields of one query one after
// another, so a request may take up to (fields x command_timeout). The client
// timeout must stay above that, or a hung command on one host turns from a
// field error into a transport error that aborts a fail-fast broadcast. With
// the defaults, every capability operation in one query at the command limit
// (7 x 5s) still finishes well inside the client's 60s. The agent write
// timeout is sized the same way.
const (
	DefaultPort             = 4807
	DefaultClientTimeout    = Duration(60 * time.Second)
	DefaultMaxAddresses     = 65536
	DefaultProbeTimeout     = Duration(2 * time.Second)
	DefaultProbeConcurrency = 64
	DefaultCommandTimeout   = Duration(5 * time.Second)
	DefaultReadTimeout      = Duration(15 * time.Second)
	DefaultWriteTimeout     = Duration(60 * time.Second)
)

// Config is the root of the config file
type Config struct {
	Client ClientConfig `yaml:"client" toml:"client"`
	Agent  AgentConfig  `yaml:"agent" toml:"agent"`
}

// ClientConfig holds operator CLI settings
type ClientConfig struct {
	Timeout       Duration      `yaml:"timeout" toml:"timeout"`               // per request
	Concurrency   int           `yaml:"concurrency" toml:"concurrency"`       // 1 = sequential
	FailurePolicy string        `yaml:"failure_policy" toml:"failure_policy"` // fail-fast | isolate
	Enumeration   string        `yaml:"enumeration" toml:"enumeration"`       // all | hosts-only
	MaxAddresses  int           `yaml:"max_addresses" toml:"max_addresses"`   // per subnet entry
	Port          int           `yaml:"port" toml:"port"`
	Probe         ProbeConfig   `yaml:"probe" toml:"probe"`
	History       HistoryConfig `yaml:"history" toml:"history"`
}

// ProbeConfig controls the liveness sweep before dispatch
type ProbeConfig struct {
	Enabled       bool     `yaml:"enabled" toml:"enabled"`
	Method        string   `yaml:"method" toml:"method"` // tcp | nmap
	Timeout       Duration `yaml:"timeout" toml:"timeout"`
	MaxConcurrent int      `yaml:"max_concurrent" toml:"max_concurrent"`
}

// HistoryConfig holds the run history database settings
type HistoryConfig struct {
	Path string `yaml:"path,omitempty" toml:"path"`
}

// AgentConfig holds agent settings
type AgentConfig struct {
	Listen               string    `yaml:"listen" toml:"listen"`
	CommandTimeout       Duration  `yaml:"command_timeout" toml:"command_timeout"`
	DisabledCapabilities []string  `yaml:"disabled_capabilities,omitempty" toml:"disabled_capabilities"`
	SSH                  SSHConfig `yaml:"ssh,omitempty" toml:"ssh"`
	ReadTimeout          Duration  `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout         Duration  `yaml:"write_timeout" toml:"write_timeout"`
}

// SSHConfig points the agent at a host it runs commands on over SSH
type SSHConfig struct {
	Host       string `yaml:"host,omitempty" toml:"host"`
	Port       int    `yaml:"port,omitempty" toml:"port"`
	User       string `yaml:"user,omitempty" toml:"user"`
	KeyPath    string `yaml:"key_path,omitempty" toml:"key_path"`
	Passphrase string `yaml:"passphrase,omitempty" toml:"passphrase"`
	Password   string `yaml:"password,omitempty" toml:"password"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

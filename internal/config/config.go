// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "5s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AgentSeed describes one simulated agent in the fallback roster.
type AgentSeed struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Endpoint string `yaml:"endpoint"`
	Version  string `yaml:"version"`
}

// Simulation configures the fallback telemetry generator.
type Simulation struct {
	TickInterval       Duration    `yaml:"tick_interval"`
	MessageProbability float64       `yaml:"message_probability"`
	LogProbability     float64       `yaml:"log_probability"`
	Agents             []AgentSeed   `yaml:"agents"`
}

// Limits caps the bounded collections. Zero values use the store defaults.
type Limits struct {
	Messages int `yaml:"messages"`
	Metrics  int `yaml:"metrics"`
	Logs     int `yaml:"logs"`
}

// Greptime configures the optional metrics export sink.
type Greptime struct {
	Endpoint string `yaml:"endpoint"`
	Database string `yaml:"database"`
}

// MonitorConfig is the root configuration for the fleet monitor.
type MonitorConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	ReconnectDelay Duration      `yaml:"reconnect_delay"`
	AdminAddr      string        `yaml:"admin_addr"`
	Simulation     Simulation    `yaml:"simulation"`
	Limits         Limits        `yaml:"limits"`
	Greptime       Greptime      `yaml:"greptime"`
}

// Defaults used when the config file leaves a value unset.
const (
	DefaultReconnectDelay = 5 * time.Second
	DefaultTickInterval   = 2 * time.Second
	DefaultAdminAddr      = ":8080"
)

// Load loads YAML config and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*MonitorConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg MonitorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset values so a minimal config file works.
func (c *MonitorConfig) ApplyDefaults() {
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = Duration(DefaultReconnectDelay)
	}
	if c.AdminAddr == "" {
		c.AdminAddr = DefaultAdminAddr
	}
	if c.Simulation.TickInterval <= 0 {
		c.Simulation.TickInterval = Duration(DefaultTickInterval)
	}
	if c.Simulation.MessageProbability <= 0 {
		c.Simulation.MessageProbability = 0.3
	}
	if c.Simulation.LogProbability <= 0 {
		c.Simulation.LogProbability = 0.2
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSchema = `
endpoint: string
reconnect_delay?: string
admin_addr?: string

limits?: {
	messages?: int & >=1
	metrics?:  int & >=1
	logs?:     int & >=1
}

simulation?: {
	tick_interval?:       string
	message_probability?: number & >=0 & <=1
	log_probability?:     number & >=0 & <=1
	agents?: [...{
		id:       string
		name:     string
		type:     string
		endpoint: string
		version?: string
	}]
}

greptime?: {
	endpoint?: string
	database?: string
}
`

func writeFiles(t *testing.T, yaml string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "monitor.yaml")
	schemaPath := filepath.Join(dir, "monitor.cue")
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return cfgPath, schemaPath
}

func TestLoad_Valid(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
endpoint: ws://fleet.local:8765/monitor
reconnect_delay: 3s
limits:
  messages: 50
simulation:
  tick_interval: 1s
  agents:
    - id: a1
      name: Agent One
      type: worker
      endpoint: http://a1.local
`)
	cfg, err := Load(cfgPath, schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Endpoint != "ws://fleet.local:8765/monitor" {
		t.Errorf("unexpected endpoint: %q", cfg.Endpoint)
	}
	if cfg.ReconnectDelay.Std() != 3*time.Second {
		t.Errorf("unexpected reconnect delay: %v", cfg.ReconnectDelay.Std())
	}
	if cfg.Limits.Messages != 50 {
		t.Errorf("unexpected message limit: %d", cfg.Limits.Messages)
	}
	if len(cfg.Simulation.Agents) != 1 || cfg.Simulation.Agents[0].ID != "a1" {
		t.Errorf("unexpected roster: %+v", cfg.Simulation.Agents)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, "endpoint: ws://fleet.local/monitor\n")
	cfg, err := Load(cfgPath, schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ReconnectDelay.Std() != DefaultReconnectDelay {
		t.Errorf("reconnect delay default not applied: %v", cfg.ReconnectDelay.Std())
	}
	if cfg.Simulation.TickInterval.Std() != DefaultTickInterval {
		t.Errorf("tick interval default not applied: %v", cfg.Simulation.TickInterval.Std())
	}
	if cfg.Simulation.MessageProbability != 0.3 || cfg.Simulation.LogProbability != 0.2 {
		t.Errorf("probability defaults not applied: %+v", cfg.Simulation)
	}
	if cfg.AdminAddr != DefaultAdminAddr {
		t.Errorf("admin addr default not applied: %q", cfg.AdminAddr)
	}
}

func TestLoad_SchemaRejectsBadProbability(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
endpoint: ws://fleet.local/monitor
simulation:
  message_probability: 1.5
`)
	if _, err := Load(cfgPath, schemaPath); err == nil {
		t.Fatal("expected schema validation failure for probability > 1")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	cfgPath, schemaPath := writeFiles(t, `
endpoint: ws://fleet.local/monitor
reconnect_delay: soon
`)
	if _, err := Load(cfgPath, schemaPath); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

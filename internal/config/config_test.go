package config

import (
	"testing"
	"time"
)

func TestDefaultServerConfig(t *testing.T) {
	t.Setenv(EnvOTLPEndpoint, "")
	cfg := DefaultServerConfig()
	if cfg.Addr != ":8080" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReplayInterval != 500*time.Millisecond {
		t.Errorf("ReplayInterval = %v", cfg.ReplayInterval)
	}
	if cfg.Telemetry.Enabled() {
		t.Error("telemetry should be disabled without an endpoint")
	}
}

func TestDefaultSimulationConfig(t *testing.T) {
	cfg := DefaultSimulationConfig()
	if cfg.MemoryCapacity != 50 {
		t.Errorf("MemoryCapacity = %d, want 50", cfg.MemoryCapacity)
	}
	if cfg.Policy != "fifo" || cfg.MemoryPolicy != "fifo" {
		t.Errorf("policies = %q/%q", cfg.Policy, cfg.MemoryPolicy)
	}
	if cfg.Quantum <= 0 || cfg.Overhead <= 0 || cfg.CompareWorkers <= 0 {
		t.Errorf("non-positive defaults: %+v", cfg)
	}
}

func TestDefaultTelemetryConfig_Env(t *testing.T) {
	t.Setenv(EnvOTLPEndpoint, "localhost:4317")
	cfg := DefaultTelemetryConfig()
	if !cfg.Enabled() || cfg.OTLPEndpoint != "localhost:4317" {
		t.Errorf("cfg = %+v", cfg)
	}
}

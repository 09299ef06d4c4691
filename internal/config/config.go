package config

import (
	"os"
	"time"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvServer       = "CPUSIM_SERVER"
	EnvOTLPEndpoint = "CPUSIM_OTLP_ENDPOINT"
)

// ServerConfig holds configuration for the cpusim API server.
type ServerConfig struct {
	Addr           string        // Listen address (default ":8080")
	LogLevel       string        // Log level: debug, info, warn, error
	LogFormat      string        // Log format: text, json
	MaxRuns        int           // Runs kept in the registry before the oldest is evicted (0 = unbounded)
	ReplayInterval time.Duration // Default SSE tick cadence
	Telemetry      TelemetryConfig
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		MaxRuns:        256,
		ReplayInterval: 500 * time.Millisecond,
		Telemetry:      DefaultTelemetryConfig(),
	}
}

// SimulationConfig holds the defaults applied to scenarios that omit a value.
type SimulationConfig struct {
	Policy         string
	Quantum        int
	Overhead       int
	MemoryCapacity int
	MemoryPolicy   string
	ReplayInterval time.Duration
	// CompareWorkers bounds concurrent engine runs in a policy comparison.
	CompareWorkers int
}

// DefaultSimulationConfig returns sensible defaults.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Policy:         "fifo",
		Quantum:        2,
		Overhead:       1,
		MemoryCapacity: 50,
		MemoryPolicy:   "fifo",
		ReplayInterval: 500 * time.Millisecond,
		CompareWorkers: 4,
	}
}

// TelemetryConfig configures OpenTelemetry tracing. An empty endpoint disables export.
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// DefaultTelemetryConfig reads the OTLP endpoint from the environment.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:  "cpusim",
		OTLPEndpoint: os.Getenv(EnvOTLPEndpoint),
	}
}

// Enabled reports whether spans are exported.
func (c TelemetryConfig) Enabled() bool {
	return c.OTLPEndpoint != ""
}

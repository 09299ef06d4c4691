// Package workload loads scenarios from YAML, JSON and XLSX documents.
package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/pkg/model"
)

// Load reads a scenario from path. The format is chosen by extension:
// .yaml, .yml and .json are scenario documents, .xlsx is a process table.
func Load(path string, defaults config.SimulationConfig) (model.Scenario, error) {
	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var (
		sc  model.Scenario
		err error
	)
	switch ext {
	case ".yaml", ".yml", ".json":
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return model.Scenario{}, fmt.Errorf("read scenario: %w", err)
		}
		sc, err = Parse(data, defaults)
	case ".xlsx":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return model.Scenario{}, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		sc, err = ParseXLSX(f, defaults)
	default:
		return model.Scenario{}, fmt.Errorf("unsupported scenario format %q (want .yaml, .yml, .json or .xlsx)", ext)
	}
	if err != nil {
		return model.Scenario{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if sc.Name == "" {
		sc.Name = name
	}
	return sc, nil
}

// Parse decodes a YAML or JSON scenario document and fills in defaults.
// Unknown keys are rejected.
func Parse(data []byte, defaults config.SimulationConfig) (model.Scenario, error) {
	var sc model.Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Scenario{}, fmt.Errorf("empty scenario document")
		}
		return model.Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	ApplyDefaults(&sc, defaults)
	return sc, nil
}

// ApplyDefaults fills every setting sc leaves unset from defaults. An explicit
// zero quantum, overhead or capacity is kept so validation rejects it. Processes
// are left untouched.
func ApplyDefaults(sc *model.Scenario, defaults config.SimulationConfig) {
	if strings.TrimSpace(sc.Policy) == "" {
		sc.Policy = defaults.Policy
	}
	if sc.Quantum == nil {
		sc.Quantum = model.Int(defaults.Quantum)
	}
	if sc.Overhead == nil {
		sc.Overhead = model.Int(defaults.Overhead)
	}
	if sc.Memory.Capacity == nil {
		sc.Memory.Capacity = model.Int(defaults.MemoryCapacity)
	}
	if strings.TrimSpace(sc.Memory.Policy) == "" {
		sc.Memory.Policy = defaults.MemoryPolicy
	}
}

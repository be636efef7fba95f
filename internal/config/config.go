// Package config provides configuration management for the engine's
// execution knobs: when kernels go parallel, how many workers they use, and
// CSV boundary behavior. Configuration can come from defaults, a YAML or
// JSON file, or LEMUR_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds the global engine configuration.
type Config struct {
	// ParallelThreshold is the minimum element count before kernels and
	// frame operations switch to data-parallel execution.
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"`
	// WorkerPoolSize is the number of worker goroutines (0 = one per CPU).
	WorkerPoolSize int `json:"worker_pool_size" yaml:"worker_pool_size"`
	// ChunkSize is the preferred chunk size for parallel work (0 = derive
	// from input size and worker count).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
	// CSVInferTypes enables type inference when reading CSV; when false
	// every column loads as string.
	CSVInferTypes bool `json:"csv_infer_types" yaml:"csv_infer_types"`
}

// Default configuration values.
const (
	DefaultParallelThreshold = 1000
)

var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = New()
}

// New creates a configuration with default values.
func New() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // auto-detect
		ChunkSize:         0, // auto-calculate
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize)
	}
	return nil
}

// WithDefaults fills default values into zero fields.
func (c Config) WithDefaults() Config {
	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = DefaultParallelThreshold
	}
	return c
}

// Global returns a snapshot of the global configuration.
func Global() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetGlobal replaces the global configuration after validation.
func SetGlobal(c Config) error {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = c
	return nil
}

// Reset restores the global configuration to defaults.
func Reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = New()
}

// LoadFromFile reads a configuration file; the format is chosen by
// extension (.yaml/.yml or .json).
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnv overlays LEMUR_* environment variables onto c.
func FromEnv(c Config) Config {
	if v, ok := lookupInt("LEMUR_PARALLEL_THRESHOLD"); ok {
		c.ParallelThreshold = v
	}
	if v, ok := lookupInt("LEMUR_WORKER_POOL_SIZE"); ok {
		c.WorkerPoolSize = v
	}
	if v, ok := lookupInt("LEMUR_CHUNK_SIZE"); ok {
		c.ChunkSize = v
	}
	if raw, ok := os.LookupEnv("LEMUR_CSV_INFER_TYPES"); ok {
		if b, err := strconv.ParseBool(raw); err == nil {
			c.CSVInferTypes = b
		}
	}
	return c
}

func lookupInt(key string) (int, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

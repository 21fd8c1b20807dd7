// Package config provides hierarchical configuration management.
// Priority: defaults < user < project < env < flags
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds all catflow configuration.
type Config struct {
	Version int `yaml:"version"`

	Extraction ExtractionConfig `yaml:"extraction"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ExtractionConfig controls default extraction behavior.
type ExtractionConfig struct {
	ChunkSize   int    `yaml:"chunk_size"`
	Encoding    string `yaml:"encoding"`    // cp1252 | latin1 | utf-8
	Compression string `yaml:"compression"` // snappy | gzip | zstd | lz4 | none
	OutputDir   string `yaml:"output_dir"`
}

// WatchConfig controls the folder watcher.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Extraction: ExtractionConfig{
			ChunkSize:   1_000_000,
			Encoding:    "cp1252",
			Compression: "snappy",
			OutputDir:   ".",
		},
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

// Manager handles configuration loading and merging.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	paths  []string // paths that were loaded
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{
		config: Default(),
	}
}

// Load loads configuration from all sources in priority order.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = Default()

	for _, path := range m.getConfigPaths() {
		if err := m.loadFile(path); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
		} else {
			m.paths = append(m.paths, path)
		}
	}

	m.loadEnv()

	return nil
}

// getConfigPaths returns config file paths in priority order.
func (m *Manager) getConfigPaths() []string {
	var paths []string

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".catflow", "config.yaml"))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".catflow.yaml"))
	}

	return paths
}

// loadFile loads a single config file and merges it.
func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var partial Config
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return err
	}

	m.merge(&partial)
	return nil
}

// merge merges non-zero values from src into config.
func (m *Manager) merge(src *Config) {
	if src.Extraction.ChunkSize != 0 {
		m.config.Extraction.ChunkSize = src.Extraction.ChunkSize
	}
	if src.Extraction.Encoding != "" {
		m.config.Extraction.Encoding = src.Extraction.Encoding
	}
	if src.Extraction.Compression != "" {
		m.config.Extraction.Compression = src.Extraction.Compression
	}
	if src.Extraction.OutputDir != "" {
		m.config.Extraction.OutputDir = src.Extraction.OutputDir
	}
	if src.Watch.DebounceMillis != 0 {
		m.config.Watch.DebounceMillis = src.Watch.DebounceMillis
	}
}

// loadEnv loads configuration from environment variables.
func (m *Manager) loadEnv() {
	if v := os.Getenv("CATFLOW_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			m.config.Extraction.ChunkSize = n
		}
	}

	if v := os.Getenv("CATFLOW_ENCODING"); v != "" {
		m.config.Extraction.Encoding = v
	}

	if v := os.Getenv("CATFLOW_COMPRESSION"); v != "" {
		m.config.Extraction.Compression = v
	}

	if v := os.Getenv("CATFLOW_OUTPUT_DIR"); v != "" {
		m.config.Extraction.OutputDir = v
	}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetPaths returns the paths that were loaded.
func (m *Manager) GetPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths
}

// Save writes the current config to the user config file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(home, ".catflow")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.yaml"), data, 0644)
}

// Global instance
var (
	globalManager *Manager
	globalOnce    sync.Once
)

// Global returns the global configuration manager.
func Global() *Manager {
	globalOnce.Do(func() {
		globalManager = NewManager()
		globalManager.Load()
	})
	return globalManager
}

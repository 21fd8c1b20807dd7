package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Extraction.ChunkSize != 1_000_000 {
		t.Errorf("ChunkSize = %d, want 1000000", cfg.Extraction.ChunkSize)
	}
	if cfg.Extraction.Encoding != "cp1252" {
		t.Errorf("Encoding = %q, want cp1252", cfg.Extraction.Encoding)
	}
	if cfg.Extraction.Compression != "snappy" {
		t.Errorf("Compression = %q, want snappy", cfg.Extraction.Compression)
	}
	if cfg.Extraction.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.Extraction.OutputDir)
	}
	if cfg.Watch.DebounceMillis != 500 {
		t.Errorf("DebounceMillis = %d, want 500", cfg.Watch.DebounceMillis)
	}
}

func TestManager_LoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
extraction:
  chunk_size: 250000
  compression: zstd
`
	if err := os.WriteFile(filepath.Join(dir, ".catflow.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := m.Get()
	if cfg.Extraction.ChunkSize != 250000 {
		t.Errorf("ChunkSize = %d, want 250000", cfg.Extraction.ChunkSize)
	}
	if cfg.Extraction.Compression != "zstd" {
		t.Errorf("Compression = %q, want zstd", cfg.Extraction.Compression)
	}
	// Unset keys keep their defaults.
	if cfg.Extraction.Encoding != "cp1252" {
		t.Errorf("Encoding = %q, want default cp1252", cfg.Extraction.Encoding)
	}
}

func TestManager_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "extraction:\n  encoding: latin1\n"
	if err := os.WriteFile(filepath.Join(dir, ".catflow.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(old)

	t.Setenv("CATFLOW_ENCODING", "utf-8")
	t.Setenv("CATFLOW_CHUNK_SIZE", "1234")

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	cfg := m.Get()
	if cfg.Extraction.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, env should win over file", cfg.Extraction.Encoding)
	}
	if cfg.Extraction.ChunkSize != 1234 {
		t.Errorf("ChunkSize = %d, want 1234", cfg.Extraction.ChunkSize)
	}
}

func TestManager_BadEnvIgnored(t *testing.T) {
	t.Setenv("CATFLOW_CHUNK_SIZE", "notanumber")

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if got := m.Get().Extraction.ChunkSize; got != 1_000_000 {
		t.Errorf("ChunkSize = %d, want default after bad env value", got)
	}
}

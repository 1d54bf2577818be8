package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veyrane/stashwise/internal/config"
	"github.com/veyrane/stashwise/internal/profile"
)

// ── helpers ──────────────────────────────────────────────────────────────────

const sampleYAML = `
server:
  listen_addr: ":8080"
  log_level: info

catalog:
  base_url: https://cdn.projectgorgon.com
  version: v457
  cache_dir: /var/cache/stashwise
  max_age_hours: 168

storage:
  backend: file
  profile_dir: /var/lib/stashwise/profiles

analysis:
  character: Veyrane
  export_dir: /home/player/gorgon-exports
  default_gem_keep: 5
`

// ── YAML loading ──────────────────────────────────────────────────────────────

func TestLoadFromReader_Valid(t *testing.T) {
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("server.listen_addr: got %q, want %q", cfg.Server.ListenAddr, ":8080")
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("server.log_level: got %q, want %q", cfg.Server.LogLevel, config.LogInfo)
	}
	if cfg.Catalog.BaseURL != "https://cdn.projectgorgon.com" {
		t.Errorf("catalog.base_url: got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Storage.Backend != config.StorageFile {
		t.Errorf("storage.backend: got %q, want %q", cfg.Storage.Backend, config.StorageFile)
	}
	if cfg.Analysis.DefaultGemKeep != 5 {
		t.Errorf("analysis.default_gem_keep: got %d, want 5", cfg.Analysis.DefaultGemKeep)
	}
}

func TestLoadFromReader_EmptyIsValid(t *testing.T) {
	// An empty config should succeed (no required top-level fields).
	_, err := config.LoadFromReader(strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("unexpected error for empty config: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Character != "Veyrane" {
		t.Errorf("analysis.character: got %q, want %q", cfg.Analysis.Character, "Veyrane")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// ── enums ────────────────────────────────────────────────────────────────────

func TestLogLevel_IsValid(t *testing.T) {
	valid := []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError}
	for _, l := range valid {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("verbose").IsValid() {
		t.Error("\"verbose\" should not be valid")
	}
}

func TestStorageBackend_IsValid(t *testing.T) {
	valid := []config.StorageBackend{config.StorageMemory, config.StorageFile, config.StoragePostgres}
	for _, b := range valid {
		if !b.IsValid() {
			t.Errorf("%q should be valid", b)
		}
	}
	if config.StorageBackend("redis").IsValid() {
		t.Error("\"redis\" should not be valid")
	}
}

// ── registry ─────────────────────────────────────────────────────────────────

func TestDefaultRegistry_MemoryBackend(t *testing.T) {
	r := config.DefaultRegistry()
	store, err := r.CreateStore(config.StorageConfig{Backend: config.StorageMemory})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if store == nil {
		t.Fatal("CreateStore returned nil store")
	}
}

func TestDefaultRegistry_FileBackend(t *testing.T) {
	r := config.DefaultRegistry()
	store, err := r.CreateStore(config.StorageConfig{
		Backend:    config.StorageFile,
		ProfileDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if store == nil {
		t.Fatal("CreateStore returned nil store")
	}
}

func TestDefaultRegistry_EmptyBackendDefaultsToFile(t *testing.T) {
	r := config.DefaultRegistry()
	dir := t.TempDir()
	store, err := r.CreateStore(config.StorageConfig{ProfileDir: filepath.Join(dir, "profiles")})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if _, ok := store.(*profile.FileStore); !ok {
		t.Errorf("store = %T, want *profile.FileStore", store)
	}
}

func TestDefaultRegistry_PostgresNotRegistered(t *testing.T) {
	// The postgres backend needs a live pool and is registered by the caller.
	r := config.DefaultRegistry()
	_, err := r.CreateStore(config.StorageConfig{Backend: config.StoragePostgres})
	if !errors.Is(err, config.ErrBackendNotRegistered) {
		t.Errorf("CreateStore = %v, want ErrBackendNotRegistered", err)
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := config.NewRegistry()
	r.RegisterStore(config.StorageMemory, func(config.StorageConfig) (profile.Store, error) {
		return nil, errors.New("first")
	})
	r.RegisterStore(config.StorageMemory, func(config.StorageConfig) (profile.Store, error) {
		return profile.NewMemStore(), nil
	})

	store, err := r.CreateStore(config.StorageConfig{Backend: config.StorageMemory})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if store == nil {
		t.Fatal("CreateStore returned nil store")
	}
}

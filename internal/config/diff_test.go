package config_test

import (
	"testing"

	"github.com/veyrane/stashwise/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   config.LogInfo,
		},
		Catalog: config.CatalogConfig{
			Version:  "v457",
			CacheDir: "/var/cache/stashwise",
		},
		Storage: config.StorageConfig{
			Backend:    config.StorageFile,
			ProfileDir: "/var/lib/stashwise/profiles",
		},
		Analysis: config.AnalysisConfig{
			Character:      "Veyrane",
			DefaultGemKeep: 5,
			IgnoredNPCs:    []string{"Ragabir"},
		},
	}
}

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	d := config.Diff(old, new)
	if d.HasChanges() {
		t.Errorf("identical configs should produce no diff, got %+v", d)
	}
}

func TestDiff_LogLevelChange(t *testing.T) {
	t.Parallel()
	old, new := baseConfig(), baseConfig()
	new.Server.LogLevel = config.LogDebug

	d := config.Diff(old, new)
	if !d.LogLevelChanged {
		t.Error("LogLevelChanged should be true")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("NewLogLevel = %q, want %q", d.NewLogLevel, config.LogDebug)
	}
	if d.RestartNeeded {
		t.Error("log level change should not need a restart")
	}
}

func TestDiff_AnalysisChanges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"character", func(c *config.Config) { c.Analysis.Character = "Other" }},
		{"export dir", func(c *config.Config) { c.Analysis.ExportDir = "/elsewhere" }},
		{"gem keep", func(c *config.Config) { c.Analysis.DefaultGemKeep = 10 }},
		{"ignored npcs", func(c *config.Config) { c.Analysis.IgnoredNPCs = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			old, new := baseConfig(), baseConfig()
			tc.mutate(new)

			d := config.Diff(old, new)
			if !d.AnalysisChanged {
				t.Error("AnalysisChanged should be true")
			}
			if d.RestartNeeded {
				t.Error("analysis change should not need a restart")
			}
		})
	}
}

func TestDiff_RestartNeeded(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"listen addr", func(c *config.Config) { c.Server.ListenAddr = ":9090" }},
		{"tls added", func(c *config.Config) {
			c.Server.TLS = &config.TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}
		}},
		{"catalog version", func(c *config.Config) { c.Catalog.Version = "v458" }},
		{"catalog mirrors", func(c *config.Config) { c.Catalog.Mirrors = []string{"https://mirror.example.com"} }},
		{"storage backend", func(c *config.Config) { c.Storage.Backend = config.StorageMemory }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			old, new := baseConfig(), baseConfig()
			tc.mutate(new)

			d := config.Diff(old, new)
			if !d.RestartNeeded {
				t.Error("RestartNeeded should be true")
			}
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}

	// Catalog
	if cfg.Catalog.BaseURL != "" {
		if err := validateBaseURL("catalog.base_url", cfg.Catalog.BaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	for i, m := range cfg.Catalog.Mirrors {
		if err := validateBaseURL(fmt.Sprintf("catalog.mirrors[%d]", i), m); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Catalog.MaxAgeHours < 0 {
		errs = append(errs, fmt.Errorf("catalog.max_age_hours %d must not be negative", cfg.Catalog.MaxAgeHours))
	}
	if cfg.Catalog.CacheDir == "" {
		slog.Warn("catalog.cache_dir is empty; table downloads will not be cached")
	}

	// Storage
	if cfg.Storage.Backend != "" && !cfg.Storage.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("storage.backend %q is invalid; valid values: memory, file, postgres", cfg.Storage.Backend))
	}
	if cfg.Storage.Backend == StoragePostgres && cfg.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgres_dsn is required when storage.backend is postgres"))
	}
	if cfg.Storage.Backend == StorageMemory {
		slog.Warn("storage.backend is memory; profiles will not survive a restart")
	}

	// Analysis
	if cfg.Analysis.DefaultGemKeep < 0 {
		errs = append(errs, fmt.Errorf("analysis.default_gem_keep %d must not be negative", cfg.Analysis.DefaultGemKeep))
	}

	return errors.Join(errs...)
}

// validateBaseURL checks that raw parses as an absolute http(s) URL.
func validateBaseURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s %q is not a valid URL: %v", field, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q must use http or https", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s %q is missing a host", field, raw)
	}
	return nil
}

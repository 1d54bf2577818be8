package config

import "slices"

// ConfigDiff describes what changed between two configs.
// Hot-reloadable changes (log level, analysis defaults) are broken out so the
// server can apply them without a restart; everything else sets RestartNeeded.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// AnalysisChanged is true when any analysis default (character, export
	// dir, gem keep, ignored NPCs) changed. These apply to the next analysis
	// run without a restart.
	AnalysisChanged bool

	// RestartNeeded is true when server, catalog, or storage settings
	// changed. Those are wired at startup and cannot be swapped live.
	RestartNeeded bool
}

// HasChanges reports whether the diff contains any change at all.
func (d ConfigDiff) HasChanges() bool {
	return d.LogLevelChanged || d.AnalysisChanged || d.RestartNeeded
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Analysis.Character != new.Analysis.Character ||
		old.Analysis.ExportDir != new.Analysis.ExportDir ||
		old.Analysis.DefaultGemKeep != new.Analysis.DefaultGemKeep ||
		!slices.Equal(old.Analysis.IgnoredNPCs, new.Analysis.IgnoredNPCs) {
		d.AnalysisChanged = true
	}

	if serverChanged(old.Server, new.Server) ||
		catalogChanged(old.Catalog, new.Catalog) ||
		old.Storage != new.Storage {
		d.RestartNeeded = true
	}

	return d
}

// serverChanged ignores the log level, which is tracked separately.
func serverChanged(old, new ServerConfig) bool {
	if old.ListenAddr != new.ListenAddr {
		return true
	}
	if (old.TLS == nil) != (new.TLS == nil) {
		return true
	}
	if old.TLS != nil && *old.TLS != *new.TLS {
		return true
	}
	return false
}

func catalogChanged(old, new CatalogConfig) bool {
	return old.BaseURL != new.BaseURL ||
		old.Version != new.Version ||
		old.CacheDir != new.CacheDir ||
		old.MaxAgeHours != new.MaxAgeHours ||
		!slices.Equal(old.Mirrors, new.Mirrors)
}

// Command stashwise analyses a Project Gorgon inventory export and recommends
// what to do with every item: sell, keep, distill, gift, or save for later.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veyrane/stashwise/internal/api"
	"github.com/veyrane/stashwise/internal/cdn"
	"github.com/veyrane/stashwise/internal/config"
	"github.com/veyrane/stashwise/internal/engine"
	"github.com/veyrane/stashwise/internal/health"
	"github.com/veyrane/stashwise/internal/observe"
	"github.com/veyrane/stashwise/internal/plan"
	"github.com/veyrane/stashwise/internal/profile"
	"github.com/veyrane/stashwise/pkg/catalog"
	"github.com/veyrane/stashwise/pkg/loreexport"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "stashwise.yaml", "path to the YAML configuration file")
	characterFlag := flag.String("character", "", "character to analyse (overrides the config)")
	exportDirFlag := flag.String("export-dir", "", "directory scanned for Lore Exporter JSON files (overrides the config)")
	explain := flag.String("explain", "", "print the full reason chain for one item name and exit")
	serve := flag.Bool("serve", false, "serve the analysis over HTTP instead of writing plan files")
	outDir := flag.String("out", ".", "directory the plan files are written to")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("config file not found, using defaults", "path", *configPath)
			cfg = &config.Config{}
		} else {
			fmt.Fprintf(os.Stderr, "stashwise: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(context.Background(), observe.ProviderConfig{
		ServiceName: "stashwise",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(ctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	character := *characterFlag
	if character == "" {
		character = cfg.Analysis.Character
	}
	exportDir := *exportDirFlag
	if exportDir == "" {
		exportDir = cfg.Analysis.ExportDir
	}
	if exportDir == "" {
		exportDir = "."
	}

	slog.Info("stashwise starting",
		"config", *configPath,
		"character", valueOr(character, "(newest export)"),
		"export_dir", exportDir,
	)

	// ── Profile store ─────────────────────────────────────────────────────────
	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open profile store", "err", err)
		return 1
	}
	defer closeStore()

	// ── Analysis ──────────────────────────────────────────────────────────────
	snap, prof, err := analyze(ctx, cfg, store, metrics, character, exportDir)
	if err != nil {
		slog.Error("analysis failed", "err", err)
		return 1
	}

	printStartupSummary(cfg, snap)

	// ── Modes ─────────────────────────────────────────────────────────────────
	switch {
	case *explain != "":
		return explainItem(snap, *explain)
	case *serve:
		return serveHTTP(ctx, cfg, *configPath, store, metrics, snap)
	default:
		if err := writePlans(snap, *outDir); err != nil {
			slog.Error("failed to write plan files", "err", err)
			return 1
		}
		if err := store.Save(ctx, prof); err != nil {
			slog.Warn("failed to save profile", "character", prof.Character, "err", err)
		}
		return 0
	}
}

// buildStore opens the configured profile store. Postgres gets a live pool and
// a schema migration; everything else comes from the default registry.
func buildStore(ctx context.Context, cfg *config.Config) (profile.Store, func(), error) {
	if cfg.Storage.Backend == config.StoragePostgres {
		pool, err := pgxpool.New(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		store := profile.NewPostgresStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate profile schema: %w", err)
		}
		return store, pool.Close, nil
	}

	store, err := config.DefaultRegistry().CreateStore(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// analyze runs the full pipeline: fetch catalog, build indexes, load exports,
// load (or initialise) the character profile, and evaluate every item.
func analyze(ctx context.Context, cfg *config.Config, store profile.Store, metrics *observe.Metrics, character, exportDir string) (*api.Snapshot, *profile.Profile, error) {
	ctx, span := observe.StartSpan(ctx, "stashwise.analyze")
	defer span.End()

	// Catalog.
	client := newCDNClient(cfg, metrics)
	raw, err := client.FetchAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch catalog: %w", err)
	}

	buildStart := time.Now()
	tables, err := catalog.ParseTables(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}
	idx := catalog.BuildIndexes(tables)
	metrics.IndexBuildDuration.Record(ctx, time.Since(buildStart).Seconds())
	metrics.CatalogRecords.Add(ctx, int64(tableRecordCount(tables)))
	slog.Info("catalog ready",
		"version", client.Version(),
		"items", len(idx.ItemsByID),
		"npcs", len(idx.NPCs),
		"skipped", len(tables.Skipped),
	)

	// Exports.
	scan, err := loreexport.ScanDir(exportDir, character)
	if err != nil {
		return nil, nil, err
	}
	if scan.Inventory == nil {
		return nil, nil, fmt.Errorf("no inventory export found in %q", exportDir)
	}
	if scan.Character == nil {
		return nil, nil, fmt.Errorf("no character export found in %q", exportDir)
	}
	metrics.RecordImport(ctx, string(loreexport.KindInventory), "ok")
	metrics.RecordImport(ctx, string(loreexport.KindCharacter), "ok")
	slog.Info("exports loaded",
		"character", scan.Character.Character,
		"inventory", scan.InventoryPath,
		"items", len(scan.Inventory.Items),
	)

	// Profile.
	prof, err := store.Get(ctx, scan.Character.Character)
	if errors.Is(err, profile.ErrNotFound) {
		prof = &profile.Profile{
			Character:      scan.Character.Character,
			DefaultGemKeep: cfg.Analysis.DefaultGemKeep,
			IgnoredNPCs:    cfg.Analysis.IgnoredNPCs,
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	if prof.Build == nil {
		prof.Build = engine.DetectBuild(scan.Character, idx)
		slog.Info("combat build detected",
			"primary", strings.Join(prof.Build.PrimarySkills, ", "),
			"support", strings.Join(prof.Build.SupportSkills, ", "),
		)
	}

	// Engine.
	in := engine.Inputs{Character: scan.Character, Indexes: idx}
	prof.EngineInputs(&in)

	analysisStart := time.Now()
	items := engine.New(in).RecommendAll(scan.Inventory.Items)
	metrics.AnalysisDuration.Record(ctx, time.Since(analysisStart).Seconds())
	for _, it := range items {
		metrics.RecordRecommendation(ctx, string(it.Recommendation.Action), it.Recommendation.Uncertain)
	}

	return &api.Snapshot{
		Character:   scan.Character.Character,
		Indexes:     idx,
		Items:       items,
		GeneratedAt: time.Now(),
	}, prof, nil
}

// newCDNClient wires cache, mirrors, and metrics from the config.
func newCDNClient(cfg *config.Config, metrics *observe.Metrics) *cdn.Client {
	opts := []cdn.Option{cdn.WithMetrics(metrics)}
	if cfg.Catalog.CacheDir != "" {
		cache, err := cdn.NewCache(cfg.Catalog.CacheDir)
		if err != nil {
			slog.Warn("cannot open catalog cache, continuing without one", "err", err)
		} else {
			opts = append(opts, cdn.WithCache(cache))
		}
	}
	if cfg.Catalog.MaxAgeHours > 0 {
		opts = append(opts, cdn.WithMaxAge(time.Duration(cfg.Catalog.MaxAgeHours)*time.Hour))
	}
	if len(cfg.Catalog.Mirrors) > 0 {
		opts = append(opts, cdn.WithMirrors(cfg.Catalog.Mirrors...))
	}
	return cdn.New(cfg.Catalog.BaseURL, cfg.Catalog.Version, opts...)
}

func tableRecordCount(t *catalog.Tables) int {
	return len(t.Items) + len(t.Recipes) + len(t.Quests) + len(t.Skills) +
		len(t.NPCs) + len(t.Sources) + len(t.Vaults) + len(t.Powers) + len(t.Abilities)
}

// writePlans writes the text and CSV action plans into dir.
func writePlans(snap *api.Snapshot, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	txtPath := filepath.Join(dir, "action-plan.txt")
	if err := os.WriteFile(txtPath, []byte(plan.Text(snap.Items, snap.Character, snap.GeneratedAt)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", txtPath, err)
	}

	out, err := plan.CSV(snap.Items)
	if err != nil {
		return err
	}
	csvPath := filepath.Join(dir, "action-plan.csv")
	if err := os.WriteFile(csvPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	slog.Info("plan files written",
		"text", txtPath,
		"csv", csvPath,
		"items", len(snap.Items),
		"recoverable_gold", plan.FormatGold(plan.RecoverableGold(snap.Items)),
	)
	return nil
}

// explainItem prints the full reason chain for every inventory stack matching
// name.
func explainItem(snap *api.Snapshot, name string) int {
	var matches []engine.Analyzed
	for _, it := range snap.Items {
		if strings.EqualFold(it.Name, name) {
			matches = append(matches, it)
		}
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "stashwise: no inventory item named %q\n", name)
		if suggestion, ok := snap.Indexes.SuggestItemName(name); ok {
			fmt.Fprintf(os.Stderr, "stashwise: did you mean %q?\n", suggestion)
		}
		return 1
	}

	for _, it := range matches {
		rec := it.Recommendation
		fmt.Printf("%s x%d [%s]\n", it.Name, it.StackSize, snap.Indexes.VaultDisplayName(it.StorageVault))
		fmt.Printf("  Action: %s", rec.Action.Label())
		if rec.KeepQuantity != nil {
			fmt.Printf(" (keep %d)", *rec.KeepQuantity)
		}
		if rec.Uncertain {
			fmt.Print(" [uncertain]")
		}
		fmt.Println()
		if rec.GearScore != nil {
			fmt.Printf("  Gear score: %d/100\n", *rec.GearScore)
		}
		fmt.Printf("  Category: %s\n", rec.Category)
		for _, r := range rec.Reasons {
			fmt.Printf("  - [%s/%s] %s\n", r.Kind, r.Confidence, r.Text)
			if r.Detail != "" {
				fmt.Printf("      %s\n", r.Detail)
			}
		}
		fmt.Println()
	}
	return 0
}

// serveHTTP runs the API server until the signal context is cancelled. The
// config file is watched so log-level changes apply without a restart.
func serveHTTP(ctx context.Context, cfg *config.Config, configPath string, store profile.Store, metrics *observe.Metrics, snap *api.Snapshot) int {
	state := api.NewState()
	state.Publish(snap)

	watcher, err := config.NewWatcher(configPath, func(old, new *config.Config) {
		d := config.Diff(old, new)
		if d.LogLevelChanged {
			logLevel.Set(slogLevel(d.NewLogLevel))
			slog.Info("log level changed", "level", d.NewLogLevel)
		}
		if d.AnalysisChanged {
			slog.Info("analysis defaults changed, applies to the next run")
		}
		if d.RestartNeeded {
			slog.Warn("server, catalog, or storage config changed; restart to apply")
		}
	})
	if err != nil {
		slog.Warn("config watcher disabled", "err", err)
	} else {
		defer watcher.Stop()
	}

	catalogMaxAge := 7 * 24 * time.Hour
	if cfg.Catalog.MaxAgeHours > 0 {
		catalogMaxAge = time.Duration(cfg.Catalog.MaxAgeHours) * time.Hour
	}
	server := api.New(state, metrics,
		health.CatalogFresh(catalogMaxAge, func() (time.Time, bool) {
			cur := state.Current()
			if cur == nil {
				return time.Time{}, false
			}
			return cur.GeneratedAt, true
		}),
		health.StorePing(store.List),
	)

	addr := cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		var err error
		if cfg.Server.TLS != nil {
			err = httpServer.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("http server error", "err", err)
		return 1
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, stopping…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, snap *api.Snapshot) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        Stashwise — analysis run       ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Character", snap.Character)
	printRow("Items", fmt.Sprintf("%d", len(snap.Items)))
	printRow("Catalog ver", valueOr(cfg.Catalog.Version, cdn.DefaultVersion))
	printRow("Storage", string(backendOr(cfg.Storage.Backend)))
	if cfg.Server.ListenAddr != "" {
		printRow("Listen addr", cfg.Server.ListenAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", label, value)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func backendOr(b config.StorageBackend) config.StorageBackend {
	if b == "" {
		return config.StorageFile
	}
	return b
}

// ── Logger ─────────────────────────────────────────────────────────────────────

// logLevel is shared with the config watcher so hot reloads can adjust
// verbosity without rebuilding the handler.
var logLevel = new(slog.LevelVar)

func newLogger(level config.LogLevel) *slog.Logger {
	logLevel.Set(slogLevel(level))
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labyrinth/server/internal/config"
	"github.com/labyrinth/server/internal/data"
	"github.com/labyrinth/server/internal/engine"
	"github.com/labyrinth/server/internal/host"
	"github.com/labyrinth/server/internal/persist"
	"github.com/labyrinth/server/internal/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m         Labyrinth of Souls  v0.1.0        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        menu-driven dungeon server         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config.toml"
	if p := os.Getenv("LABYRINTH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Open storage
	printSection("Storage")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer store.Close()
	printOK(fmt.Sprintf("%s storage ready", cfg.Storage.Driver))
	fmt.Println()

	// 4. Load game data
	printSection("Game data")

	tables, err := data.LoadTables(cfg.Game.DataDir, log)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("Monsters", tables.Monsters.Count())
	printStat("Weapons", tables.Weapons.Count())
	printStat("Armors", tables.Armors.Count())
	printStat("Potions", tables.Potions.Count())
	printStat("Spells", tables.Spells.Count())
	printStat("Traps", tables.Traps.Count())

	scripts, err := scripting.NewEngine(cfg.Game.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	defer scripts.Close()
	printOK("Lua formula overrides loaded")
	fmt.Println()

	// 5. Reviews (optional)
	reviews := persist.NewReviewSubmitter(cfg.Reviews, log)
	if reviews.Configured() {
		printOK("review submitter configured")
	}

	// 6. Start the TCP host
	registry := host.NewRegistry(func(deviceID string) *engine.Game {
		return engine.New(deviceID, tables, scripts, store, reviews, log)
	})
	server, err := host.NewServer(cfg.Network, registry, log)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go server.AcceptLoop()

	printSection("Server ready")
	printReady(fmt.Sprintf("listening on %s", server.Addr().String()))
	fmt.Println()

	// 7. Wait for shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))
	server.Shutdown()
	log.Info("server stopped")
	return nil
}

// openStore picks the storage backend by driver name. Postgres runs its
// migrations on boot; sqlite creates its schema when it opens the file.
func openStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (persist.Store, error) {
	switch cfg.Driver {
	case "postgres":
		return persist.OpenPostgres(ctx, cfg, log)
	case "sqlite":
		return persist.NewSqliteStore(ctx, cfg.Path)
	case "memory":
		return persist.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

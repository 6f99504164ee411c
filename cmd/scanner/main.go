package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/baserate/config"
	"github.com/alejandrodnm/baserate/internal/adapters/kalshi"
	"github.com/alejandrodnm/baserate/internal/adapters/notify"
	"github.com/alejandrodnm/baserate/internal/adapters/polymarket"
	"github.com/alejandrodnm/baserate/internal/adapters/storage"
	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/alejandrodnm/baserate/internal/ports"
	"github.com/alejandrodnm/baserate/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	fetch := flag.Bool("fetch", false, "refresh markets from the platform APIs before scanning")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table + portfolio (default: compact 1-line)")
	jsonOut := flag.Bool("json", false, "emit scan results as JSON (overrides -table)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("baserate starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"once", *once,
		"fetch", *fetch,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kalshiClient := kalshi.NewClient(cfg.API.KalshiBase)
	if *fetch {
		fetchers := []ports.MarketFetcher{
			kalshiClient,
			polymarket.NewClient(cfg.API.GammaBase),
		}
		if err := refreshMarkets(ctx, fetchers, store); err != nil {
			slog.Error("market refresh failed", "err", err)
			os.Exit(1)
		}
	}

	notifier := notify.NewConsole(*table, *jsonOut)
	analyzer := scanner.NewAnalyzer(store, kalshiClient)

	scanCfg := scanner.DefaultConfig()
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.MinQuantity = cfg.Scanner.MinQuantity
	scanCfg.DryRun = *once
	scanCfg.Criteria = scanner.Criteria{
		MinEdge:     cfg.Scanner.MinEdge,
		MinEV:       cfg.Scanner.MinEV,
		MinQuantity: cfg.Scanner.MinQuantity,
		MinKelly:    cfg.Scanner.MinKelly,
		MaxKelly:    cfg.Scanner.MaxKelly,
		Platforms:   parsePlatforms(cfg.Scanner.Platforms),
	}
	scanCfg.Portfolio = scanner.PortfolioConfig{
		Bankroll:       cfg.Portfolio.Bankroll,
		MaxPositionPct: cfg.Portfolio.MaxPositionPct,
		KellyFraction:  cfg.Portfolio.KellyFraction,
	}

	s := scanner.New(scanCfg, analyzer, store, notifier)

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("baserate stopped cleanly")
}

// refreshMarkets descarga los mercados de cada plataforma y los persiste.
// Los base rates ya asignados sobreviven al refresh.
func refreshMarkets(ctx context.Context, fetchers []ports.MarketFetcher, store ports.Storage) error {
	for _, f := range fetchers {
		markets, err := f.FetchMarkets(ctx)
		if err != nil {
			return err
		}
		saved := 0
		for _, m := range markets {
			if err := store.SaveMarket(ctx, m); err != nil {
				slog.Warn("failed to save market", "id", m.ID, "err", err)
				continue
			}
			saved++
		}
		slog.Info("markets refreshed", "fetched", len(markets), "saved", saved)
	}
	return nil
}

func parsePlatforms(tags []string) []domain.Platform {
	platforms := make([]domain.Platform, 0, len(tags))
	for _, tag := range tags {
		platforms = append(platforms, domain.ParsePlatform(tag))
	}
	return platforms
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

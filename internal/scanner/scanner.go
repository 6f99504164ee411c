package scanner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/alejandrodnm/baserate/internal/ports"
	"github.com/google/uuid"
)

// PortfolioConfig controla el sizing de posiciones.
type PortfolioConfig struct {
	// Bankroll es el capital total asignable en USD.
	Bankroll float64
	// MaxPositionPct es el techo por posición como fracción del bankroll.
	MaxPositionPct float64
	// KellyFraction es el multiplicador de seguridad global (0.5 = half Kelly).
	KellyFraction float64
}

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Criteria     Criteria
	MinQuantity  float64
	Portfolio    PortfolioConfig
	DryRun       bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		ScanInterval: 5 * time.Minute,
		Criteria:     DefaultCriteria(),
		MinQuantity:  0,
		Portfolio: PortfolioConfig{
			Bankroll:       1000,
			MaxPositionPct: 0.10,
			KellyFraction:  0.5,
		},
	}
}

// Scanner es el orquestador del loop de escaneo:
// fetch → analyze → filter → rank → portfolio → notify → persist.
type Scanner struct {
	cfg      Config
	analyzer *Analyzer
	storage  ports.Storage
	notifier ports.Notifier
}

// New crea un Scanner con todas las dependencias inyectadas.
// storage puede ser nil (modo dry run sin persistencia de histórico).
func New(cfg Config, analyzer *Analyzer, storage ports.Storage, notifier ports.Notifier) *Scanner {
	return &Scanner{
		cfg:      cfg,
		analyzer: analyzer,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Si cfg.DryRun está activo, solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"dry_run", s.cfg.DryRun,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.DryRun {
			return err
		}
	}

	if s.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve las oportunidades rankeadas.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Opportunity, error) {
	return s.cycle(ctx)
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	opps, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	positions := domain.PortfolioKelly(opps,
		s.cfg.Portfolio.Bankroll,
		s.cfg.Portfolio.MaxPositionPct,
		s.cfg.Portfolio.KellyFraction,
	)

	if err := s.notifier.Notify(ctx, opps, positions); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		scanID := uuid.NewString()
		if err := s.storage.SaveScan(ctx, scanID, opps); err != nil {
			slog.Warn("storage error", "err", err, "scan_id", scanID)
		}
	}

	stats := Summarize(opps)
	slog.Info("scan cycle complete",
		"opportunities", stats.Count,
		"avg_edge", stats.AvgEdge,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle hace el pase de análisis y devuelve las oportunidades por edge desc.
func (s *Scanner) cycle(ctx context.Context) ([]domain.Opportunity, error) {
	opps, err := s.analyzer.FindOpportunities(ctx, s.cfg.Criteria, s.cfg.MinQuantity)
	if err != nil {
		return nil, err
	}
	return rankByEdge(opps), nil
}

// rankByEdge ordena las oportunidades por edge descendente.
func rankByEdge(opps []domain.Opportunity) []domain.Opportunity {
	sort.Slice(opps, func(i, j int) bool {
		return opps[i].Edge > opps[j].Edge
	})
	return opps
}

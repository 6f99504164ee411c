package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out      io.Writer
	table    bool
	jsonMode bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table, jsonMode bool) *Console {
	return &Console{out: os.Stdout, table: table, jsonMode: jsonMode}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table, jsonMode bool) *Console {
	return &Console{out: w, table: table, jsonMode: jsonMode}
}

// Notify imprime las oportunidades y la asignación de cartera en el modo
// configurado. Con jsonMode emite una línea JSON por scan, apta para pipes.
func (c *Console) Notify(_ context.Context, opportunities []domain.Opportunity, positions map[string]domain.Position) error {
	if c.jsonMode {
		return c.printJSON(opportunities, positions)
	}

	if len(opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(opportunities, positions)
	} else {
		c.printCompact(opportunities)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(opps []domain.Opportunity) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d opps", now, len(opps))

	shown := 0
	for _, opp := range opps {
		if shown >= 4 {
			break
		}
		name := truncate(opp.Market.Title, 25)
		fmt.Fprintf(&sb, " | %s %s edge%+.1f%% kelly%.2f",
			name, opp.Side, opp.Edge*100, opp.KellyFraction)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de oportunidades y el resumen de cartera.
func (c *Console) printFull(opps []domain.Opportunity, positions map[string]domain.Position) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] %d opportunities\n", now, len(opps))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Platform", "Market", "Side", "Fair%", "Mkt%", "Edge%", "EV", "Kelly", "Price", "Qty")

	for i, opp := range opps {
		r := opp.Report()

		qtyLabel := "∞"
		if !math.IsInf(opp.AvailableQuantity, 1) {
			qtyLabel = fmt.Sprintf("%.0f", opp.AvailableQuantity)
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Platform,
			truncate(r.Title, 40),
			r.Side,
			fmt.Sprintf("%.1f", r.FairProbability),
			fmt.Sprintf("%.1f", r.MarketProbability),
			fmt.Sprintf("%+.1f", r.Edge),
			fmt.Sprintf("%.2f", r.ExpectedValue),
			fmt.Sprintf("%.3f", r.KellyFraction),
			fmt.Sprintf("%.0f¢", r.RecommendedPrice),
			qtyLabel,
		)
	}

	table.Render()
	fmt.Fprintln(c.out, "  Fair% = probabilidad del base rate al horizonte | Edge% = fair - market")
	fmt.Fprintln(c.out, "  Kelly = fracción óptima de bankroll (sin recortar) | Qty = liquidez al precio")

	c.printPortfolio(opps, positions)
}

// printPortfolio imprime la asignación sugerida, si la hay.
func (c *Console) printPortfolio(opps []domain.Opportunity, positions map[string]domain.Position) {
	var total float64
	count := 0
	for _, pos := range positions {
		if pos.Contracts > 0 {
			total += pos.TotalCost
			count++
		}
	}
	if count == 0 {
		fmt.Fprintf(c.out, "\n  Sin posiciones sugeridas con el bankroll actual\n\n")
		return
	}

	fmt.Fprintf(c.out, "\n=== PORTFOLIO (%d posiciones, $%.2f total) ===\n", count, total)
	for _, opp := range opps {
		pos, ok := positions[opp.Market.ID]
		if !ok || pos.Contracts == 0 {
			continue
		}
		fmt.Fprintf(c.out, "  %-40s %s ×%d @ $%.2f = $%.2f (%.1f%% bankroll)\n",
			truncate(opp.Market.Title, 40), pos.Side, pos.Contracts,
			pos.CostPerContract, pos.TotalCost, pos.KellyPct)
	}
	fmt.Fprintln(c.out)
}

// scanPayload es la forma JSON de un scan completo.
type scanPayload struct {
	ScannedAt     time.Time                  `json:"scanned_at"`
	Opportunities []domain.Report            `json:"opportunities"`
	Positions     map[string]domain.Position `json:"positions,omitempty"`
}

func (c *Console) printJSON(opps []domain.Opportunity, positions map[string]domain.Position) error {
	reports := make([]domain.Report, 0, len(opps))
	for _, opp := range opps {
		reports = append(reports, opp.Report())
	}

	payload := scanPayload{
		ScannedAt:     time.Now().UTC(),
		Opportunities: reports,
		Positions:     positions,
	}
	if err := json.NewEncoder(c.out).Encode(payload); err != nil {
		return fmt.Errorf("notify.printJSON: %w", err)
	}
	return nil
}

// truncate recorta por runas, no por bytes: los títulos de Polymarket
// traen multibyte con frecuencia.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

package storage

// sqlite.go — persistencia de mercados, base rates e histórico de scans.
//
// Estrategia:
//   - `markets`: UNA fila por mercado (UPSERT). El base rate vive en columnas
//     nullable de la misma fila; un upsert de mercado NO pisa un base rate
//     ya asignado si el mercado entrante no trae uno.
//   - `opportunities`: histórico append-only, una fila por oportunidad por
//     scan. Se consulta por rango de fechas para análisis posterior.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por mercado, con su base rate opcional
CREATE TABLE IF NOT EXISTS markets (
    id                  TEXT PRIMARY KEY,
    platform            TEXT NOT NULL,
    title               TEXT,
    description         TEXT,
    resolution_criteria TEXT,
    resolution_date     DATETIME,
    yes_price           REAL NOT NULL DEFAULT 0,
    no_price            REAL NOT NULL DEFAULT 0,
    volume              REAL NOT NULL DEFAULT 0,
    url                 TEXT,
    rate                REAL,
    rate_unit           TEXT,
    events_per_year     REAL,
    reasoning           TEXT,
    sources             TEXT,
    updated_at          DATETIME NOT NULL
);

-- Histórico append-only de oportunidades detectadas
CREATE TABLE IF NOT EXISTS opportunities (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id    TEXT     NOT NULL,
    scanned_at DATETIME NOT NULL,
    market_id  TEXT     NOT NULL,
    platform   TEXT     NOT NULL,
    title      TEXT,
    side       TEXT     NOT NULL,
    fair_prob  REAL     NOT NULL DEFAULT 0,
    mkt_prob   REAL     NOT NULL DEFAULT 0,
    edge       REAL     NOT NULL DEFAULT 0,
    ev         REAL     NOT NULL DEFAULT 0,
    kelly      REAL     NOT NULL DEFAULT 0,
    price      REAL     NOT NULL DEFAULT 0,
    quantity   REAL,
    url        TEXT
);

CREATE INDEX IF NOT EXISTS idx_markets_platform ON markets(platform);
CREATE INDEX IF NOT EXISTS idx_opp_scanned      ON opportunities(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_scan_id      ON opportunities(scan_id);
`

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica
// el schema. `:memory:` funciona para tests.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveMarket inserta o actualiza un mercado. Si el mercado trae base rate lo
// escribe; si no, el base rate ya persistido se conserva intacto.
func (s *SQLiteStorage) SaveMarket(ctx context.Context, m domain.Market) error {
	if m.ID == "" {
		return fmt.Errorf("storage.SaveMarket: mercado sin ID")
	}

	var resolutionDate *time.Time
	if !m.ResolutionDate.IsZero() {
		t := m.ResolutionDate.UTC()
		resolutionDate = &t
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO markets
			(id, platform, title, description, resolution_criteria,
			 resolution_date, yes_price, no_price, volume, url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			platform            = excluded.platform,
			title               = excluded.title,
			description         = excluded.description,
			resolution_criteria = excluded.resolution_criteria,
			resolution_date     = excluded.resolution_date,
			yes_price           = excluded.yes_price,
			no_price            = excluded.no_price,
			volume              = excluded.volume,
			url                 = excluded.url,
			updated_at          = excluded.updated_at
	`,
		m.ID, m.Platform.String(), m.Title, m.Description, m.ResolutionCriteria,
		resolutionDate, m.YesPrice, m.NoPrice, m.Volume, m.URL, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.SaveMarket: upsert %s: %w", m.ID, err)
	}

	if m.BaseRate != nil {
		return s.SaveBaseRate(ctx, m.ID, *m.BaseRate)
	}
	return nil
}

// SaveBaseRate adjunta un base rate a un mercado ya persistido.
func (s *SQLiteStorage) SaveBaseRate(ctx context.Context, marketID string, rate domain.BaseRate) error {
	sources, err := json.Marshal(rate.Sources)
	if err != nil {
		return fmt.Errorf("storage.SaveBaseRate: marshal sources: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE markets SET
			rate = ?, rate_unit = ?, events_per_year = ?, reasoning = ?,
			sources = ?, updated_at = ?
		WHERE id = ?
	`,
		rate.Rate, rate.Unit.String(), rate.EventsPerYear, rate.Reasoning,
		string(sources), time.Now().UTC(), marketID,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveBaseRate: update %s: %w", marketID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage.SaveBaseRate: mercado %s no existe", marketID)
	}
	return nil
}

// GetMarket devuelve un mercado por ID. ok=false si no existe.
func (s *SQLiteStorage) GetMarket(ctx context.Context, id string) (domain.Market, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, platform, title, description, resolution_criteria,
		       resolution_date, yes_price, no_price, volume, url,
		       rate, rate_unit, events_per_year, reasoning, sources
		FROM markets WHERE id = ?
	`, id)

	m, err := scanMarket(row)
	if err == sql.ErrNoRows {
		return domain.Market{}, false, nil
	}
	if err != nil {
		return domain.Market{}, false, fmt.Errorf("storage.GetMarket: %w", err)
	}
	return m, true, nil
}

// GetMarkets devuelve todos los mercados persistidos, con sus base rates.
func (s *SQLiteStorage) GetMarkets(ctx context.Context) ([]domain.Market, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, platform, title, description, resolution_criteria,
		       resolution_date, yes_price, no_price, volume, url,
		       rate, rate_unit, events_per_year, reasoning, sources
		FROM markets ORDER BY platform, id
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetMarkets: query: %w", err)
	}
	defer rows.Close()

	var markets []domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.GetMarkets: %w", err)
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// SaveScan persiste las oportunidades de un ciclo bajo un scan ID.
func (s *SQLiteStorage) SaveScan(ctx context.Context, scanID string, opportunities []domain.Opportunity) error {
	if len(opportunities) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunities
			(scan_id, scanned_at, market_id, platform, title, side,
			 fair_prob, mkt_prob, edge, ev, kelly, price, quantity, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, opp := range opportunities {
		// Se persiste la forma externa: probabilidades y edge en porcentaje,
		// liquidez desconocida (+Inf) como NULL.
		r := opp.Report()
		if _, err := stmt.ExecContext(ctx,
			scanID, now,
			r.MarketID, r.Platform, r.Title, r.Side,
			r.FairProbability, r.MarketProbability, r.Edge,
			r.ExpectedValue, r.KellyFraction, r.RecommendedPrice,
			r.AvailableQuantity, r.URL,
		); err != nil {
			return fmt.Errorf("storage.SaveScan: insert %s: %w", r.MarketID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return nil
}

// GetHistory devuelve las oportunidades registradas en el rango dado,
// en forma externa (Report), ordenadas por edge desc.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_id, platform, title, side, fair_prob, mkt_prob,
		       edge, ev, kelly, price, quantity, url
		FROM opportunities
		WHERE scanned_at >= ? AND scanned_at <= ?
		ORDER BY edge DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		var quantity sql.NullFloat64
		if err := rows.Scan(
			&r.MarketID, &r.Platform, &r.Title, &r.Side,
			&r.FairProbability, &r.MarketProbability,
			&r.Edge, &r.ExpectedValue, &r.KellyFraction,
			&r.RecommendedPrice, &quantity, &r.URL,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan: %w", err)
		}
		if quantity.Valid {
			r.AvailableQuantity = &quantity.Float64
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Close cierra la conexión.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// rowScanner cubre *sql.Row y *sql.Rows para compartir scanMarket.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarket(row rowScanner) (domain.Market, error) {
	var m domain.Market
	var platform string
	var title, description, criteria, url sql.NullString
	var resolutionDate sql.NullTime
	var rate, eventsPerYear sql.NullFloat64
	var rateUnit, reasoning, sources sql.NullString

	if err := row.Scan(
		&m.ID, &platform, &title, &description, &criteria,
		&resolutionDate, &m.YesPrice, &m.NoPrice, &m.Volume, &url,
		&rate, &rateUnit, &eventsPerYear, &reasoning, &sources,
	); err != nil {
		return domain.Market{}, err
	}

	m.Platform = domain.ParsePlatform(platform)
	m.Title = title.String
	m.Description = description.String
	m.ResolutionCriteria = criteria.String
	m.URL = url.String
	if resolutionDate.Valid {
		m.ResolutionDate = resolutionDate.Time.UTC()
	}

	if rate.Valid {
		br := domain.BaseRate{
			Rate:          rate.Float64,
			Unit:          domain.ParseRateUnit(rateUnit.String),
			EventsPerYear: eventsPerYear.Float64,
			Reasoning:     reasoning.String,
		}
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &br.Sources); err != nil {
				return domain.Market{}, fmt.Errorf("unmarshal sources de %s: %w", m.ID, err)
			}
		}
		m.BaseRate = &br
	}
	return m, nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del analizador.
type Config struct {
	Scanner   ScannerConfig   `yaml:"scanner"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// ScannerConfig controla el ciclo de análisis y los criterios de filtrado.
type ScannerConfig struct {
	IntervalSeconds int      `yaml:"interval_seconds"`
	MinEdge         float64  `yaml:"min_edge"`     // fracción: 0.05 = 5 puntos
	MinEV           float64  `yaml:"min_ev"`       // ratio: 1.10 = +10% por $ arriesgado
	MinQuantity     float64  `yaml:"min_quantity"` // 0 desactiva el suelo
	MinKelly        float64  `yaml:"min_kelly"`
	MaxKelly        float64  `yaml:"max_kelly"` // 0 desactiva el techo
	Platforms       []string `yaml:"platforms"` // vacío = todas
}

// PortfolioConfig controla el sizing Kelly de las posiciones.
type PortfolioConfig struct {
	Bankroll       float64 `yaml:"bankroll"`
	MaxPositionPct float64 `yaml:"max_position_pct"` // fracción: 0.10 = 10% del bankroll
	KellyFraction  float64 `yaml:"kelly_fraction"`   // 0.5 = half Kelly
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	KalshiBase string `yaml:"kalshi_base"`
	GammaBase  string `yaml:"gamma_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BASERATE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 300
	}
	if cfg.Scanner.MinEdge <= 0 {
		cfg.Scanner.MinEdge = 0.05
	}
	if cfg.Scanner.MinEV <= 0 {
		cfg.Scanner.MinEV = 1.10
	}
	if cfg.Portfolio.Bankroll <= 0 {
		cfg.Portfolio.Bankroll = 1000
	}
	if cfg.Portfolio.MaxPositionPct <= 0 {
		cfg.Portfolio.MaxPositionPct = 0.10
	}
	if cfg.Portfolio.KellyFraction <= 0 {
		cfg.Portfolio.KellyFraction = 0.5
	}
	if cfg.API.KalshiBase == "" {
		cfg.API.KalshiBase = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "baserate.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

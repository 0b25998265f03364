package ops

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"rollpanel/internal/panel"
	"rollpanel/internal/sim"
	"rollpanel/internal/source"
	"rollpanel/pkg/conn"
)

const (
	ModeRegular   = "regular"
	ModeIrregular = "irregular"

	defaultWindow   = 24
	defaultField    = "price"
	defaultAccuracy = 0.01
)

var defaultQuantiles = []float64{0.5, 0.9, 0.99}

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Panel    PanelConfig    `json:"panel"`
	Postgres PostgresConfig `json:"postgres"`
	Source   SourceConfig   `json:"source"`
	Sim      SimConfig      `json:"sim"`
	Stats    StatsConfig    `json:"stats"`
}

// PanelConfig sizes the rolling buffer and seeds its axes.
type PanelConfig struct {
	Window      int      `json:"window"`
	CapMultiple int      `json:"capMultiple"`
	Fill        string   `json:"fill"`
	MaxCells    int      `json:"maxCells"`
	Items       []string `json:"items"`
	Columns     []string `json:"columns"`
}

// PostgresConfig describes the trade database.
type PostgresConfig struct {
	Host       string            `json:"host"`
	Port       int               `json:"port"`
	User       string            `json:"user"`
	Password   string            `json:"password"`
	Database   string            `json:"database"`
	SSLMode    string            `json:"sslMode"`
	Params     map[string]string `json:"params"`
	ConnString string            `json:"connString"`
	TradeTable string            `json:"tradeTable"`
}

// SourceConfig selects where trades come from and how they become bars.
// File takes precedence over Synthetic, which takes precedence over the
// database.
type SourceConfig struct {
	File        string           `json:"file"`
	Synthetic   *SyntheticConfig `json:"synthetic"`
	Underlyings []string         `json:"underlyings"`
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Step        string           `json:"step"`
	Mode        string           `json:"mode"`
}

// SyntheticConfig describes generated trades, one every Every from the
// source start.
type SyntheticConfig struct {
	Contracts []string `json:"contracts"`
	Count     int      `json:"count"`
	Every     string   `json:"every"`
	BasePrice float64  `json:"basePrice"`
	BaseSize  int64    `json:"baseSize"`
	TickSize  float64  `json:"tickSize"`
}

// SimConfig describes the account and the strategy that trades it.
type SimConfig struct {
	sim.Config
	Strategy StrategyConfig `json:"strategy"`
}

// StrategyConfig names one of the built-in strategies.
type StrategyConfig struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Amount int64  `json:"amount"`
}

// StatsConfig controls the window summaries logged during replay.
type StatsConfig struct {
	Field     string    `json:"field"`
	Quantiles []float64 `json:"quantiles"`
	Accuracy  float64   `json:"accuracy"`
	Every     int       `json:"every"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Panel    panel.Config
	Items    []string
	Columns  []string
	Postgres *conn.Option
	Source   SourceSpec
	Sim      sim.Config
	Strategy StrategyConfig
	Stats    StatsConfig
}

// SourceSpec is the resolved trade source.
type SourceSpec struct {
	File        string
	Synthetic   *SyntheticSpec
	Underlyings []string
	Interval    source.Interval
	Mode        string
}

// SyntheticSpec is the resolved generator setup.
type SyntheticSpec struct {
	Contracts []string
	Count     int
	Every     time.Duration
	BasePrice float64
	BaseSize  int64
	TickSize  float64
}

// Load reads a JSON config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	return Parse(data)
}

// Parse resolves a JSON config document.
func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}

	panelCfg, err := resolvePanel(cfg.Panel)
	if err != nil {
		return Loaded{}, err
	}
	src, err := resolveSource(cfg.Source)
	if err != nil {
		return Loaded{}, err
	}
	if cfg.Sim.Strategy.Name != "" {
		if err := cfg.Sim.Config.Validate(); err != nil {
			return Loaded{}, fmt.Errorf("invalid sim config: %w", err)
		}
		if _, err := sim.StrategyByName(cfg.Sim.Strategy.Name, cfg.Sim.Strategy.Symbol, cfg.Sim.Strategy.Amount); err != nil {
			return Loaded{}, fmt.Errorf("invalid strategy config: %w", err)
		}
	}
	stats, err := resolveStats(cfg.Stats)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{
		Panel:    panelCfg,
		Items:    cfg.Panel.Items,
		Columns:  cfg.Panel.Columns,
		Source:   src,
		Sim:      cfg.Sim.Config,
		Strategy: cfg.Sim.Strategy,
		Stats:    stats,
	}
	if src.File == "" && src.Synthetic == nil {
		loaded.Postgres = &conn.Option{
			Host:       cfg.Postgres.Host,
			Port:       cfg.Postgres.Port,
			User:       cfg.Postgres.User,
			Password:   cfg.Postgres.Password,
			Database:   cfg.Postgres.Database,
			SSLMode:    cfg.Postgres.SSLMode,
			Params:     cfg.Postgres.Params,
			ConnString: cfg.Postgres.ConnString,
			TradeTable: cfg.Postgres.TradeTable,
		}
	}
	return loaded, nil
}

// SimEnabled reports whether a strategy should be replayed.
func (l Loaded) SimEnabled() bool {
	return l.Strategy.Name != ""
}

func resolvePanel(cfg PanelConfig) (panel.Config, error) {
	if cfg.Window == 0 {
		cfg.Window = defaultWindow
	}
	fill, err := panel.ParseFillPolicy(cfg.Fill)
	if err != nil {
		return panel.Config{}, err
	}
	out := panel.DefaultConfig(cfg.Window)
	out.Fill = fill
	if cfg.CapMultiple != 0 {
		out.CapMultiple = cfg.CapMultiple
	}
	if cfg.MaxCells != 0 {
		out.MaxCells = cfg.MaxCells
	}
	if err := out.Validate(); err != nil {
		return panel.Config{}, err
	}
	return out, nil
}

func resolveSource(cfg SourceConfig) (SourceSpec, error) {
	spec := SourceSpec{
		File: strings.TrimSpace(cfg.File),
		Mode: cfg.Mode,
	}
	if spec.Mode == "" {
		spec.Mode = ModeRegular
	}
	if spec.Mode != ModeRegular && spec.Mode != ModeIrregular {
		return SourceSpec{}, fmt.Errorf("source mode is unknown: %s", cfg.Mode)
	}

	for _, u := range cfg.Underlyings {
		if u = strings.TrimSpace(u); u != "" {
			spec.Underlyings = append(spec.Underlyings, u)
		}
	}
	if cfg.Synthetic != nil && spec.File == "" {
		synthetic, err := resolveSynthetic(*cfg.Synthetic)
		if err != nil {
			return SourceSpec{}, err
		}
		spec.Synthetic = &synthetic
	}
	if spec.File == "" && spec.Synthetic == nil && len(spec.Underlyings) == 0 {
		return SourceSpec{}, fmt.Errorf("source needs a file, a synthetic feed or at least one underlying")
	}

	var err error
	if spec.Interval.Start, err = parseTime(cfg.Start); err != nil {
		return SourceSpec{}, fmt.Errorf("invalid source start: %w", err)
	}
	if spec.Interval.End, err = parseTime(cfg.End); err != nil {
		return SourceSpec{}, fmt.Errorf("invalid source end: %w", err)
	}
	if cfg.Step != "" {
		if spec.Interval.Step, err = time.ParseDuration(cfg.Step); err != nil {
			return SourceSpec{}, fmt.Errorf("invalid source step: %w", err)
		}
	}

	needsInterval := spec.Mode == ModeRegular || (spec.File == "" && spec.Synthetic == nil)
	if needsInterval {
		iv := spec.Interval
		if iv.Step == 0 {
			iv.Step = time.Hour
		}
		if err := iv.Validate(); err != nil {
			return SourceSpec{}, err
		}
	}
	return spec, nil
}

func resolveSynthetic(cfg SyntheticConfig) (SyntheticSpec, error) {
	if len(cfg.Contracts) == 0 {
		return SyntheticSpec{}, fmt.Errorf("synthetic contracts is empty")
	}
	if cfg.Count <= 0 {
		return SyntheticSpec{}, fmt.Errorf("synthetic count must be > 0")
	}
	every := time.Minute
	if cfg.Every != "" {
		d, err := time.ParseDuration(cfg.Every)
		if err != nil {
			return SyntheticSpec{}, fmt.Errorf("invalid synthetic every: %w", err)
		}
		every = d
	}
	if every <= 0 {
		return SyntheticSpec{}, fmt.Errorf("synthetic every must be > 0")
	}
	return SyntheticSpec{
		Contracts: cfg.Contracts,
		Count:     cfg.Count,
		Every:     every,
		BasePrice: cfg.BasePrice,
		BaseSize:  cfg.BaseSize,
		TickSize:  cfg.TickSize,
	}, nil
}

func resolveStats(cfg StatsConfig) (StatsConfig, error) {
	if cfg.Field == "" {
		cfg.Field = defaultField
	}
	if len(cfg.Quantiles) == 0 {
		cfg.Quantiles = defaultQuantiles
	}
	if cfg.Accuracy == 0 {
		cfg.Accuracy = defaultAccuracy
	}
	for _, q := range cfg.Quantiles {
		if q < 0 || q > 1 {
			return StatsConfig{}, fmt.Errorf("stats quantile must be in [0, 1]: %v", q)
		}
	}
	if cfg.Accuracy <= 0 || cfg.Accuracy >= 1 {
		return StatsConfig{}, fmt.Errorf("stats accuracy must be in (0, 1)")
	}
	if cfg.Every < 0 {
		return StatsConfig{}, fmt.Errorf("stats every must be >= 0")
	}
	return cfg, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradestats/cost"
	"github.com/rustyeddy/tradestats/trade"
)

// Fallback cost inputs used when neither the mode nor the global section
// sets a value.
const (
	FallbackSlippagePts       = 0.5
	FallbackQuantity          = 65
	FallbackBrokeragePerOrder = 20.0
	FallbackFlatTax           = 0.0
)

// Config represents the complete tradestats configuration
type Config struct {
	Cost    CostOverride            `json:"cost" yaml:"cost"`
	Modes   map[string]CostOverride `json:"modes,omitempty" yaml:"modes,omitempty"`
	Filter  trade.VIXRange          `json:"filter" yaml:"filter"`
	Journal JournalConfig           `json:"journal" yaml:"journal"`
	Server  ServerConfig            `json:"server" yaml:"server"`
	Log     LogConfig               `json:"log" yaml:"log"`
}

// CostOverride is a partial set of cost inputs, used both for the global
// cost section and per mode. Nil fields fall through to the next level.
// PerTrade, when set, wins over the derived slippage + brokerage + tax
// figure.
type CostOverride struct {
	SlippagePts       *float64 `json:"slippage_pts,omitempty" yaml:"slippage_pts,omitempty"`
	Quantity          *int     `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	BrokeragePerOrder *float64 `json:"brokerage_per_order,omitempty" yaml:"brokerage_per_order,omitempty"`
	FlatTax           *float64 `json:"flat_tax,omitempty" yaml:"flat_tax,omitempty"`
	PerTrade          *float64 `json:"per_trade,omitempty" yaml:"per_trade,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Dataset    string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // "json" or "console"
}

// ResolveCost merges the cost inputs for mode: a per-mode value wins over
// the global value, which wins over the fallback. An explicit per_trade is
// resolved the same way and, when found, replaces the derived figure.
func (c *Config) ResolveCost(mode string) (cost.Inputs, cost.Model) {
	m := c.Modes[mode]
	g := c.Cost

	in := cost.Inputs{
		SlippagePts:       pickFloat(m.SlippagePts, g.SlippagePts, FallbackSlippagePts),
		Quantity:          pickInt(m.Quantity, g.Quantity, FallbackQuantity),
		BrokeragePerOrder: pickFloat(m.BrokeragePerOrder, g.BrokeragePerOrder, FallbackBrokeragePerOrder),
		FlatTax:           pickFloat(m.FlatTax, g.FlatTax, FallbackFlatTax),
	}
	model := in.Model()
	if m.PerTrade != nil {
		model.PerTrade = *m.PerTrade
	} else if g.PerTrade != nil {
		model.PerTrade = *g.PerTrade
	}
	return in, model
}

func pickFloat(mode, global *float64, fallback float64) float64 {
	switch {
	case mode != nil:
		return *mode
	case global != nil:
		return *global
	default:
		return fallback
	}
}

func pickInt(mode, global *int, fallback int) int {
	switch {
	case mode != nil:
		return *mode
	case global != nil:
		return *global
	default:
		return fallback
	}
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Cost.validate("cost"); err != nil {
		return err
	}
	for name, m := range c.Modes {
		if name == "" {
			return fmt.Errorf("modes: empty mode name")
		}
		if err := m.validate("modes." + name); err != nil {
			return err
		}
	}
	if c.Filter.Min < 0 || c.Filter.Max < 0 {
		return fmt.Errorf("filter.vix_min and filter.vix_max must not be negative")
	}
	if c.Filter.Max > 0 && c.Filter.Min > c.Filter.Max {
		return fmt.Errorf("filter.vix_min must not exceed filter.vix_max")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	return nil
}

func (o CostOverride) validate(section string) error {
	for name, v := range map[string]*float64{
		"slippage_pts":        o.SlippagePts,
		"brokerage_per_order": o.BrokeragePerOrder,
		"flat_tax":            o.FlatTax,
		"per_trade":           o.PerTrade,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s.%s must not be negative", section, name)
		}
	}
	if o.Quantity != nil && *o.Quantity <= 0 {
		return fmt.Errorf("%s.quantity must be positive", section)
	}
	return nil
}

// Env variables read by ApplyEnv.
const (
	EnvCostPerTrade = "TRADESTATS_COST_PER_TRADE"
	EnvVIXMin       = "TRADESTATS_VIX_MIN"
	EnvVIXMax       = "TRADESTATS_VIX_MAX"
	EnvDBPath       = "TRADESTATS_DB"
	EnvAddr         = "TRADESTATS_ADDR"
	EnvLogLevel     = "TRADESTATS_LOG_LEVEL"
)

// ApplyEnv loads the given .env files (missing files are ignored) and then
// overrides fields from TRADESTATS_* variables already in the environment.
func (c *Config) ApplyEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	floats := map[string]func(float64){
		EnvCostPerTrade: func(v float64) { c.Cost.PerTrade = &v },
		EnvVIXMin:       func(v float64) { c.Filter.Min = v },
		EnvVIXMax:       func(v float64) { c.Filter.Max = v },
	}
	for key, set := range floats {
		s, ok := os.LookupEnv(key)
		if !ok || s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		set(v)
	}

	if s := os.Getenv(EnvDBPath); s != "" {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = s
	}
	if s := os.Getenv(EnvAddr); s != "" {
		c.Server.Addr = s
	}
	if s := os.Getenv(EnvLogLevel); s != "" {
		c.Log.Level = s
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Type:       "sqlite",
			DBPath:     "./tradestats.db",
			TradesFile: "./trades.csv",
			Dataset:    "default",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

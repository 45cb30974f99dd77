package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Provider struct {
		APIKey     string `toml:"api_key"`
		BaseURL    string `toml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"provider"`

	Symbols struct {
		List []string `toml:"list"`
	} `toml:"symbols"`

	Validation struct {
		MinPrice  float64 `toml:"min_price"`
		MaxPrice  float64 `toml:"max_price"`
		MinVolume int64   `toml:"min_volume"`
	} `toml:"validation"`

	Pipeline struct {
		PauseSec int `toml:"pause_sec"`
	} `toml:"pipeline"`

	Storage struct {
		Driver string `toml:"driver"` // "postgres" or "sqlite"

		Postgres struct {
			Host     string `toml:"host"`
			Port     int    `toml:"port"`
			DBName   string `toml:"dbname"`
			User     string `toml:"user"`
			Password string `toml:"password"`
			SSLMode  string `toml:"sslmode"`
		} `toml:"postgres"`

		SQLite struct {
			Path string `toml:"path"`
		} `toml:"sqlite"`

		CSV struct {
			Dir     string `toml:"dir"`
			History bool   `toml:"history"`
		} `toml:"csv"`

		Redis struct {
			Enabled bool   `toml:"enabled"`
			Addr    string `toml:"addr"`
			Prefix  string `toml:"prefix"`
			TTLSec  int    `toml:"ttl_sec"`
		} `toml:"redis"`
	} `toml:"storage"`

	Schedule struct {
		Cadence     string `toml:"cadence"` // "hourly" or "daily"
		DailyAt     string `toml:"daily_at"`
		IntervalMin int    `toml:"interval_min"`
	} `toml:"schedule"`

	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
		Alert string `toml:"alert"`
	} `toml:"log"`
}

// Load reads the TOML config at path, then layers defaults and environment
// overrides. A missing file is not an error: defaults plus environment
// variables are a complete configuration.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://www.alphavantage.co/query"
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = 10
	}
	if len(cfg.Symbols.List) == 0 {
		cfg.Symbols.List = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	}
	if cfg.Validation.MinPrice <= 0 {
		cfg.Validation.MinPrice = 0.01
	}
	if cfg.Validation.MaxPrice <= 0 {
		cfg.Validation.MaxPrice = 1_000_000
	}
	if cfg.Pipeline.PauseSec <= 0 {
		cfg.Pipeline.PauseSec = 15
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "postgres"
	}
	pg := &cfg.Storage.Postgres
	if pg.Host == "" {
		pg.Host = "localhost"
	}
	if pg.Port == 0 {
		pg.Port = 5432
	}
	if pg.DBName == "" {
		pg.DBName = "stock_market"
	}
	if pg.User == "" {
		pg.User = "stockuser"
	}
	if pg.SSLMode == "" {
		pg.SSLMode = "disable"
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/stockpipe.db"
	}
	if cfg.Storage.CSV.Dir == "" {
		cfg.Storage.CSV.Dir = "data"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "stockpipe"
	}
	if cfg.Storage.Redis.TTLSec <= 0 {
		cfg.Storage.Redis.TTLSec = 86400
	}
	if cfg.Schedule.Cadence == "" {
		cfg.Schedule.Cadence = "hourly"
	}
	if cfg.Schedule.DailyAt == "" {
		cfg.Schedule.DailyAt = "09:00"
	}
	if cfg.Schedule.IntervalMin <= 0 {
		cfg.Schedule.IntervalMin = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Alert == "" {
		cfg.Log.Alert = "logs/alerts.log"
	}
}

// applyEnv lets secrets and connection parameters come from the environment,
// overriding whatever the file said.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Storage.Postgres.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			cfg.Storage.Postgres.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Storage.Postgres.DBName = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Storage.Postgres.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Storage.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
}

func validate(cfg *Config) error {
	cfg.Symbols.List = normalizeSymbols(cfg.Symbols.List)
	if len(cfg.Symbols.List) == 0 {
		return errors.New("symbols.list is empty")
	}
	if strings.TrimSpace(cfg.Provider.APIKey) == "" {
		return errors.New("provider.api_key is empty (set ALPHAVANTAGE_API_KEY)")
	}
	switch cfg.Storage.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("storage.driver %q: want postgres or sqlite", cfg.Storage.Driver)
	}
	switch cfg.Schedule.Cadence {
	case "hourly", "daily":
	default:
		return fmt.Errorf("schedule.cadence %q: want hourly or daily", cfg.Schedule.Cadence)
	}
	if _, err := time.Parse("15:04", cfg.Schedule.DailyAt); err != nil {
		return fmt.Errorf("schedule.daily_at %q: want HH:MM", cfg.Schedule.DailyAt)
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	return nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// PostgresDSN renders the connection string for the pgx stdlib driver.
func (c *Config) PostgresDSN() string {
	pg := c.Storage.Postgres
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		pg.Host, pg.Port, pg.DBName, pg.User, pg.Password, pg.SSLMode)
}

// Pause is the rate-limit delay between provider calls.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.Pipeline.PauseSec) * time.Second
}

// RequestTimeout bounds a single provider request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSec) * time.Second
}

// Package config はアプリケーション設定（YAML + 環境変数）を読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // LoadLocation をタイムゾーンDBのないコンテナでも動かす

	"gopkg.in/yaml.v3"

	"fib_dashboard/internal/platform/db"
	"fib_dashboard/internal/platform/redis"
)

// DefaultPath は -config / CONFIG_PATH が指定されない場合の設定ファイルです。
const DefaultPath = "configs/config.yaml"

const (
	SymbolSourceCSV      = "csv"
	SymbolSourceDatabase = "database"
)

// Font はシェルに登録するフォントです。
type Font struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string        `yaml:"addr"`
		CORSOrigins    []string      `yaml:"cors_origins"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Yahoo struct {
		BaseURL   string        `yaml:"base_url"`
		Suffix    string        `yaml:"suffix"`
		UserAgent string        `yaml:"user_agent"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"yahoo"`
	Proxy   string `yaml:"proxy"`
	Symbols struct {
		CSVPath string `yaml:"csv_path"`
		Source  string `yaml:"source"`
		Market  string `yaml:"market"`
	} `yaml:"symbols"`
	Archive struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"archive"`
	Database db.Config    `yaml:"database"`
	Redis    redis.Config `yaml:"redis"`
	Cache    struct {
		Namespace   string `yaml:"namespace"`
		RefreshHour int    `yaml:"refresh_hour"`
		Timezone    string `yaml:"timezone"`
	} `yaml:"cache"`
	Ingest struct {
		CallsPerMinute int    `yaml:"calls_per_minute"`
		Schedule       string `yaml:"schedule"`
	} `yaml:"ingest"`
	Shell struct {
		ScreensDir string   `yaml:"screens_dir"`
		Screens    []string `yaml:"screens"`
		Window     struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"window"`
		Fonts []Font `yaml:"fonts"`
	} `yaml:"shell"`
}

// PathFromEnv は CONFIG_PATH があればそれを、なければ DefaultPath を返します。
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// ファイルが存在しない場合は環境変数と既定値のみで構成します。
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Cache.RefreshHour = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Environment variable overrides
func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SERVER_ADDR":     &c.Server.Addr,
		"LOG_LEVEL":       &c.Log.Level,
		"LOG_FORMAT":      &c.Log.Format,
		"YAHOO_BASE_URL":  &c.Yahoo.BaseURL,
		"YAHOO_SUFFIX":    &c.Yahoo.Suffix,
		"HTTPS_PROXY":     &c.Proxy,
		"SYMBOLS_CSV":     &c.Symbols.CSVPath,
		"SYMBOLS_SOURCE":  &c.Symbols.Source,
		"DB_DRIVER":       &c.Database.Driver,
		"DB_PATH":         &c.Database.Path,
		"DB_HOST":         &c.Database.Host,
		"DB_PORT":         &c.Database.Port,
		"DB_USER":         &c.Database.User,
		"DB_PASSWORD":     &c.Database.Password,
		"DB_NAME":         &c.Database.Name,
		"DB_SSLMODE":      &c.Database.SSLMode,
		"REDIS_HOST":      &c.Redis.Host,
		"REDIS_PORT":      &c.Redis.Port,
		"REDIS_PASSWORD":  &c.Redis.Password,
		"CACHE_TIMEZONE":  &c.Cache.Timezone,
		"INGEST_SCHEDULE": &c.Ingest.Schedule,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// Cloud Run などは PORT で待ち受けポートを渡す
	if v := os.Getenv("PORT"); v != "" && os.Getenv("SERVER_ADDR") == "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ARCHIVE_ENABLED: %w", err)
		}
		c.Archive.Enabled = b
	}
	if v := os.Getenv("YAHOO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("YAHOO_TIMEOUT: %w", err)
		}
		c.Yahoo.Timeout = d
	}
	if v := os.Getenv("INGEST_CALLS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INGEST_CALLS_PER_MINUTE: %w", err)
		}
		c.Ingest.CallsPerMinute = n
	}
	return nil
}

// Defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 15 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Yahoo.BaseURL == "" {
		c.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Yahoo.Suffix == "" {
		c.Yahoo.Suffix = ".NS"
	}
	if c.Yahoo.Timeout == 0 {
		c.Yahoo.Timeout = 10 * time.Second
	}
	if c.Symbols.CSVPath == "" {
		c.Symbols.CSVPath = "configs/symbols.csv"
	}
	if c.Symbols.Source == "" {
		c.Symbols.Source = SymbolSourceCSV
	}
	if c.Symbols.Market == "" {
		c.Symbols.Market = "NSE"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = db.DriverSQLite
	}
	if c.Database.Driver == db.DriverSQLite && c.Database.Path == "" {
		c.Database.Path = "data/fib_dashboard.db"
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 60 * time.Second
	}
	if c.Cache.Namespace == "" {
		c.Cache.Namespace = "bars"
	}
	if c.Cache.RefreshHour < 0 {
		c.Cache.RefreshHour = 16
	}
	if c.Cache.Timezone == "" {
		c.Cache.Timezone = "Asia/Kolkata"
	}
	if c.Ingest.CallsPerMinute == 0 {
		c.Ingest.CallsPerMinute = 8
	}
	if c.Ingest.Schedule == "" {
		// 平日 16:30（サーバー時刻）
		c.Ingest.Schedule = "0 30 16 * * 1-5"
	}
	if c.Shell.ScreensDir == "" {
		c.Shell.ScreensDir = "configs/screens"
	}
	if len(c.Shell.Screens) == 0 {
		c.Shell.Screens = []string{"main", "login", "signup"}
	}
	if c.Shell.Window.Width == 0 {
		c.Shell.Window.Width = 310
	}
	if c.Shell.Window.Height == 0 {
		c.Shell.Window.Height = 558
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Symbols.Source {
	case SymbolSourceCSV:
	case SymbolSourceDatabase:
		if !c.Archive.Enabled {
			return fmt.Errorf("symbols.source=database requires archive.enabled")
		}
	default:
		return fmt.Errorf("symbols.source must be %q or %q, got %q", SymbolSourceCSV, SymbolSourceDatabase, c.Symbols.Source)
	}
	if c.Archive.Enabled {
		switch strings.ToLower(c.Database.Driver) {
		case db.DriverSQLite, db.DriverPostgres:
		default:
			return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
		}
		if c.Database.Driver == db.DriverPostgres && (c.Database.Host == "" || c.Database.Name == "") {
			return fmt.Errorf("database.host and database.name are required for postgres")
		}
	}
	if c.Yahoo.Timeout <= 0 {
		return fmt.Errorf("yahoo.timeout must be positive")
	}
	if c.Cache.RefreshHour > 23 {
		return fmt.Errorf("cache.refresh_hour must be within 0-23")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Ingest.CallsPerMinute <= 0 {
		return fmt.Errorf("ingest.calls_per_minute must be positive")
	}
	if c.Shell.Window.Width <= 0 || c.Shell.Window.Height <= 0 {
		return fmt.Errorf("shell.window must have positive width and height")
	}
	for _, f := range c.Shell.Fonts {
		if f.Name == "" || f.Path == "" {
			return fmt.Errorf("shell.fonts entries need name and path")
		}
	}
	return nil
}

// Location は cache.timezone の *time.Location を返します。
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Cache.Timezone)
	if err != nil {
		return nil, fmt.Errorf("cache.timezone: %w", err)
	}
	return loc, nil
}

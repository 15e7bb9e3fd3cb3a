package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/baxromumarov/civic-reps/internal/core"
	"github.com/baxromumarov/civic-reps/internal/geo"
	"github.com/baxromumarov/civic-reps/internal/httpx"
	"github.com/baxromumarov/civic-reps/internal/scraper"
	"github.com/baxromumarov/civic-reps/internal/store"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	Geo      GeoConfig      `mapstructure:"geo"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type ScraperConfig struct {
	UserAgent        string        `mapstructure:"user_agent"`
	RespectRobots    bool          `mapstructure:"respect_robots"`
	DebugDir         string        `mapstructure:"debug_dir"`
	RichZIP          string        `mapstructure:"rich_zip"`
	RichURL          string        `mapstructure:"rich_url"`
	RichWaitSelector string        `mapstructure:"rich_wait_selector"`
	HouseURL         string        `mapstructure:"house_url"`
	SenateURL        string        `mapstructure:"senate_url"`
	HouseTimeout     time.Duration `mapstructure:"house_timeout"`
	SenateTimeout    time.Duration `mapstructure:"senate_timeout"`
	RenderTimeout    time.Duration `mapstructure:"render_timeout"`
}

type GeoConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", "data/civic.db")
	v.SetDefault("server.port", 3000)

	v.SetDefault("scraper.user_agent", httpx.DefaultUserAgent)
	v.SetDefault("scraper.respect_robots", true)
	v.SetDefault("scraper.debug_dir", ".")
	v.SetDefault("scraper.rich_zip", core.DefaultRichZIP)
	v.SetDefault("scraper.rich_url", scraper.DefaultOfficialsURL)
	v.SetDefault("scraper.rich_wait_selector", scraper.DefaultOfficialsWaitSelector)
	v.SetDefault("scraper.house_url", scraper.DefaultHouseLookupURL)
	v.SetDefault("scraper.senate_url", scraper.DefaultSenateDirectoryURL)
	v.SetDefault("scraper.house_timeout", 10*time.Second)
	v.SetDefault("scraper.senate_timeout", 12*time.Second)
	v.SetDefault("scraper.render_timeout", 20*time.Second)

	v.SetDefault("geo.base_url", geo.DefaultBaseURL)
	v.SetDefault("geo.timeout", 6*time.Second)
}

// Load reads ./config/config.yaml when present, then CIVIC_* environment
// variables (a .env file is loaded first if one exists). DATABASE_URL and
// PORT win over everything else.
func Load() (*Config, error) {
	return load("./config")
}

func load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config failed: %w", err)
	}

	overrideFromEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			cfg.Database.Driver = store.DriverPostgres
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database dsn is empty")
	}
	return nil
}

// Addr is the listen address for the API server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

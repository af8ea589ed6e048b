package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres  PostgresConfig
	Scheduler SchedulerConfig
	Scraper   ScraperConfig
	Server    ServerConfig
	Proxy     ProxyConfig
	DBPath    string
	LogPath   string
	Adapters  map[string]*Adapter
}

type PostgresConfig struct {
	URL string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type ScraperConfig struct {
	Headless          bool
	NavTimeoutMS      int
	SelectorTimeoutMS int
}

type ServerConfig struct {
	Addr string
}

type ProxyConfig struct {
	URL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("REFRESH_CRON"),
		},
		Scraper: ScraperConfig{
			Headless:          getEnv("SCRAPER_HEADLESS", "true") == "true",
			NavTimeoutMS:      getEnvInt("SCRAPER_NAV_TIMEOUT_MS", 30000),
			SelectorTimeoutMS: getEnvInt("SCRAPER_SELECTOR_TIMEOUT_MS", 15000),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8090"),
		},
		Proxy: ProxyConfig{
			URL: os.Getenv("PROXY_URL"),
		},
		DBPath:   getEnv("DB_PATH", "pricewatch.db"),
		LogPath:  getEnv("LOG_PATH", "daemon.log"),
		Adapters: builtinAdapters(),
	}

	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadAdapterConfigs(); err != nil {
		return nil, err
	}

	for _, a := range cfg.Adapters {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadAdapterConfigs merges per-competitor YAML files over the built-in
// registry, so a new site can be added without a rebuild.
func (c *Config) loadAdapterConfigs() error {
	configDir := "config/sites"
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(configDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var a Adapter
		if err := yaml.Unmarshal(data, &a); err != nil {
			return err
		}

		c.Adapters[a.Name] = &a
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

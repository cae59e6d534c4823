// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Shards  ShardsConfig  `yaml:"shards" mapstructure:"shards"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig points at the site catalog and manifest sources and names
// the columns to read from the site table.
type CatalogConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	SitesFile    string `yaml:"sites_file" mapstructure:"sites_file"`
	ManifestFile string `yaml:"manifest_file" mapstructure:"manifest_file"`
	IDColumn     string `yaml:"id_column" mapstructure:"id_column"`
	LabelColumn  string `yaml:"label_column" mapstructure:"label_column"`
	LatColumn    string `yaml:"lat_column" mapstructure:"lat_column"`
	LonColumn    string `yaml:"lon_column" mapstructure:"lon_column"`
	BoundaryCol  string `yaml:"boundary_column" mapstructure:"boundary_column"`
	PathsCol     string `yaml:"paths_column" mapstructure:"paths_column"`
}

// ShardsConfig names the three columns projected from each address shard.
type ShardsConfig struct {
	LatColumn     string `yaml:"lat_column" mapstructure:"lat_column"`
	LonColumn     string `yaml:"lon_column" mapstructure:"lon_column"`
	AddressColumn string `yaml:"address_column" mapstructure:"address_column"`
	Parallelism   int    `yaml:"parallelism" mapstructure:"parallelism"`
}

// FetchConfig configures the HTTP fetcher.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit   int    `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CacheConfig configures the session shard cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// EnrichConfig configures the identity enrichment batch.
type EnrichConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	Provider     string `yaml:"provider" mapstructure:"provider"`
	ProviderFile string `yaml:"provider_file" mapstructure:"provider_file"`
	IntervalMS   int    `yaml:"interval_ms" mapstructure:"interval_ms"`
	AllMatches   bool   `yaml:"all_matches" mapstructure:"all_matches"`
	Delimiter    string `yaml:"delimiter" mapstructure:"delimiter"`
	StreetColumn string `yaml:"street_column" mapstructure:"street_column"`
	CityColumn   string `yaml:"city_column" mapstructure:"city_column"`
	StateColumn  string `yaml:"state_column" mapstructure:"state_column"`
	ZipColumn    string `yaml:"zip_column" mapstructure:"zip_column"`
}

// Interval returns the minimum delay between enrichment requests.
func (e EnrichConfig) Interval() time.Duration {
	return time.Duration(e.IntervalMS) * time.Millisecond
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CATCHMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.sites_file", "sites.csv")
	v.SetDefault("catalog.manifest_file", "_manifest.csv")
	v.SetDefault("catalog.id_column", "SITE_ID")
	v.SetDefault("catalog.label_column", "LABEL")
	v.SetDefault("catalog.lat_column", "LAT")
	v.SetDefault("catalog.lon_column", "LON")
	v.SetDefault("catalog.boundary_column", "boundary_id")
	v.SetDefault("catalog.paths_column", "files")
	v.SetDefault("shards.lat_column", "LAT")
	v.SetDefault("shards.lon_column", "LON")
	v.SetDefault("shards.address_column", "FullAddress")
	v.SetDefault("shards.parallelism", 1)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "catchment-cli/1.0")
	v.SetDefault("fetch.rate_limit", 10)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "catchment-cache.db")
	v.SetDefault("enrich.provider", "standard")
	v.SetDefault("enrich.interval_ms", 1000)
	v.SetDefault("enrich.delimiter", "; ")
	v.SetDefault("enrich.street_column", "Address")
	v.SetDefault("enrich.city_column", "City")
	v.SetDefault("enrich.state_column", "State")
	v.SetDefault("enrich.zip_column", "ZIP")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

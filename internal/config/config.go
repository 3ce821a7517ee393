package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	SerperAPIKey  string `mapstructure:"SERPER_API_KEY"`
	SerperBaseURL string `mapstructure:"SERPER_BASE_URL"`

	FirecrawlAPIKey  string `mapstructure:"FIRECRAWL_API_KEY"`
	FirecrawlBaseURL string `mapstructure:"FIRECRAWL_BASE_URL"`

	// RedisAddr enables the extracted-page cache when non-empty.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`

	SearchCountry  string `mapstructure:"SEARCH_COUNTRY"`
	SearchLanguage string `mapstructure:"SEARCH_LANGUAGE"`

	MaxContentChars  int `mapstructure:"MAX_CONTENT_CHARS"`
	MaxInternalLinks int `mapstructure:"MAX_INTERNAL_LINKS"`

	ExtractTimeoutSecs  int `mapstructure:"EXTRACT_TIMEOUT"`
	ScrapeTimeoutSecs   int `mapstructure:"SCRAPE_TIMEOUT"`
	MaxConcurrentScrape int `mapstructure:"MAX_CONCURRENT_SCRAPES"`

	CrawlDelayMs    int `mapstructure:"CRAWL_DELAY_MS"`
	CrawlMaxResults int `mapstructure:"CRAWL_MAX_RESULTS"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables in production.
	_ = viper.ReadInConfig()

	// Set default values. Keys without another default still need one
	// registered so AutomaticEnv picks them up during Unmarshal.
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERPER_API_KEY", "")
	viper.SetDefault("FIRECRAWL_API_KEY", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("SERPER_BASE_URL", "https://google.serper.dev")
	viper.SetDefault("FIRECRAWL_BASE_URL", "https://api.firecrawl.dev")
	viper.SetDefault("CACHE_TTL_HOURS", 48)
	viper.SetDefault("SEARCH_COUNTRY", "us")
	viper.SetDefault("SEARCH_LANGUAGE", "en")
	viper.SetDefault("MAX_CONTENT_CHARS", 5000)
	viper.SetDefault("MAX_INTERNAL_LINKS", 10)
	viper.SetDefault("EXTRACT_TIMEOUT", 10) // in seconds
	viper.SetDefault("SCRAPE_TIMEOUT", 30)  // in seconds
	viper.SetDefault("MAX_CONCURRENT_SCRAPES", 3)
	viper.SetDefault("CRAWL_DELAY_MS", 1000)
	viper.SetDefault("CRAWL_MAX_RESULTS", 5)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExtractTimeout returns the per-page extraction timeout as a duration.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSecs) * time.Second
}

// ScrapeTimeout returns the per-URL scrape timeout as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.ScrapeTimeoutSecs) * time.Second
}

// CrawlDelay returns the pause inserted between sequential crawl requests.
func (c *Config) CrawlDelay() time.Duration {
	return time.Duration(c.CrawlDelayMs) * time.Millisecond
}

// CacheTTL returns how long cached pages stay fresh.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

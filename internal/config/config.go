package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// Config represents the complete TrendRadar configuration.
type Config struct {
	DataDir string `json:"dataDir" mapstructure:"dataDir"`

	Platforms    []Platform         `json:"platforms" mapstructure:"platforms"`
	Crawler      CrawlerConfig      `json:"crawler" mapstructure:"crawler"`
	Notification NotificationConfig `json:"notification" mapstructure:"notification"`
	Weight       WeightConfig       `json:"weight" mapstructure:"weight"`
	Cache        CacheConfig        `json:"cache" mapstructure:"cache"`
	Metrics      MetricsConfig      `json:"metrics" mapstructure:"metrics"`
	Logging      LoggingConfig      `json:"logging" mapstructure:"logging"`
}

// Platform declares one monitored source in the registry.
type Platform struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// CrawlerConfig contains snapshot crawler settings.
type CrawlerConfig struct {
	EnableCrawler   bool `json:"enableCrawler" mapstructure:"enable_crawler"`
	UseProxy        bool `json:"useProxy" mapstructure:"use_proxy"`
	RequestInterval int  `json:"requestInterval" mapstructure:"request_interval"`
	RetryTimes      int  `json:"retryTimes" mapstructure:"retry_times"`
}

// NotificationConfig contains push channel settings.
type NotificationConfig struct {
	EnableNotification bool              `json:"enableNotification" mapstructure:"enable_notification"`
	MessageBatchSize   int               `json:"messageBatchSize" mapstructure:"message_batch_size"`
	PushWindow         PushWindowConfig  `json:"pushWindow" mapstructure:"push_window"`
	Webhooks           map[string]string `json:"webhooks" mapstructure:"webhooks"`
}

// PushWindowConfig bounds the hours during which pushes may fire.
type PushWindowConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	StartHour int    `json:"startHour" mapstructure:"start_hour"`
	EndHour   int    `json:"endHour" mapstructure:"end_hour"`
	Timezone  string `json:"timezone" mapstructure:"timezone"`
}

// WeightConfig holds the news weight coefficients. The three values are
// expected to sum to 1.
type WeightConfig struct {
	RankWeight      float64 `json:"rankWeight" mapstructure:"rank_weight"`
	FrequencyWeight float64 `json:"frequencyWeight" mapstructure:"frequency_weight"`
	HotnessWeight   float64 `json:"hotnessWeight" mapstructure:"hotness_weight"`
}

// CacheConfig holds the freshness windows in seconds for each data class.
type CacheConfig struct {
	TodayTTLSeconds      int `json:"todayTtlSeconds" mapstructure:"today_ttl_seconds"`
	HistoricalTTLSeconds int `json:"historicalTtlSeconds" mapstructure:"historical_ttl_seconds"`
	ConfigTTLSeconds     int `json:"configTtlSeconds" mapstructure:"config_ttl_seconds"`
}

// MetricsConfig controls the operation metrics store.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	DBPath  string `json:"dbPath" mapstructure:"db_path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "output",
		Crawler: CrawlerConfig{
			EnableCrawler:   true,
			RequestInterval: 1,
			RetryTimes:      3,
		},
		Notification: NotificationConfig{
			EnableNotification: true,
			MessageBatchSize:   20,
			Webhooks:           map[string]string{},
		},
		Weight: WeightConfig{
			RankWeight:      0.6,
			FrequencyWeight: 0.3,
			HotnessWeight:   0.1,
		},
		Cache: CacheConfig{
			TodayTTLSeconds:      900,
			HistoricalTTLSeconds: 1800,
			ConfigTTLSeconds:     3600,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			DBPath:  "trendradar.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads config.yaml from projectRoot/config, falling back to defaults
// when no file exists.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.AddConfigPath(projectRoot)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(errors.ConfigurationError,
			"cannot read config.yaml", "check the config file syntax", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigurationError,
			"cannot decode config.yaml", "check the config field types", err)
	}

	return cfg, nil
}

// PlatformIDs returns the ids of every registered platform, in config order.
func (c *Config) PlatformIDs() []string {
	ids := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		ids = append(ids, p.ID)
	}
	return ids
}

// PlatformNames returns the id to display name mapping of the registry.
func (c *Config) PlatformNames() map[string]string {
	names := make(map[string]string, len(c.Platforms))
	for _, p := range c.Platforms {
		names[p.ID] = p.Name
	}
	return names
}

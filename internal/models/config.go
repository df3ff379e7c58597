package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrNotConfigured marks a missing credential or setting for an external
// service. Callers check for it to fail fast before doing any work that
// depends on the service.
var ErrNotConfigured = errors.New("not configured")

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MenuFeedConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	School  string        `mapstructure:"school"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	BrokerList  string `mapstructure:"broker_list"`
	DigestTopic string `mapstructure:"digest_topic"`
}

type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
}

type Config struct {
	ListenAddr     string         `mapstructure:"listen_addr"`
	DatabaseURL    string         `mapstructure:"database_url"`
	Gemini         GeminiConfig   `mapstructure:"gemini"`
	MenuFeed       MenuFeedConfig `mapstructure:"menu_feed"`
	Kafka          KafkaConfig    `mapstructure:"kafka"`
	Archive        ArchiveConfig  `mapstructure:"archive"`
	DemoMode       bool           `mapstructure:"demo_mode"`
	ReorderDelayMs int            `mapstructure:"reorder_delay_ms"`
	ExportFolder   string         `mapstructure:"export_folder"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.timeout", "60s")
	viper.SetDefault("menu_feed.base_url", "https://techdining.api.nutrislice.com")
	viper.SetDefault("menu_feed.school", "north-ave-dining-hall")
	viper.SetDefault("menu_feed.timeout", "15s")
	viper.SetDefault("kafka.digest_topic", "digest_notifications")
	viper.SetDefault("reorder_delay_ms", 600)
	viper.SetDefault("export_folder", "export")

	if err := viper.ReadInConfig(); err != nil {
		// Running purely on env vars and defaults is fine; a config file
		// that exists but cannot be parsed is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// CheckGemini fails fast when the estimator/composer credentials are absent,
// before any batching or prompt work is attempted.
func (cfg *Config) CheckGemini() error {
	if cfg.Gemini.APIKey == "" || cfg.Gemini.APIKey == "your-gemini-api-key-here" {
		return fmt.Errorf("gemini api key: %w", ErrNotConfigured)
	}
	return nil
}

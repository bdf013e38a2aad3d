package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings shared by the collector and the renderer.
type Config struct {
	Store StoreConfig `yaml:"store" mapstructure:"store"`
	Chart ChartConfig `yaml:"chart" mapstructure:"chart"`
	Fetch FetchConfig `yaml:"fetch" mapstructure:"fetch"`
	DB    DBConfig    `yaml:"db" mapstructure:"db"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// StoreConfig locates the JSON score store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ChartConfig controls the rendered image.
type ChartConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	DPI  int    `yaml:"dpi" mapstructure:"dpi"`
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Progress     bool   `yaml:"progress" mapstructure:"progress"`
}

// DBConfig configures the optional SQLite mirror. An empty path disables it.
type DBConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("GPQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "data/gpqa_scores.json")
	v.SetDefault("chart.path", "img/gpqa_frontier.png")
	v.SetDefault("chart.dpi", 220)
	v.SetDefault("fetch.timeout_secs", 20)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; gpqa-tracker/1.0)")
	v.SetDefault("fetch.max_body_bytes", 4*1024*1024)
	v.SetDefault("fetch.progress", true)
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// InitLogger initializes the global zap logger. Output goes to stdout.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	}
	zapCfg.OutputPaths = []string{"stdout"}

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

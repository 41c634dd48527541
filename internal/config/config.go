package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	NewsData NewsDataConfig `yaml:"newsdata" mapstructure:"newsdata"`
	JSearch  JSearchConfig  `yaml:"jsearch" mapstructure:"jsearch"`
	Twinword TwinwordConfig `yaml:"twinword" mapstructure:"twinword"`
	Groq     GroqConfig     `yaml:"groq" mapstructure:"groq"`
	Brief    BriefConfig    `yaml:"brief" mapstructure:"brief"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewsDataConfig holds NewsData.io API settings.
type NewsDataConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// JSearchConfig holds JSearch (RapidAPI) settings.
type JSearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Host    string `yaml:"host" mapstructure:"host"`
}

// TwinwordConfig holds Twinword emotion-analysis (RapidAPI) settings.
type TwinwordConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Host    string `yaml:"host" mapstructure:"host"`
}

// GroqConfig holds Groq API settings for outreach draft generation.
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// BriefConfig configures the brief-generation pipeline.
type BriefConfig struct {
	NewsPageSize     int `yaml:"news_page_size" mapstructure:"news_page_size"`
	JobsLimit        int `yaml:"jobs_limit" mapstructure:"jobs_limit"`
	TechTopN         int `yaml:"tech_top_n" mapstructure:"tech_top_n"`
	HiringThreshold  int `yaml:"hiring_threshold" mapstructure:"hiring_threshold"`
	DescriptionLimit int `yaml:"description_limit" mapstructure:"description_limit"`
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
	v.SetEnvPrefix("PITCHINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("newsdata.base_url", "https://newsdata.io")
	v.SetDefault("jsearch.base_url", "https://jsearch.p.rapidapi.com")
	v.SetDefault("jsearch.host", "jsearch.p.rapidapi.com")
	v.SetDefault("twinword.base_url", "https://twinword-emotion-analysis-v1.p.rapidapi.com")
	v.SetDefault("twinword.host", "twinword-emotion-analysis-v1.p.rapidapi.com")
	v.SetDefault("groq.base_url", "https://api.groq.com")
	v.SetDefault("groq.model", "llama3-8b-8192")
	v.SetDefault("brief.news_page_size", 10)
	v.SetDefault("brief.jobs_limit", 10)
	v.SetDefault("brief.tech_top_n", 10)
	v.SetDefault("brief.hiring_threshold", 5)
	v.SetDefault("brief.description_limit", 200)

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

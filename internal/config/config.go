package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RealtimeMemory and RealtimeRedis are the accepted REALTIME_BACKEND values.
const (
	RealtimeMemory = "memory"
	RealtimeRedis  = "redis"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	AuthTokenSecret string        `mapstructure:"AUTH_TOKEN_SECRET"`
	AuthTokenIssuer string        `mapstructure:"AUTH_TOKEN_ISSUER"`
	AuthTokenTTL    time.Duration `mapstructure:"AUTH_TOKEN_TTL"`

	SessionIdleTTL       time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`

	RealtimeBackend string `mapstructure:"REALTIME_BACKEND"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`

	// AIEndpointBaseURL is where the dispatcher sends {message, model} requests.
	// By default the service calls its own /api/ai endpoints.
	AIEndpointBaseURL string        `mapstructure:"AI_ENDPOINT_BASE_URL"`
	UpstreamTimeout   time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `mapstructure:"ANTHROPIC_BASE_URL"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiBaseURL    string `mapstructure:"GEMINI_BASE_URL"`
	GeminiPreamble   string `mapstructure:"GEMINI_PROMPT_PREAMBLE"`
	GrokAPIKey       string `mapstructure:"GROK_API_KEY"`
	GrokBaseURL      string `mapstructure:"GROK_BASE_URL"`
	GrokModel        string `mapstructure:"GROK_MODEL"`
}

func setDefaults() {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/omnichat.db")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetDefault("AUTH_TOKEN_SECRET", "")
	viper.SetDefault("AUTH_TOKEN_ISSUER", "omnichat")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("SESSION_IDLE_TTL", "30m")
	viper.SetDefault("SESSION_SWEEP_INTERVAL", "1m")

	viper.SetDefault("REALTIME_BACKEND", RealtimeMemory)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("AI_ENDPOINT_BASE_URL", "")
	viper.SetDefault("UPSTREAM_TIMEOUT", "0s")

	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("GEMINI_PROMPT_PREAMBLE", "")
	viper.SetDefault("GROK_API_KEY", "")
	viper.SetDefault("GROK_BASE_URL", "https://api.groq.com/openai/v1")
	viper.SetDefault("GROK_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct")
}

func LoadConfig() (*Config, error) {
	setDefaults()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AIEndpointBaseURL == "" {
		cfg.AIEndpointBaseURL = fmt.Sprintf("http://localhost:%d/api/ai", cfg.AppPort)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.AuthTokenSecret == "" {
		return errors.New("AUTH_TOKEN_SECRET must be set")
	}
	switch c.RealtimeBackend {
	case RealtimeMemory, RealtimeRedis:
	default:
		return fmt.Errorf("unknown REALTIME_BACKEND %q (want %q or %q)", c.RealtimeBackend, RealtimeMemory, RealtimeRedis)
	}
	if c.AppPort <= 0 {
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	}
	return nil
}

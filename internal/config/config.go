package config

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mbaadvisor/internal/errors"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Environment Variables (MBAADVISOR_AI_APIKEY, etc.)
// 3. Config File values
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Chat          ChatConfig          `mapstructure:"chat"`
	Schools       SchoolsConfig       `mapstructure:"schools"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	// prompt file contents keyed by prompt name, filled by loadPromptsFromFiles
	loadedPrompts map[string]string
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider       string               `mapstructure:"provider"`
	Model          string               `mapstructure:"model"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	APIKey         string               `mapstructure:"apiKey"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	Prompts        PromptConfig         `mapstructure:"prompts"`

	// Operation-specific configurations
	Chat      OperationAIConfig `mapstructure:"chat"`
	Intention OperationAIConfig `mapstructure:"intention"`
	Hyde      OperationAIConfig `mapstructure:"hyde"`
	Advice    OperationAIConfig `mapstructure:"advice"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for one model operation. Nil
// pointers and empty strings fall back to the global AI settings.
type OperationAIConfig struct {
	Provider       string                `mapstructure:"provider"`
	Model          string                `mapstructure:"model"`
	Timeout        *time.Duration        `mapstructure:"timeout"`
	APIKey         string                `mapstructure:"apiKey"`
	MaxRetries     *int                  `mapstructure:"maxRetries"`
	Temperature    *float32              `mapstructure:"temperature"`
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// ChatConfig holds chat session settings
type ChatConfig struct {
	WordCutoff    int           `mapstructure:"wordCutoff"`    // Session word count that ends the conversation
	HistoryLength int           `mapstructure:"historyLength"` // Messages sent to the model as context
	HydeWindow    int           `mapstructure:"hydeWindow"`    // Messages used to generate excerpts
	SessionTTL    time.Duration `mapstructure:"sessionTTL"`
	Store         string        `mapstructure:"store"` // "memory" or "redis"
	Redis         RedisConfig   `mapstructure:"redis"`
}

// RedisConfig holds the Redis session store connection
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// SchoolsConfig holds school catalog settings
type SchoolsConfig struct {
	CatalogFile   string        `mapstructure:"catalogFile"` // Empty uses the built-in catalog
	Watch         bool          `mapstructure:"watch"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// TLS is enabled when both files are set
	TLSCertFile string `mapstructure:"tlsCertFile"`
	TLSKeyFile  string `mapstructure:"tlsKeyFile"`

	CORS CORSConfig `mapstructure:"cors"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSEnabled reports whether the server should serve HTTPS
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// CORSConfig holds cross-origin settings for the browser chat client
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	MaxAge         int      `mapstructure:"maxAge"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// BusinessMetricsConfig holds chat, profile and school metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackIntentions   bool `mapstructure:"trackIntentions"`
	TrackProfileScore bool `mapstructure:"trackProfileScore"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from the default search paths and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads configuration from an explicit file, or searches the
// default paths when configFile is empty
func LoadConfigFrom(configFile string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MBAADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mbaadvisor/")
		v.AddConfigPath("$HOME/.mbaadvisor")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read config file", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to unmarshal config", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid. The AI API key is checked by
// RequireAIKey since offline commands run without one.
func (c *Config) Validate() error {
	invalid := func(msg string) error {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, msg, nil)
	}

	if c.AI.Timeout <= 0 {
		return invalid("AI timeout must be positive")
	}
	if c.Server.Port == "" {
		return invalid("server port is required")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return invalid("server.tlsCertFile and server.tlsKeyFile must be set together")
	}
	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return invalid(fmt.Sprintf("invalid default format: %s", c.App.DefaultFormat))
	}

	switch c.Chat.Store {
	case "memory":
	case "redis":
		if c.Chat.Redis.Addr == "" {
			return invalid("chat.redis.addr is required when chat.store is redis")
		}
	default:
		return invalid(fmt.Sprintf("invalid chat store: %s (must be 'memory' or 'redis')", c.Chat.Store))
	}

	if c.Chat.WordCutoff <= 0 {
		return invalid("chat.wordCutoff must be positive")
	}
	if c.Chat.HistoryLength <= 0 || c.Chat.HydeWindow <= 0 {
		return invalid("chat.historyLength and chat.hydeWindow must be positive")
	}
	if c.Chat.SessionTTL < 0 {
		return invalid("chat.sessionTTL cannot be negative")
	}

	return nil
}

// RequireAIKey reports a config error when no API key reached the AI settings
func (c *Config) RequireAIKey() error {
	for _, op := range Operations {
		if c.ForOperation(op).APIKey == "" {
			return errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				fmt.Sprintf("AI API key is required for %s (set MBAADVISOR_AI_APIKEY)", op), nil)
		}
	}
	return nil
}

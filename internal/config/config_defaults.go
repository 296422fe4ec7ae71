package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)

	v.SetDefault("ai.circuitBreaker.enabled", true)
	v.SetDefault("ai.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.circuitBreaker.failureThreshold", 0.6)

	// Operation defaults. Model, key and breaker fall back to the globals.
	v.SetDefault("ai.chat.timeout", 90*time.Second)
	v.SetDefault("ai.chat.temperature", 0.7)
	v.SetDefault("ai.intention.timeout", 20*time.Second)
	v.SetDefault("ai.intention.maxRetries", 2)
	v.SetDefault("ai.intention.temperature", 0.1) // Classification should be stable
	v.SetDefault("ai.hyde.timeout", 45*time.Second)
	v.SetDefault("ai.hyde.maxRetries", 2)
	v.SetDefault("ai.hyde.temperature", 0.8)
	v.SetDefault("ai.advice.timeout", 60*time.Second)
	v.SetDefault("ai.advice.temperature", 0.4)

	// Chat Configuration
	v.SetDefault("chat.wordCutoff", 4000)
	v.SetDefault("chat.historyLength", 7)
	v.SetDefault("chat.hydeWindow", 3)
	v.SetDefault("chat.sessionTTL", 24*time.Hour)
	v.SetDefault("chat.store", "memory")
	v.SetDefault("chat.redis.addr", "localhost:6379")
	v.SetDefault("chat.redis.password", "")
	v.SetDefault("chat.redis.db", 0)
	v.SetDefault("chat.redis.keyPrefix", "mbaadvisor:session:")

	// Schools Configuration
	v.SetDefault("schools.catalogFile", "")
	v.SetDefault("schools.watch", false)
	v.SetDefault("schools.debounceDelay", 500*time.Millisecond)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // Chat replies wait on several model calls
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024) // 1MB
	v.SetDefault("server.tlsCertFile", "")
	v.SetDefault("server.tlsKeyFile", "")
	v.SetDefault("server.cors.allowedOrigins", []string{})
	v.SetDefault("server.cors.maxAge", 600)
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown", "console"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiApiKey", "")
	v.SetDefault("vault.watchInterval", 5*time.Minute)

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "mbaadvisor")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackIntentions", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackProfileScore", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}

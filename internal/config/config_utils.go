package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	c.applyServerAPIKeyFallbacks()
	c.applyGeminiKeyFallback()
	c.applyObservabilityDefaults()
}

// applyServerAPIKeyFallbacks normalizes comma-separated lists that arrive
// from environment variables
func (c *Config) applyServerAPIKeyFallbacks() {
	c.Server.APIKeys = splitKeys(strings.Join(c.Server.APIKeys, ","))
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("MBAADVISOR_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitKeys(apiKeysEnv)
		}
	}
	c.Server.CORS.AllowedOrigins = splitKeys(strings.Join(c.Server.CORS.AllowedOrigins, ","))
}

// applyGeminiKeyFallback honours the conventional GEMINI_API_KEY variable
func (c *Config) applyGeminiKeyFallback() {
	if c.AI.APIKey != "" {
		return
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
}

func splitKeys(value string) []string {
	parts := strings.Split(value, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"MBAADVISOR_AI_APIKEY",
		"MBAADVISOR_AI_PROVIDER",
		"MBAADVISOR_AI_MODEL",
		"MBAADVISOR_CHAT_STORE",
		"MBAADVISOR_SERVER_PORT",
		"MBAADVISOR_SERVER_HOST",
		"MBAADVISOR_APP_LOGLEVEL",
		"MBAADVISOR_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Chat Store: %s", c.Chat.Store)
	log.Printf("[CONFIG] School Catalog: %s", valueOr(c.Schools.CatalogFile, "built-in"))
	log.Printf("[CONFIG] Server: %s:%s (TLS %t)", c.Server.Host, c.Server.Port, c.Server.TLSEnabled())
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Operation-Specific AI Configurations ===")
	for _, op := range Operations {
		opCfg := c.ForOperation(op)
		log.Printf("[CONFIG] %s - Provider: %s, Model: %s", op, opCfg.Provider, opCfg.Model)
	}

	log.Println("[CONFIG] =====================================")
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package config

// Model operations with their own AI settings
const (
	OperationChat      = "chat"
	OperationIntention = "intention"
	OperationHyde      = "hyde"
	OperationAdvice    = "advice"
)

// Operations lists every model operation
var Operations = []string{OperationChat, OperationIntention, OperationHyde, OperationAdvice}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.CircuitBreaker == nil {
		cb := c.AI.CircuitBreaker
		opCfg.CircuitBreaker = &cb
	}
}

// ForOperation returns the AI configuration for an operation with every
// unset field filled from the global settings. Unknown operations get the
// global settings.
func (c *Config) ForOperation(op string) OperationAIConfig {
	var config OperationAIConfig
	switch op {
	case OperationChat:
		config = c.AI.Chat
	case OperationIntention:
		config = c.AI.Intention
	case OperationHyde:
		config = c.AI.Hyde
	case OperationAdvice:
		config = c.AI.Advice
	}

	c.applyOperationDefaults(&config)
	return config
}

// applyAPIKey sets the key globally and on every operation without its own key
func (c *Config) applyAPIKey(key string) {
	c.AI.APIKey = key
	for _, op := range []*OperationAIConfig{&c.AI.Chat, &c.AI.Intention, &c.AI.Hyde, &c.AI.Advice} {
		if op.APIKey == "" {
			op.APIKey = key
		}
	}
}

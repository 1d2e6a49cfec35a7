package config

import (
	"fmt"
	"strings"

	"github.com/harun/agentbuilder/pkg/llm"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProvider validates a provider name
func (v *Validator) ValidateProvider(provider string) error {
	for _, valid := range llm.Providers() {
		if strings.EqualFold(provider, valid) {
			return nil
		}
	}
	return fmt.Errorf("invalid provider: %s (must be one of: %s)", provider, strings.Join(llm.Providers(), ", "))
}

// ValidateAPIKey checks that providers needing a key have one
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if strings.EqualFold(provider, llm.ProviderAnthropic) && key == "" {
		return fmt.Errorf("anthropic API key cannot be empty (set ANTHROPIC_API_KEY)")
	}
	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errs []error

	if err := v.ValidateProvider(cfg.LLM.Provider); err != nil {
		errs = append(errs, err)
	} else if err := v.ValidateAPIKey(cfg.LLM.APIKey, cfg.LLM.Provider); err != nil {
		errs = append(errs, err)
	}

	if cfg.LLM.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must be positive, got %s", cfg.LLM.Timeout))
	}
	if cfg.LLM.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("llm.max_tokens must be >= 0"))
	}

	if cfg.Memory.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("memory.max_turns must be positive, got %d", cfg.Memory.MaxTurns))
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	if err := v.ValidatePort(cfg.Gateway.Port); err != nil {
		errs = append(errs, fmt.Errorf("gateway: %w", err))
	}

	return errs
}

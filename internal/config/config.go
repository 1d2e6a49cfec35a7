package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/agentbuilder/pkg/llm"
)

// Config represents the agentbuilder configuration
type Config struct {
	// Language model provider
	LLM LLMConfig `json:"llm" mapstructure:"llm"`

	// Memory buffer
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`

	// Agent loop
	Agent AgentConfig `json:"agent" mapstructure:"agent"`

	// Built-in tools
	Tools ToolsConfig `json:"tools" mapstructure:"tools"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Gateway server
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Tracing
	Tracing TracingConfig `json:"tracing" mapstructure:"tracing"`
}

// LLMConfig selects the language model provider
type LLMConfig struct {
	Provider   string        `json:"provider" mapstructure:"provider"` // anaconda, anthropic, openai, ollama
	Model      string        `json:"model" mapstructure:"model"`
	BaseURL    string        `json:"base_url" mapstructure:"base_url"`
	APIKey     string        `json:"api_key" mapstructure:"api_key"`
	Models     []string      `json:"models" mapstructure:"models"`
	Timeout    time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxTokens  int           `json:"max_tokens" mapstructure:"max_tokens"`
	IncludeRaw bool          `json:"include_raw" mapstructure:"include_raw"`
}

// MemoryConfig holds memory buffer settings
type MemoryConfig struct {
	MaxTurns int `json:"max_turns" mapstructure:"max_turns"`
}

// AgentConfig holds planner and response settings
type AgentConfig struct {
	PromptTemplate  string   `json:"prompt_template" mapstructure:"prompt_template"`
	KnownTools      []string `json:"known_tools" mapstructure:"known_tools"`
	FormatResponse  bool     `json:"format_response" mapstructure:"format_response"`
	ShowFullDetails bool     `json:"show_full_details" mapstructure:"show_full_details"`
}

// ToolsConfig holds built-in tool settings
type ToolsConfig struct {
	// Interactive makes token_counter ask before proceeding.
	Interactive bool `json:"interactive" mapstructure:"interactive"`
	// TokenGate runs token_counter before every LLM call.
	TokenGate bool `json:"token_gate" mapstructure:"token_gate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// GatewayConfig holds gateway server configuration
type GatewayConfig struct {
	Port         int    `json:"port" mapstructure:"port"`
	Host         string `json:"host" mapstructure:"host"`
	SharedSecret string `json:"shared_secret" mapstructure:"shared_secret"`
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"service_name" mapstructure:"service_name"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: llm.ProviderOpenAI,
			Timeout:  llm.DefaultTimeout,
		},
		Memory: MemoryConfig{
			MaxTurns: 10,
		},
		Agent: AgentConfig{
			FormatResponse:  true,
			ShowFullDetails: false,
		},
		Tools: ToolsConfig{
			Interactive: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
		Gateway: GatewayConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "agentbuilder",
		},
	}
}

// LLMOptions converts the LLM section into provider options.
func (c *Config) LLMOptions(logger zerolog.Logger) llm.Config {
	return llm.Config{
		Provider:   c.LLM.Provider,
		Model:      c.LLM.Model,
		BaseURL:    c.LLM.BaseURL,
		APIKey:     c.LLM.APIKey,
		Models:     c.LLM.Models,
		Timeout:    c.LLM.Timeout,
		MaxTokens:  c.LLM.MaxTokens,
		IncludeRaw: c.LLM.IncludeRaw,
		Logger:     logger,
	}
}

// String returns a JSON representation of the config with secrets masked
func (c *Config) String() string {
	masked := *c
	if masked.LLM.APIKey != "" {
		masked.LLM.APIKey = "***"
	}
	if masked.Gateway.SharedSecret != "" {
		masked.Gateway.SharedSecret = "***"
	}
	data, _ := json.MarshalIndent(masked, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := NewValidator()
	if errs := v.ValidateConfig(c); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/harun/agentbuilder/pkg/llm"
)

// EnvPrefix is the prefix for environment overrides, e.g. AGENTBUILDER_LLM_PROVIDER.
const EnvPrefix = "AGENTBUILDER"

// providerKeyEnv maps providers to the conventional API key variable.
var providerKeyEnv = map[string]string{
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnaconda:  "ANACONDA_API_KEY",
}

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load reads defaults, then the config file if present, then the environment.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names used by the chat launcher.
	_ = v.BindEnv("llm.provider", EnvPrefix+"_LLM_PROVIDER", "LLM_PROVIDER")
	_ = v.BindEnv("llm.model", EnvPrefix+"_LLM_MODEL", "LLM_MODEL")

	// A missing file means defaults plus environment.
	if configPath := l.GetConfigPath(); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		if name, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}
	if len(cfg.LLM.Models) == 0 && cfg.LLM.Provider == llm.ProviderAnthropic {
		cfg.LLM.Models = splitList(os.Getenv("ANTHROPIC_MODELS"))
	}

	return cfg, nil
}

// Save writes the configuration to file
func (l *Loader) Save(cfg *Config) error {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to get home directory")
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.Set("llm", cfg.LLM)
	v.Set("memory", cfg.Memory)
	v.Set("agent", cfg.Agent)
	v.Set("tools", cfg.Tools)
	v.Set("logging", cfg.Logging)
	v.Set("gateway", cfg.Gateway)
	v.Set("tracing", cfg.Tracing)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentbuilder", "agentbuilder.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}

// setDefaults registers every key so AutomaticEnv can override it on Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.models", d.LLM.Models)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.include_raw", d.LLM.IncludeRaw)

	v.SetDefault("memory.max_turns", d.Memory.MaxTurns)

	v.SetDefault("agent.prompt_template", d.Agent.PromptTemplate)
	v.SetDefault("agent.known_tools", d.Agent.KnownTools)
	v.SetDefault("agent.format_response", d.Agent.FormatResponse)
	v.SetDefault("agent.show_full_details", d.Agent.ShowFullDetails)

	v.SetDefault("tools.interactive", d.Tools.Interactive)
	v.SetDefault("tools.token_gate", d.Tools.TokenGate)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.pretty", d.Logging.Pretty)
	v.SetDefault("logging.redaction", d.Logging.Redaction)

	v.SetDefault("gateway.port", d.Gateway.Port)
	v.SetDefault("gateway.host", d.Gateway.Host)
	v.SetDefault("gateway.shared_secret", d.Gateway.SharedSecret)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// UseProvider switches the LLM section to provider. Settings tied to the
// previous provider are cleared and the key is re-read from the environment.
func (c *Config) UseProvider(provider string) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == c.LLM.Provider {
		return
	}

	c.LLM.Provider = provider
	c.LLM.Model = ""
	c.LLM.BaseURL = ""
	c.LLM.APIKey = ""
	c.LLM.Models = nil
	if name, ok := providerKeyEnv[provider]; ok {
		c.LLM.APIKey = os.Getenv(name)
	}
	if provider == llm.ProviderAnthropic {
		c.LLM.Models = splitList(os.Getenv("ANTHROPIC_MODELS"))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

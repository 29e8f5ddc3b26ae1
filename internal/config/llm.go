package config

import (
	"fmt"
	"slices"
	"time"
)

// LLMConfig configures the generative model client.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"` // optional endpoint override
	Timeout  string `yaml:"timeout"`  // empty = no client-side timeout

	// DangerousContentThreshold is the block threshold for HARM_CATEGORY_DANGEROUS_CONTENT.
	// Other harm categories use service defaults.
	DangerousContentThreshold string `yaml:"dangerous_content_threshold"`
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"gemini"}

// ValidThresholds lists the harm block thresholds the service accepts.
var ValidThresholds = []string{
	"BLOCK_LOW_AND_ABOVE",
	"BLOCK_MEDIUM_AND_ABOVE",
	"BLOCK_ONLY_HIGH",
	"BLOCK_NONE",
	"OFF",
}

// GetTimeout returns the per-call timeout, or 0 when none is configured.
func (l LLMConfig) GetTimeout() time.Duration {
	if l.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate validates the LLM section.
func (l LLMConfig) Validate() error {
	if l.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set GEMINI_API_KEY or GOOGLE_API_KEY, or pass --api-key)")
	}
	if !slices.Contains(ValidProviders, l.Provider) {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", l.Provider, ValidProviders)
	}
	if l.Model == "" {
		return fmt.Errorf("LLM model not configured")
	}
	if !slices.Contains(ValidThresholds, l.DangerousContentThreshold) {
		return fmt.Errorf("invalid llm.dangerous_content_threshold: %s (valid: %v)", l.DangerousContentThreshold, ValidThresholds)
	}
	if l.Timeout != "" {
		if d, err := time.ParseDuration(l.Timeout); err != nil || d < 0 {
			return fmt.Errorf("invalid llm.timeout %q", l.Timeout)
		}
	}
	return nil
}

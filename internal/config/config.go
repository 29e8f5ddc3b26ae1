package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DirName is the per-vault directory holding config, logs and history.
const DirName = ".aimemo"

// Config holds all aimemo configuration.
type Config struct {
	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Vault layout and missing-file handling
	Vault VaultConfig `yaml:"vault"`

	// Run history database
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Operator output
	UX UXConfig `yaml:"ux"`
}

// VaultConfig configures where notes live and how missing notes are handled.
type VaultConfig struct {
	// Root directory of the vault (default: current working directory)
	Root string `yaml:"root"`

	// CreateMissing is one of ask, always, never
	CreateMissing string `yaml:"create_missing"`

	// LabelPolicy is one of literal, canonical, known
	LabelPolicy string `yaml:"label_policy"`
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"` // relative paths are resolved against the vault root
}

// UXConfig configures operator-facing output.
type UXConfig struct {
	Color   bool `yaml:"color"`
	Preview bool `yaml:"preview"` // render the updated note after a merge
}

// Missing-file modes.
const (
	CreateAsk    = "ask"
	CreateAlways = "always"
	CreateNever  = "never"
)

// ValidCreateModes lists accepted vault.create_missing values.
var ValidCreateModes = []string{CreateAsk, CreateAlways, CreateNever}

// ValidLabelPolicies mirrors taxonomy.ValidPolicies without importing it.
var ValidLabelPolicies = []string{"literal", "canonical", "known"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:                  "gemini",
			Model:                     "gemini-2.0-flash",
			DangerousContentThreshold: "BLOCK_ONLY_HIGH",
		},

		Vault: VaultConfig{
			CreateMissing: CreateAsk,
			LabelPolicy:   "literal",
		},

		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(DirName, "history.db"),
		},

		Logging: LoggingConfig{
			Level:      "info",
			File:       filepath.Join(DirName, "logs", "aimemo.log"),
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},

		UX: UXConfig{
			Color: true,
		},
	}
}

// DefaultPath returns the config file location for a vault root.
func DefaultPath(vaultRoot string) string {
	return filepath.Join(vaultRoot, DirName, "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// GEMINI_API_KEY wins over GOOGLE_API_KEY, matching the genai SDK
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("AIMEMO_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if root := os.Getenv("AIMEMO_VAULT"); root != "" {
		c.Vault.Root = root
	}
	if mode := os.Getenv("AIMEMO_CREATE_MISSING"); mode != "" {
		c.Vault.CreateMissing = mode
	}

	if path := os.Getenv("AIMEMO_DB"); path != "" {
		c.History.DatabasePath = path
	}
}

// ResolvePath resolves a possibly relative config path against the vault root.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Vault.Root, p)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}

	if !slices.Contains(ValidCreateModes, c.Vault.CreateMissing) {
		return fmt.Errorf("invalid vault.create_missing: %s (valid: %v)", c.Vault.CreateMissing, ValidCreateModes)
	}
	if !slices.Contains(ValidLabelPolicies, c.Vault.LabelPolicy) {
		return fmt.Errorf("invalid vault.label_policy: %s (valid: %v)", c.Vault.LabelPolicy, ValidLabelPolicies)
	}

	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history enabled but history.database_path is empty")
	}

	return nil
}

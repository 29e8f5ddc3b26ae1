package config

// LoggingConfig configures the categorized file log.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no file logging
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
	File       string          `yaml:"file"`       // relative paths are resolved against the vault root

	// Rotation
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("expected Provider=gemini, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.DangerousContentThreshold != "BLOCK_ONLY_HIGH" {
		t.Errorf("expected BLOCK_ONLY_HIGH, got %s", cfg.LLM.DangerousContentThreshold)
	}
	if cfg.Vault.CreateMissing != CreateAsk {
		t.Errorf("expected CreateMissing=ask, got %s", cfg.Vault.CreateMissing)
	}
	if cfg.Logging.DebugMode {
		t.Error("file logging should be off by default")
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	tmpDir := t.TempDir()
	path := DefaultPath(tmpDir)

	cfg := DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Model = "gemini-2.5-flash"
	cfg.Vault.LabelPolicy = "canonical"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLM.APIKey != "test-key" {
		t.Errorf("expected APIKey=test-key, got %s", loaded.LLM.APIKey)
	}
	if loaded.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("expected Model=gemini-2.5-flash, got %s", loaded.LLM.Model)
	}
	if loaded.Vault.LabelPolicy != "canonical" {
		t.Errorf("expected LabelPolicy=canonical, got %s", loaded.Vault.LabelPolicy)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != DefaultConfig().LLM.Model {
		t.Errorf("expected default model, got %s", cfg.LLM.Model)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("llm: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing API key")
	}

	cfg.LLM.APIKey = "test-key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}

	cfg.LLM.Provider = "openai"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid provider")
	}
	cfg.LLM.Provider = "gemini"

	cfg.LLM.DangerousContentThreshold = "BLOCK_SOMETIMES"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid threshold")
	}
	cfg.LLM.DangerousContentThreshold = "BLOCK_ONLY_HIGH"

	cfg.Vault.CreateMissing = "maybe"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid create_missing")
	}
	cfg.Vault.CreateMissing = CreateNever

	cfg.Vault.LabelPolicy = "strict"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid label_policy")
	}
	cfg.Vault.LabelPolicy = "known"

	cfg.LLM.Timeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unparsable timeout")
	}
}

func TestLLMConfig_GetTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"30s", 30 * time.Second},
		{"garbage", 0},
		{"-5s", 0},
	}
	for _, tt := range tests {
		if got := (LLMConfig{Timeout: tt.in}).GetTimeout(); got != tt.want {
			t.Errorf("GetTimeout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_ResolvePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vault.Root = "/vault"

	if got := cfg.ResolvePath(".aimemo/history.db"); got != filepath.Join("/vault", ".aimemo", "history.db") {
		t.Errorf("unexpected relative resolution: %s", got)
	}
	if got := cfg.ResolvePath("/tmp/h.db"); got != "/tmp/h.db" {
		t.Errorf("absolute path should be kept, got %s", got)
	}
	if got := cfg.ResolvePath(""); got != "" {
		t.Errorf("empty path should stay empty, got %s", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("api") {
		t.Error("categories must be disabled without debug_mode")
	}

	lc.DebugMode = true
	if !lc.IsCategoryEnabled("api") {
		t.Error("all categories enabled when no filter is set")
	}

	lc.Categories = map[string]bool{"api": false}
	if lc.IsCategoryEnabled("api") {
		t.Error("api explicitly disabled")
	}
	if !lc.IsCategoryEnabled("vault") {
		t.Error("unlisted category defaults to enabled")
	}
}

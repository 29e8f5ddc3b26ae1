// Package logging provides config-driven categorized file logging for aimemo.
// Logs are written to a single rotating file under .aimemo/logs/, tagged by category.
// File logging is controlled by logging.debug_mode - when false, no logs are written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aimemo/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config resolution
	CategoryAPI      Category = "api"      // Model API calls, prompts and raw responses
	CategoryClassify Category = "classify" // Classification decisions
	CategoryVault    Category = "vault"    // Note lookup, creation, writes
	CategoryMerge    Category = "merge"    // Content merge calls
	CategoryStore    Category = "store"    // Run history database
)

// Logger writes messages for a single category. A Logger with a nil sugar is a no-op.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	settings config.LoggingConfig
	base     *zap.Logger
	rotator  *lumberjack.Logger
	stateMu  sync.RWMutex

	// console receives debug messages of every category; its own level filters them.
	console   *zap.SugaredLogger
	consoleMu sync.RWMutex
)

// AttachConsole mirrors category debug messages to l, independent of debug_mode.
// Passing nil detaches it.
func AttachConsole(l *zap.Logger) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	if l == nil {
		console = nil
		return
	}
	console = l.Sugar()
}

// Initialize sets up the rotating log file at path.
// Should be called once at startup; it is a silent no-op unless cfg.DebugMode is set.
func Initialize(cfg config.LoggingConfig, path string) error {
	CloseAll()

	stateMu.Lock()
	settings = cfg
	if !cfg.DebugMode {
		stateMu.Unlock()
		return nil
	}
	if path == "" {
		stateMu.Unlock()
		return fmt.Errorf("log file path required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		stateMu.Unlock()
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		level,
	)
	base = zap.New(core)
	stateMu.Unlock()

	boot := Get(CategoryBoot)
	boot.Info("=== aimemo logging initialized ===")
	boot.Info("Log file: %s", path)
	boot.Info("Log level: %s", level)
	return nil
}

// IsDebugMode returns whether file logging is enabled
func IsDebugMode() bool {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return settings.DebugMode
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or the category is disabled.
func Get(category Category) *Logger {
	stateMu.RLock()
	enabled := base != nil && settings.IsCategoryEnabled(string(category))
	root := base
	stateMu.RUnlock()

	if !enabled {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		sugar:    root.With(zap.String("category", string(category))).Sugar(),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	consoleMu.RLock()
	c := console
	consoleMu.RUnlock()
	if c != nil {
		c.With("category", string(l.category)).Debugf(format, args...)
	}

	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// With returns a logger carrying extra structured fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll flushes and closes the log file.
func CloseAll() {
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()

	stateMu.Lock()
	defer stateMu.Unlock()
	if base != nil {
		_ = base.Sync()
		base = nil
	}
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// API logs to the api category
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

// APIDebug logs debug to the api category
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

// Classify logs to the classify category
func Classify(format string, args ...interface{}) {
	Get(CategoryClassify).Info(format, args...)
}

// ClassifyDebug logs debug to the classify category
func ClassifyDebug(format string, args ...interface{}) {
	Get(CategoryClassify).Debug(format, args...)
}

// Vault logs to the vault category
func Vault(format string, args ...interface{}) {
	Get(CategoryVault).Info(format, args...)
}

// VaultDebug logs debug to the vault category
func VaultDebug(format string, args ...interface{}) {
	Get(CategoryVault).Debug(format, args...)
}

// Merge logs to the merge category
func Merge(format string, args ...interface{}) {
	Get(CategoryMerge).Info(format, args...)
}

// MergeDebug logs debug to the merge category
func MergeDebug(format string, args ...interface{}) {
	Get(CategoryMerge).Debug(format, args...)
}

// Store logs to the store category
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// =============================================================================
// TIMING
// =============================================================================

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer starts a timer for an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

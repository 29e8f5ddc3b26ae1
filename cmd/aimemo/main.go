package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aimemo/internal/config"
	"aimemo/internal/logging"
	"aimemo/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	vaultDir   string
	configPath string
	apiKey     string
	model      string
	timeout    time.Duration

	// Run flags
	assumeYes   bool
	noCreate    bool
	labelPolicy string
	preview     bool
	noHistory   bool

	// Set up in PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// rootCmd classifies a memo and files it into the vault.
var rootCmd = &cobra.Command{
	Use:   "aimemo [memo]",
	Short: "Classify a vulnerability memo and file it into a Markdown vault",
	Long: `aimemo asks Gemini which vulnerability category a memo belongs to and
appends the memo as a bullet to <vault>/<Category>/Summary.md (under "## Memo")
and <vault>/<Category>/Diagnosis.md (under "## How to diagnose").

Missing notes are created empty after confirmation; they are filled on the next run.

Exit codes:
  0  success (including skipped or newly created notes)
  1  usage or configuration error
  2  classification failed
  3  a note could not be read
  4  the model returned no updated note
  5  a note could not be written`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewConsole(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		// --verbose shows prompts and raw model responses on stderr.
		logging.AttachConsole(logger)

		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logPath := cfg.ResolvePath(cfg.Logging.File)
		if err := logging.Initialize(cfg.Logging, logPath); err != nil {
			logger.Warn("File logging disabled", zap.Error(err))
		}
		logging.Boot("aimemo %s started (vault=%s)", cmd.Name(), cfg.Vault.Root)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		logging.AttachConsole(nil)
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runMemo,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&vaultDir, "vault", "V", "", "Vault directory (default: current, or AIMEMO_VAULT)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <vault>/.aimemo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY / GOOGLE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Gemini model name")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: none)")

	// Run flags
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Create missing notes without asking")
	rootCmd.Flags().BoolVar(&noCreate, "no-create", false, "Never create missing notes")
	rootCmd.Flags().StringVar(&labelPolicy, "label-policy", "", "Label policy: literal, canonical or known")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "Render updated notes after writing")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	rootCmd.MarkFlagsMutuallyExclusive("yes", "no-create")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return pipeline.ExitUsage
	}
	return pipeline.ExitOK
}

// resolveRoot picks the vault root from --vault, AIMEMO_VAULT or the working directory.
func resolveRoot() (string, error) {
	if vaultDir != "" {
		return filepath.Abs(vaultDir)
	}
	if env := os.Getenv("AIMEMO_VAULT"); env != "" {
		return filepath.Abs(env)
	}
	return os.Getwd()
}

// loadConfig loads the vault's config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault: %w", err)
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(root)
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if vaultDir != "" || c.Vault.Root == "" {
		c.Vault.Root = root
	}
	if apiKey != "" {
		c.LLM.APIKey = apiKey
	}
	if model != "" {
		c.LLM.Model = model
	}
	if timeout > 0 {
		c.LLM.Timeout = timeout.String()
	}
	return c, nil
}

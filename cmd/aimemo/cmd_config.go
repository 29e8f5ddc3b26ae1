package main

import (
	"fmt"
	"os"

	"aimemo/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

// configCmd groups config file commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the vault configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file into the vault",
	Args:  cobra.NoArgs,
	RunE:  initConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  showConfig,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func targetConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath(cfg.Vault.Root)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := targetConfigPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// The API key stays in the environment, not on disk.
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	shown := *cfg
	shown.LLM.APIKey = maskKey(shown.LLM.APIKey)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", targetConfigPath(), data)
	return nil
}

func maskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "****"
	default:
		return key[:4] + "****" + key[len(key)-4:]
	}
}

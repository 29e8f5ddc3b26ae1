package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"aimemo/internal/store"
	"aimemo/internal/taxonomy"
	"aimemo/internal/ux"
	"aimemo/internal/vault"

	"github.com/spf13/cobra"
)

// categoriesCmd shows the taxonomy and which categories have notes.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List vulnerability categories and their notes in the vault",
	Args:  cobra.NoArgs,
	RunE:  listCategories,
}

func listCategories(cmd *cobra.Command, args []string) error {
	root := cfg.Vault.Root
	counts := runCounts(cmd)

	var rows []ux.CategoryRow
	for _, name := range taxonomy.Categories {
		rows = append(rows, categoryRow(root, name, counts[name]))
	}

	// Labels the model produced outside the list still live in the vault.
	extra, err := extraLabels(root)
	if err != nil {
		return err
	}
	for _, name := range extra {
		rows = append(rows, categoryRow(root, name, counts[name]))
	}

	fmt.Fprint(cmd.OutOrStdout(), ux.RenderCategories(rows))
	return nil
}

func categoryRow(root, name string, runs int) ux.CategoryRow {
	paths := vault.Locate(root, name)
	return ux.CategoryRow{
		Name:      name,
		Summary:   fileExists(paths.Summary),
		Diagnosis: fileExists(paths.Diagnosis),
		Runs:      runs,
	}
}

// runCounts returns per-label run counts, or nil when there is no history.
func runCounts(cmd *cobra.Command) map[string]int {
	dbPath := cfg.ResolvePath(cfg.History.DatabasePath)
	if !fileExists(dbPath) {
		return nil
	}
	st, err := store.NewLocalStore(dbPath)
	if err != nil {
		return nil
	}
	defer st.Close()
	counts, err := st.LabelCounts(cmd.Context())
	if err != nil {
		return nil
	}
	return counts
}

// extraLabels lists vault directories holding notes whose names are not known categories.
func extraLabels(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	known := make(map[string]bool, len(taxonomy.Categories))
	for _, c := range taxonomy.Categories {
		known[c] = true
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || known[name] || strings.HasPrefix(name, ".") {
			continue
		}
		paths := vault.Locate(root, name)
		if fileExists(paths.Summary) || fileExists(paths.Diagnosis) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
)

var listFormatFlag string

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog templates with their modes and holes",
	Long: `List every template in the configured catalogs together with its
binding mode (name or index), hole count, and parse status.

Examples:
  mtempl list                     # Table output
  mtempl list --format json       # JSON output
  mtempl list --format yaml       # YAML output`,
	RunE: runListCommand,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addCatalogFlags(listCmd)
	addOutputFormatFlag(listCmd, &listFormatFlag, "table", "json", "yaml")
}

// listEntry is one row of list output.
type listEntry struct {
	Name  string `json:"name" yaml:"name"`
	Raw   string `json:"raw" yaml:"raw"`
	Mode  string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Holes int    `json:"holes" yaml:"holes"`
	Valid bool   `json:"valid" yaml:"valid"`
	File  string `json:"file" yaml:"file"`
}

func runListCommand(cmd *cobra.Command, args []string) error {
	if err := validateFormat(listFormatFlag, []string{"table", "json", "yaml"}); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := cache.NewStore()
	cat, err := catalog.LoadPaths(cfg.Catalog.Paths, cfg.Catalog.ExcludePatterns, store)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, cat.Len())
	for _, e := range cat.Entries() {
		row := listEntry{Name: e.Name, Raw: e.Raw, Valid: e.Valid(), File: e.File}
		if e.Valid() {
			row.Mode = e.Template.Mode().String()
			row.Holes = len(e.Template.Properties())
		}
		entries = append(entries, row)
	}

	switch listFormatFlag {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(entries)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODE\tHOLES\tVALID\tTEMPLATE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\n", e.Name, e.Mode, e.Holes, e.Valid, e.Raw)
		}
		return w.Flush()
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/mtempl/internal/cache"
	"github.com/conneroisu/mtempl/internal/catalog"
	"github.com/conneroisu/mtempl/internal/config"
)

var validateFormatFlag string

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate template catalogs for grammar errors",
	Long: `Validate message-template catalogs for grammar violations including:

- Unterminated holes and braces inside hole bodies
- Empty designators, alignments, or formats
- Mixed named and indexed holes in one template
- Duplicate property names
- Trailing characters inside a hole

Paths may be catalog files or directories; without arguments the configured
catalog paths are validated.

Examples:
  mtempl validate                      # Validate configured catalog paths
  mtempl validate templates/app.yml    # Validate one catalog file
  mtempl validate --format json        # Output results as JSON`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addCatalogFlags(validateCmd)
	addOutputFormatFlag(validateCmd, &validateFormatFlag, "text", "json", "yaml")
}

// ValidationResult reports one catalog entry's outcome.
type ValidationResult struct {
	Name       string `json:"name" yaml:"name"`
	File       string `json:"file" yaml:"file"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// ValidationSummary aggregates results across all validated catalogs.
type ValidationSummary struct {
	Total   int                `json:"total" yaml:"total"`
	Valid   int                `json:"valid" yaml:"valid"`
	Invalid int                `json:"invalid" yaml:"invalid"`
	Results []ValidationResult `json:"results" yaml:"results"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	if err := validateFormat(validateFormatFlag, []string{"text", "json", "yaml"}); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Catalog.Paths
	}

	store := cache.NewStore()
	cat, err := catalog.LoadPaths(paths, cfg.Catalog.ExcludePatterns, store)
	if err != nil {
		return err
	}

	summary := ValidationSummary{Total: cat.Len()}
	for _, entry := range cat.Entries() {
		result := ValidationResult{Name: entry.Name, File: entry.File, Valid: entry.Valid()}
		if entry.Valid() {
			summary.Valid++
		} else {
			summary.Invalid++
			result.Error = entry.Err.Error()
			result.Suggestion = entry.Err.Suggestion()
		}
		summary.Results = append(summary.Results, result)
	}

	if err := printSummary(summary, validateFormatFlag); err != nil {
		return err
	}
	if summary.Invalid > 0 {
		return fmt.Errorf("%d of %d templates failed validation", summary.Invalid, summary.Total)
	}
	return nil
}

func printSummary(summary ValidationSummary, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(summary)
	default:
		for _, result := range summary.Results {
			if result.Valid {
				fmt.Printf("✓ %s (%s)\n", result.Name, result.File)
				continue
			}
			fmt.Printf("✗ %s (%s)\n    %s\n", result.Name, result.File, result.Error)
			if result.Suggestion != "" {
				fmt.Printf("    hint: %s\n", result.Suggestion)
			}
		}
		fmt.Printf("%d templates, %d valid, %d invalid\n", summary.Total, summary.Valid, summary.Invalid)
		return nil
	}
}

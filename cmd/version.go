package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/mtempl/internal/version"
)

var versionFormat string

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for mtempl including the semantic version,
git commit hash, Go version, and target platform.

Examples:
  mtempl version               # Show version summary
  mtempl version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "output format (text, json)")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()
	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "text":
		fmt.Println(info.String())
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected text or json)", versionFormat)
	}
}

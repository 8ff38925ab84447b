package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addCatalogFlags registers the catalog-path flags shared by validate,
// list, watch, and serve, binding them into viper under catalog.*.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("path", nil, "catalog files or directories to load")
	cmd.Flags().StringSlice("exclude", nil, "catalog file name patterns to skip")
	bindFlag(cmd.Flags(), "catalog.paths", "path")
	bindFlag(cmd.Flags(), "catalog.exclude_patterns", "exclude")
}

// addOutputFormatFlag registers the shared --format flag.
func addOutputFormatFlag(cmd *cobra.Command, target *string, allowed ...string) {
	cmd.Flags().StringVarP(target, "format", "f", allowed[0],
		fmt.Sprintf("output format %v", allowed))
}

// validateFormat checks a --format value against its allowed set.
func validateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (expected one of %v)", format, allowed)
}

func bindFlag(flags *pflag.FlagSet, key, name string) {
	if flag := flags.Lookup(name); flag != nil {
		_ = viper.BindPFlag(key, flag)
	}
}

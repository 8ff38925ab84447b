// Package cmd provides the command-line interface for mtempl with
// configuration from flags, environment variables, and config files.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. MTEMPL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (MTEMPL_SERVER_PORT, etc.)
//	4. Configuration files (.mtempl.yml) - lowest priority
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mtempl",
	Short: "A message-template engine and catalog toolkit",
	Long: `mtempl parses, validates, and renders message templates: strings with
named or indexed holes such as "User {username} from {ip}" or "{1} before {0}".

Key Features:
  • Template grammar validation with actionable errors
  • Catalog files mapping event names to templates
  • Rendering with alignment, format specifiers, and locale-aware numbers
  • Captured-event JSON for structured sinks
  • Watch mode and a websocket-backed playground server

Quick Start:
  mtempl render 'Hi {name}' alice       Render a template inline
  mtempl validate templates/            Validate every catalog under a path
  mtempl list --format yaml             List catalog templates
  mtempl serve                          Start the playground server`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .mtempl.yml, can also use MTEMPL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Loading priority (highest to lowest):
//  1. --config flag: explicitly specified config file path
//  2. MTEMPL_CONFIG_FILE environment variable
//  3. Default: .mtempl.yml in the current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("MTEMPL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".mtempl")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("MTEMPL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Missing config files are fine; everything has defaults.
	_ = viper.ReadInConfig()
}

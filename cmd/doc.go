// Package cmd provides the command-line interface for mtempl.
//
// This package implements all CLI commands using the Cobra framework,
// covering template validation, rendering, and the playground server.
//
// # Available Commands
//
//   - render: Parse a template, bind arguments, and print the result
//   - validate: Check every template in the configured catalogs
//   - list: List catalog templates with their mode and hole count
//   - watch: Revalidate catalogs whenever their files change
//   - serve: Start the playground server with live catalog reload
//   - version: Print build metadata
//
// # Command Examples
//
//	// Render an inline template with positional arguments
//	mtempl render "User {username} logged in from {ip}" alice 10.0.0.1
//
//	// Render a catalog template by name, with a German locale
//	mtempl render --name user-login --locale de alice 10.0.0.1
//
//	// Validate all catalogs, with JSON output
//	mtempl validate --path ./templates --format json
//
//	// List templates as a table
//	mtempl list --path ./templates
//
//	// Watch catalogs and revalidate on change
//	mtempl watch --debounce 300ms
//
//	// Start the playground server
//	mtempl serve --port 8620
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (MTEMPL_*)
//  3. Configuration file (.mtempl.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Grammar errors are reported with the raw template, byte offset, and a
// suggestion where one applies. Validation failures exit nonzero so the
// commands compose with CI pipelines.
//
// For detailed usage of individual commands, see their respective documentation.
package cmd

// Package internal contains the core implementation packages for mtempl.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the mtempl CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - template: the parsed template model (elements, designators, operators)
//   - scanner: raw template lexing with brace-escape resolution
//   - parser: hole grammar parsing and mode validation
//   - cache: canonical template memoization with parse-event broadcasting
//   - capture: argument binding into immutable captured events
//   - render: text rendering with alignment and formatter delegation
//   - format: locale-aware default format-specifier interpretation
//   - catalog: YAML catalogs of named templates
//   - errors: grammar errors, suggestions, and validation collection
//   - config: configuration management with validation
//   - logging: structured logging on log/slog
//   - watcher: catalog file monitoring with debouncing
//   - server: playground HTTP server and WebSocket reload notifications
//   - version: build metadata
//
// # Data Flow
//
// A raw template string flows scanner -> parser -> cache, producing the
// canonical Template for that string. The capture package pairs a Template
// with an argument list into an immutable event, and the render package
// turns events into text any number of times. The catalog, watcher, and
// server packages wrap that pipeline for files on disk and the playground.
//
// For detailed documentation, see the individual package documentation.
package internal

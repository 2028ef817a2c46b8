// Package cmd implements the command-line interface for the pKV embedded
// keystore. It provides a hierarchical command structure for managing store
// files, tables and entries from the shell.
//
// The package is organized into several subpackages:
//
//   - db: Commands operating on the store file as a whole (create, info, tables, prune)
//   - table: Commands for managing table schemas (create, drop)
//   - entry: Commands for entry operations (insert, get, query, delete, etc.)
//   - perf: A performance measurement tool for the embedded store
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See pkv -help for a list of all commands.
package cmd

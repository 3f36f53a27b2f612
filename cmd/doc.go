// Package cmd implements the command-line interface for drivecheck.
//
// This package provides the following commands:
//   - check: Run the Google Drive credential diagnostic
//   - version: Display version information
//
// The check command is the default command when no subcommand is specified.
package cmd

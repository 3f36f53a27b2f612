// Package logging provides structured logging utilities for drivecheck.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithProbe(slog.Default(), "Basic Operations")
//	logger.Debug("drive api call",
//	    logging.Service("drive"),
//	    logging.Operation("list"),
//	    logging.Status("success"))
//
// # Security Considerations
//
//   - OAuth tokens and client secrets are never logged directly; use SanitizeToken
//   - The Drive account email is logged only as UserHash
package logging

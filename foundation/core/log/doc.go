// Package log provides structured logging for Euler.
//
// Package: log
// Title: Euler Structured Logging
// Description: Leveled, structured logging with JSON, text, console and
//              logfmt output. Loggers are immutable: With* methods return a
//              copy carrying the additional context.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-16 v0.2.0: Severity based LogError for coded errors
//
// Usage:
//
//	import eulerlog "github.com/msto63/euler/foundation/core/log"
//
//	logger := eulerlog.NewWithConfig(eulerlog.Config{
//		Level:  eulerlog.LevelInfo,
//		Format: eulerlog.FormatText,
//		Name:   "euler",
//	})
//	logger.Info("calculated", eulerlog.String("mode", "basic"))
package log

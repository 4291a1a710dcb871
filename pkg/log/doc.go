// Package log provides structured protocol logging for the MPD client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events: commands, responses, notifications, phase changes
// and errors. It is separate from operational logging (slog) - protocol
// capture provides a complete machine-readable event trace for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/mpd-go/client.mlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Each event carries exactly one payload matching its category:
//   - Command: an outbound command or command list (CommandEvent)
//   - Response: an inbound response with frame/field counts (ResponseEvent)
//   - Notification: changed subsystems received while idling (NotificationEvent)
//   - Phase: a client engine phase transition (PhaseChangeEvent)
//   - Error: a connection-level failure (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with .mlog extension. Reader provides
// streaming access with optional filtering.
package log

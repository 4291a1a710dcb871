package log

import (
	"context"
	"log/slog"
	"strings"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	// Add type-specific attributes
	switch {
	case event.Command != nil:
		attrs = append(attrs, slog.String("command", event.Command.Command))
		if event.Command.ListLen > 0 {
			attrs = append(attrs, slog.Int("list_len", event.Command.ListLen))
		}
	case event.Response != nil:
		attrs = append(attrs, slog.Int("frames", event.Response.Frames))
		if event.Response.Fields > 0 {
			attrs = append(attrs, slog.Int("fields", event.Response.Fields))
		}
		if event.Response.BinaryBytes > 0 {
			attrs = append(attrs, slog.Int("binary_bytes", event.Response.BinaryBytes))
		}
		if event.Response.CommandError != "" {
			attrs = append(attrs, slog.String("command_error", event.Response.CommandError))
		}
	case event.Notification != nil:
		attrs = append(attrs, slog.String("subsystems", strings.Join(event.Notification.Subsystems, ",")))
	case event.PhaseChange != nil:
		attrs = append(attrs,
			slog.String("old_phase", event.PhaseChange.OldPhase),
			slog.String("new_phase", event.PhaseChange.NewPhase),
		)
		if event.PhaseChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.PhaseChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

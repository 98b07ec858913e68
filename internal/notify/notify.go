// Package notify is the terminal's stand-in for the toast layer: transient,
// dismissible messages that never block the rest of the interface. State
// transitions return event descriptors and this package renders them, which
// keeps the cart store free of UI side effects.
package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/swiftretail/pos-terminal/internal/cart"
)

// Notifier renders transient user-facing notifications. Implementations
// must be non-blocking; callers fire and forget.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Dispatch maps a cart event to its notification: adds flash success,
// removals flash error, everything else stays quiet.
func Dispatch(n Notifier, ev cart.Event) {
	switch ev.Kind {
	case cart.EventItemAdded:
		n.Success("Added to cart")
	case cart.EventItemRemoved:
		n.Error("Removed from cart")
	}
}

// Log is a slog-backed Notifier used for headless runs and as a fallback
// when no interactive renderer is attached.
type Log struct {
	Logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{Logger: logger}
}

func (l *Log) Success(message string) {
	l.Logger.Info("notification", slog.String("kind", "success"), slog.String("message", message))
}

func (l *Log) Error(message string) {
	l.Logger.Warn("notification", slog.String("kind", "error"), slog.String("message", message))
}

// Console writes notifications to the terminal as toast-style lines.
type Console struct {
	Out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) Success(message string) {
	fmt.Fprintf(c.Out, "✅ %s\n", message)
}

func (c *Console) Error(message string) {
	fmt.Fprintf(c.Out, "❌ %s\n", message)
}

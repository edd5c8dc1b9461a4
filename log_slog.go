package syncpool

import (
	"log/slog"

	"github.com/joeycumines/logiface"
	slogiface "github.com/joeycumines/logiface-slog"
)

// NewSlogLogger builds a *logiface.Logger[logiface.Event] backed by the
// standard library's log/slog, suitable for WithLogger. It exists so
// callers who just want "log to slog" don't need to learn logiface-slog's
// own constructor shape first.
func NewSlogLogger(handler slog.Handler, opts ...slogiface.Option) *logiface.Logger[logiface.Event] {
	return logiface.New[*slogiface.Event](slogiface.NewLogger(handler, opts...)).Logger()
}

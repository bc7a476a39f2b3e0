package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

type contextKey struct{}

var discardLogger = New(io.Discard)

func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return lo.Ternary(a.Key == slog.TimeKey, slog.Attr{}, a)
		},
	}))
}

// NewContext stores the logger under both our key and logr's, so components
// written against logr resolve the same sink.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, contextKey{}, logger)
	return logr.NewContextWithSlogLogger(ctx, logger)
}

func FromContextOrDiscard(ctx context.Context) *slog.Logger {
	if v, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return v
	}
	return discardLogger
}

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

type ctxKey string

const (
	slogFields  ctxKey = "slog_fields"
	PackageName string = "package"
	RequestID   string = "request_id"
)

type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	err := h.Handler.Handle(ctx, r)
	if err != nil {
		return fmt.Errorf("error handling record for a log: %+v: %w", r, err)
	}

	return nil
}

// WithAttrs keeps the context lookup on derived loggers.
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be included in any Record created with such context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// Copy so sibling contexts never share a backing array.
		next := make([]slog.Attr, len(v), len(v)+1)
		copy(next, v)

		return context.WithValue(parent, slogFields, append(next, attr))
	}

	v := []slog.Attr{attr}

	return context.WithValue(parent, slogFields, v)
}

func PackageCtx(packageName string) context.Context {
	return WithPackage(context.Background(), packageName)
}

// WithPackage tags every record logged with ctx with the package name.
func WithPackage(parent context.Context, packageName string) context.Context {
	return AppendCtx(parent, slog.String(PackageName, packageName))
}

// WithRequestID tags every record logged with ctx with the request id.
func WithRequestID(parent context.Context, id string) context.Context {
	return AppendCtx(parent, slog.String(RequestID, id))
}

// Attrs returns the attributes stored in ctx.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(slogFields).([]slog.Attr)

	return attrs
}

// NewHandler builds the terminal handler used by the CLI: a charm
// logger wrapped so context attributes reach every record.
func NewHandler(w io.Writer, verbose bool) slog.Handler {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	return ContextHandler{Handler: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})}
}

// Setup installs the CLI handler as the slog default.
func Setup(w io.Writer, verbose bool) {
	slog.SetDefault(slog.New(NewHandler(w, verbose)))
}

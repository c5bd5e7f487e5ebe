package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/dasdy/bankingai/cache"
	"github.com/dasdy/bankingai/db"
	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/query"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

const (
	DefaultWidth       = 1280
	DefaultSearchDelay = 1200 * time.Millisecond
	DefaultPageTTL     = 10 * time.Minute
	recentQueryLimit   = 5
)

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Catalog db.Catalog
	// QueryLog is optional; without it searches are not recorded.
	QueryLog     db.QueryLog
	Filter       *query.Filter
	PageCache    cache.Cache
	PageTTL      time.Duration
	Estimator    layout.Estimator
	DefaultWidth int
	SearchDelay  time.Duration
	Markdown     goldmark.Markdown
}

// NewServerHandler fills the optional parts of a handler with defaults.
func NewServerHandler(catalog db.Catalog, queryLog db.QueryLog) (*ServerHandler, error) {
	filter, err := query.NewFilter()
	if err != nil {
		return nil, err
	}

	return &ServerHandler{
		Catalog:      catalog,
		QueryLog:     queryLog,
		Filter:       filter,
		PageCache:    cache.NewNullCache(),
		PageTTL:      DefaultPageTTL,
		Estimator:    layout.DefaultEstimator(),
		DefaultWidth: DefaultWidth,
		SearchDelay:  DefaultSearchDelay,
		Markdown:     goldmark.New(),
	}, nil
}

// Routes registers every page and API endpoint on r.
func (s *ServerHandler) Routes(r chi.Router) {
	r.Get("/", s.HomeHandle)
	r.Get("/results", s.ResultsHandle)
	r.Get("/results.csv", s.ResultsCSVHandle)
	r.Get("/transaction/{id}", s.TransactionHandle)
	r.Get("/transaction/{id}/export.csv", s.ExportHandle)
	r.Get("/api/transaction/{id}/layout", s.LayoutHandle)
	r.Get("/api/summary/{id}", s.SummaryHandle)
}

// RenderToBytes renders a component into memory.
func RenderToBytes(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer

	if err := component.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("could not render template: %w", err)
	}

	return buf.Bytes(), nil
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
// A failed render results in a 500 without partial output.
func SafeRenderTemplate(ctx context.Context, component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	data, err := RenderToBytes(ctx, component)
	if err != nil {
		writeError(ctx, w, err)

		return err
	}

	return writeHTML(ctx, w, data)
}

func writeHTML(ctx context.Context, w http.ResponseWriter, data []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// StatusForError maps error codes to HTTP statuses.
func StatusForError(err error) int {
	switch errs.GetCode(err) {
	case errs.CodeInvalidArgument, errs.CodeInvalidInput:
		return http.StatusBadRequest
	case errs.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusForError(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "Request failed", "error", err)
	} else {
		slog.WarnContext(ctx, "Rejected request", "status", status, "error", err)
	}

	http.Error(w, errs.UserMessage(err), status)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("could not encode response: %w", err))

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "Failed to write response", "error", err)
	}
}

package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/bankingai/web/components"
	"github.com/dasdy/bankingai/web/routes"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

// Options configure the router around the page handlers.
type Options struct {
	Dev bool
	// RateLimit is the allowed /search requests per second per IP.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// BuildServer wires middleware, assets and every route. The returned
// limiter is nil when rate limiting is off.
func BuildServer(handler *routes.ServerHandler, opts Options) (http.Handler, *RateLimiter) {
	r := chi.NewRouter()
	r.Use(RequestID)

	// Serve the JS bundle and styles.
	r.Handle("/assets/*",
		disableCacheInDevMode(opts.Dev,
			http.StripPrefix("/assets",
				http.FileServerFS(components.Assets()))))

	var limiter *RateLimiter

	search := http.Handler(http.HandlerFunc(handler.SearchHandle))
	if opts.RateLimit > 0 {
		limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
		search = limiter.Middleware(search)
	}

	r.Method(http.MethodPost, "/search", search)

	r.Group(func(r chi.Router) {
		if opts.Dev {
			r.Use(func(next http.Handler) http.Handler {
				return disableCacheInDevMode(true, next)
			})
		}

		handler.Routes(r)
	})

	return r, limiter
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, port int, handler *routes.ServerHandler, opts Options) error {
	h, limiter := BuildServer(handler, opts)

	if limiter != nil {
		go limiter.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "Running interface", "port", port, "dev", opts.Dev)

		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("could not run server: %w", err)
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}

	return nil
}

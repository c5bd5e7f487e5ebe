package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	cs "github.com/dasdy/bankingai/web/components"
)

// SearchHandle accepts the search form, waits the configured thinking
// delay and redirects to the results page.
func (s *ServerHandler) SearchHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := strings.TrimSpace(r.FormValue("q"))
	if q == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)

		return
	}

	slog.InfoContext(ctx, "Handling search", "query", q)

	if s.SearchDelay > 0 {
		timer := time.NewTimer(s.SearchDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			slog.DebugContext(ctx, "Search abandoned by client", "error", ctx.Err())

			return
		}
	}

	if s.QueryLog != nil {
		if err := s.QueryLog.Record(ctx, q, time.Now()); err != nil {
			slog.WarnContext(ctx, "Could not record query", "error", err)
		}
	}

	http.Redirect(w, r, cs.ResultsLink(cs.ResultsParams{Query: q, Reasoning: true}), http.StatusSeeOther)
}

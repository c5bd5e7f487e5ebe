package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dasdy/bankingai/model"
	cs "github.com/dasdy/bankingai/web/components"
)

const recentTimeFormat = "02 Jan 15:04"

// BuildHomeRenderContext builds the render context for the home page.
func (s *ServerHandler) BuildHomeRenderContext(examples []model.ExampleQuery, recent []model.LoggedQuery, prefill string) cs.HomeContext {
	rc := cs.HomeContext{
		Query:    strings.TrimSpace(prefill),
		Examples: make([]cs.ExampleCard, 0, len(examples)),
		Recent:   make([]cs.RecentQuery, 0, len(recent)),
	}

	for _, e := range examples {
		rc.Examples = append(rc.Examples, cs.ExampleCard{
			Text:     e.Text,
			Category: e.Category,
			Icon:     e.Icon,
			Gradient: e.Gradient,
			Link:     cs.HomeLink(e.Text),
		})
	}

	for _, q := range recent {
		rc.Recent = append(rc.Recent, cs.RecentQuery{
			Text: q.Text,
			When: q.At.In(time.Local).Format(recentTimeFormat),
			Link: cs.ResultsLink(cs.ResultsParams{Query: q.Text, Reasoning: true}),
		})
	}

	return rc
}

// HomeHandle handles requests to the home page.
func (s *ServerHandler) HomeHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slog.InfoContext(ctx, "Handling home page request")

	examples, err := s.Catalog.Examples(ctx)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	var recent []model.LoggedQuery

	if s.QueryLog != nil {
		recent, err = s.QueryLog.Recent(ctx, recentQueryLimit)
		if err != nil {
			// The page still works without history.
			slog.WarnContext(ctx, "Could not load recent queries", "error", err)
		}
	}

	rc := s.BuildHomeRenderContext(examples, recent, r.URL.Query().Get("q"))
	_ = SafeRenderTemplate(ctx, cs.Home(&rc), w)
}

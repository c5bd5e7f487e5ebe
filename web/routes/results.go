package routes

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dasdy/bankingai/highlight"
	"github.com/dasdy/bankingai/model"
	"github.com/dasdy/bankingai/query"
	cs "github.com/dasdy/bankingai/web/components"
)

// ParseResultsParams reads the results page state from the URL.
func ParseResultsParams(v url.Values) cs.ResultsParams {
	return cs.ResultsParams{
		Query:     strings.TrimSpace(v.Get("q")),
		Merchant:  strings.TrimSpace(v.Get("merchant")),
		Where:     strings.TrimSpace(v.Get("where")),
		SortBy:    strings.TrimSpace(v.Get("sort")),
		Desc:      v.Get("dir") == "desc",
		Reasoning: v.Get("reasoning") != "closed",
	}
}

func tableParams(p cs.ResultsParams) query.Params {
	return query.Params{Merchant: p.Merchant, Where: p.Where, SortBy: p.SortBy, Desc: p.Desc}
}

// filteredResults loads the result and applies the table filters.
func (s *ServerHandler) filteredResults(ctx context.Context, p cs.ResultsParams) (*model.QueryResult, []model.Transaction, error) {
	result, err := s.Catalog.Results(ctx, p.Query)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.Filter.Apply(result.Transactions, tableParams(p))
	if err != nil {
		return nil, nil, err
	}

	return result, rows, nil
}

// summaries fetches the AI summary of each row. Failures leave the
// summary blank.
func (s *ServerHandler) summaries(ctx context.Context, txns []model.Transaction) map[string]string {
	result := make(map[string]string, len(txns))

	for _, t := range txns {
		text, err := s.Catalog.Summary(ctx, t.TransactionID)
		if err != nil {
			slog.WarnContext(ctx, "Could not load summary", "transaction", t.TransactionID, "error", err)

			continue
		}

		result[t.TransactionID] = text
	}

	return result
}

// BuildResultsRenderContext builds the render context for the results page.
func (s *ServerHandler) BuildResultsRenderContext(
	ctx context.Context,
	result *model.QueryResult,
	rows []model.Transaction,
	summaries map[string]string,
	p cs.ResultsParams,
) cs.ResultsContext {
	// The page shows the question that was answered.
	p.Query = result.UserQuery

	toggled := p
	toggled.Reasoning = !p.Reasoning

	dir := "asc"
	if p.Desc {
		dir = "desc"
	}

	rc := cs.ResultsContext{
		Query:               result.UserQuery,
		Reasoning:           result.Reasoning,
		ReasoningOpen:       p.Reasoning,
		ReasoningToggleLink: cs.ResultsLink(toggled),
		Merchant:            p.Merchant,
		Where:               p.Where,
		SortBy:              p.SortBy,
		Dir:                 dir,
		DateHeader:          cs.SortHeader{Label: "Date", Link: cs.SortLink(p, query.ColumnDate), Indicator: cs.SortIndicator(p, query.ColumnDate)},
		AmountHeader:        cs.SortHeader{Label: "Amount", Link: cs.SortLink(p, query.ColumnAmount), Indicator: cs.SortIndicator(p, query.ColumnAmount)},
		Rows:                make([]cs.TransactionRow, 0, len(rows)),
		ElasticQuery:        result.ElasticQuery,
		PythonCode:          result.PythonCode,
		CSVLink:             cs.CSVLink(p),
	}

	for _, t := range rows {
		rc.Rows = append(rc.Rows, cs.TransactionRow{
			ID:            t.TransactionID,
			Date:          t.Date,
			Amount:        model.FormatINR(t.Amount),
			Merchant:      t.Merchant,
			Category:      t.Category,
			CategoryClass: cs.CategoryClass(t.Category),
			StatusLabel:   t.Status.Label(),
			StatusClass:   cs.StatusClass(t.Status),
			PaymentMethod: t.PaymentMethod,
			Summary:       summaries[t.TransactionID],
			DetailLink:    cs.TransactionLink(t.TransactionID),
		})
	}

	totals := query.Totals(rows)
	rc.TotalCount = totals.Count
	rc.TotalAmount = model.FormatINRWhole(totals.Amount)

	code, err := highlight.Python([]byte(result.PythonCode))
	if err != nil {
		slog.WarnContext(ctx, "Could not highlight python code", "error", err)
	} else {
		rc.PythonHTML = code
	}

	return rc
}

// ResultsHandle handles requests to the results page.
func (s *ServerHandler) ResultsHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := ParseResultsParams(r.URL.Query())

	slog.InfoContext(ctx, "Handling results page request", "query", p.Query, "where", p.Where, "sort", p.SortBy)

	result, rows, err := s.filteredResults(ctx, p)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	rc := s.BuildResultsRenderContext(ctx, result, rows, s.summaries(ctx, rows), p)
	_ = SafeRenderTemplate(ctx, cs.Results(&rc), w)
}

// ResultsCSVHandle serves the filtered table as a CSV download.
func (s *ServerHandler) ResultsCSVHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := ParseResultsParams(r.URL.Query())

	_, rows, err := s.filteredResults(ctx, p)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=UTF-8")
	w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)

	if err := query.WriteCSV(w, rows); err != nil {
		slog.ErrorContext(ctx, "Could not write CSV", "error", err)
	}
}

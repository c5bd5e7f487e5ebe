package routes

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dasdy/bankingai/cache"
	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
	cs "github.com/dasdy/bankingai/web/components"
	"github.com/go-chi/chi/v5"
)

// transactionRequest is the per-request state of a detail page.
type transactionRequest struct {
	ID       string
	Expanded layout.ExpansionSet
	Width    int
}

func (s *ServerHandler) parseTransactionRequest(r *http.Request) transactionRequest {
	v := r.URL.Query()

	return transactionRequest{
		ID:       chi.URLParam(r, "id"),
		Expanded: layout.ParseExpansion(v.Get("expanded"), v.Has("expanded")),
		Width:    s.parseWidth(v),
	}
}

// parseWidth falls back to the default width when the parameter is
// missing or not a positive number.
func (s *ServerHandler) parseWidth(v url.Values) int {
	width, err := strconv.Atoi(v.Get("width"))
	if err != nil || width <= 0 {
		if s.DefaultWidth > 0 {
			return s.DefaultWidth
		}

		return DefaultWidth
	}

	return width
}

func (s *ServerHandler) renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer

	if err := s.Markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("could not convert payment summary: %w", err)
	}

	//nolint:gosec // goldmark escapes raw HTML unless WithUnsafe is set
	return template.HTML(buf.String()), nil
}

func (s *ServerHandler) sectionView(
	detail *model.TransactionDetail,
	section model.Section,
	expanded layout.ExpansionSet,
	width int,
) cs.SectionView {
	open := expanded.Has(section.ID)

	items := section.Items
	if !open && len(items) > cs.CollapsedItemLimit {
		items = items[:cs.CollapsedItemLimit]
	}

	view := cs.SectionView{
		ID:          section.ID,
		Title:       section.Title,
		Icon:        section.Icon,
		Color:       section.Color,
		Expanded:    open,
		ItemCount:   len(section.Items),
		Items:       make([]cs.ItemView, 0, len(items)),
		HiddenCount: len(section.Items) - len(items),
		ToggleLink:  cs.ToggleLink(detail.TransactionID, expanded, section.ID, width),
	}

	for _, item := range items {
		view.Items = append(view.Items, cs.NewItemView(item))
	}

	return view
}

// BuildTransactionRenderContext lays out the detail sections for the
// requested width and expansion state.
func (s *ServerHandler) BuildTransactionRenderContext(
	detail *model.TransactionDetail,
	expanded layout.ExpansionSet,
	width int,
) (cs.TransactionContext, error) {
	columnCount := layout.SelectColumnCount(width)

	assignment, err := layout.DistributeSections(detail.Sections, expanded, columnCount, s.Estimator)
	if err != nil {
		return cs.TransactionContext{}, fmt.Errorf("could not lay out sections: %w", err)
	}

	summary, err := s.renderMarkdown(detail.PaymentSummary)
	if err != nil {
		return cs.TransactionContext{}, err
	}

	rc := cs.TransactionContext{
		TransactionID:   detail.TransactionID,
		StatusLabel:     detail.Status.Label(),
		StatusClass:     cs.StatusClass(detail.Status),
		Amount:          model.FormatINR(detail.Amount),
		SummaryHTML:     summary,
		Columns:         make([][]cs.SectionView, 0, columnCount),
		ColumnCount:     columnCount,
		Width:           width,
		Expanded:        expanded.String(),
		ExportLink:      cs.ExportLink(detail.TransactionID),
		LayoutLink:      cs.LayoutLink(detail.TransactionID, expanded, width),
		BreakpointTwo:   layout.BreakpointTwoColumns,
		BreakpointThree: layout.BreakpointThreeColumns,
	}

	for _, column := range assignment.Columns {
		views := make([]cs.SectionView, 0, len(column))
		for _, section := range column {
			views = append(views, s.sectionView(detail, section, expanded, width))
		}

		rc.Columns = append(rc.Columns, views)
	}

	return rc, nil
}

// cachedPage looks up a rendered page. Cache failures count as misses.
func (s *ServerHandler) cachedPage(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := s.PageCache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Page cache read failed", "key", key, "error", err)

		return nil, false
	}

	if hit {
		slog.DebugContext(ctx, "Page cache hit", "key", key)
	}

	return data, hit
}

// TransactionHandle serves the detail page, from the page cache when
// the same layout was rendered before. Expanded ids that name no
// section are dropped before the page is rendered and stored, so
// made-up ids all share the entry of the cleaned state.
func (s *ServerHandler) TransactionHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := s.parseTransactionRequest(r)

	slog.InfoContext(ctx, "Handling transaction page request", "id", tr.ID, "width", tr.Width, "expanded", tr.Expanded.String())

	if data, hit := s.cachedPage(ctx, cache.PageKey(tr.ID, tr.Width, tr.Expanded)); hit {
		_ = writeHTML(ctx, w, data)

		return
	}

	detail, err := s.Catalog.Transaction(ctx, tr.ID)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	expanded := tr.Expanded.Restrict(detail.SectionIDs())
	key := cache.PageKey(tr.ID, tr.Width, expanded)

	if len(expanded) != len(tr.Expanded) {
		if data, hit := s.cachedPage(ctx, key); hit {
			_ = writeHTML(ctx, w, data)

			return
		}
	}

	rc, err := s.BuildTransactionRenderContext(detail, expanded, tr.Width)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	data, err := RenderToBytes(ctx, cs.Transaction(&rc))
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	if err := s.PageCache.Set(ctx, key, data, s.PageTTL); err != nil {
		slog.WarnContext(ctx, "Page cache write failed", "key", key, "error", err)
	}

	_ = writeHTML(ctx, w, data)
}

// ExportHandle serves every section item of a transaction as CSV.
func (s *ServerHandler) ExportHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	detail, err := s.Catalog.Transaction(ctx, id)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	var buf bytes.Buffer

	out := csv.NewWriter(&buf)
	if err := out.Write([]string{"Section", "Key", "Value", "Type"}); err != nil {
		writeError(ctx, w, fmt.Errorf("could not write CSV header: %w", err))

		return
	}

	for _, section := range detail.Sections {
		for _, item := range section.Items {
			if err := out.Write([]string{section.Title, item.Key, item.Value, item.Type}); err != nil {
				writeError(ctx, w, fmt.Errorf("could not write CSV row: %w", err))

				return
			}
		}
	}

	out.Flush()

	if err := out.Error(); err != nil {
		writeError(ctx, w, fmt.Errorf("could not flush CSV: %w", err))

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=UTF-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="transaction-%s.csv"`, detail.TransactionID))

	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(ctx, "Failed to write response", "error", err)
	}
}

// LayoutResponse is the column assignment of a detail page.
type LayoutResponse struct {
	Columns    int        `json:"columns"`
	Assignment [][]string `json:"assignment"`
	Heights    []int      `json:"heights"`
}

// BuildLayoutResponse reports which section lands in which column.
func (s *ServerHandler) BuildLayoutResponse(detail *model.TransactionDetail, expanded layout.ExpansionSet, width int) (LayoutResponse, error) {
	columnCount := layout.SelectColumnCount(width)

	assignment, err := layout.DistributeSections(detail.Sections, expanded, columnCount, s.Estimator)
	if err != nil {
		return LayoutResponse{}, fmt.Errorf("could not lay out sections: %w", err)
	}

	resp := LayoutResponse{
		Columns:    columnCount,
		Assignment: make([][]string, 0, columnCount),
		Heights:    assignment.Heights,
	}

	for _, column := range assignment.Columns {
		ids := make([]string, 0, len(column))
		for _, section := range column {
			ids = append(ids, section.ID)
		}

		resp.Assignment = append(resp.Assignment, ids)
	}

	return resp, nil
}

func (s *ServerHandler) LayoutHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := s.parseTransactionRequest(r)

	detail, err := s.Catalog.Transaction(ctx, tr.ID)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	resp, err := s.BuildLayoutResponse(detail, tr.Expanded, tr.Width)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, resp)
}

// SummaryResponse carries the short AI summary of a transaction.
type SummaryResponse struct {
	TransactionID string `json:"transactionId"`
	Summary       string `json:"summary"`
}

func (s *ServerHandler) SummaryHandle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	summary, err := s.Catalog.Summary(ctx, id)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, SummaryResponse{TransactionID: id, Summary: summary})
}

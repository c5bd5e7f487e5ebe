package components_test

import (
	"bytes"
	"context"
	"io/fs"
	"net/url"
	"testing"

	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
	"github.com/dasdy/bankingai/web/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsLinks(t *testing.T) {
	p := components.ResultsParams{Query: "big spends", Merchant: "amazon", Reasoning: true}

	t.Run("results link keeps state", func(t *testing.T) {
		u, err := url.Parse(components.ResultsLink(p))
		require.NoError(t, err)

		assert.Equal(t, "/results", u.Path)
		assert.Equal(t, "big spends", u.Query().Get("q"))
		assert.Equal(t, "amazon", u.Query().Get("merchant"))
		assert.False(t, u.Query().Has("reasoning"))
	})

	t.Run("closed reasoning is explicit", func(t *testing.T) {
		closed := p
		closed.Reasoning = false

		u, err := url.Parse(components.ResultsLink(closed))
		require.NoError(t, err)
		assert.Equal(t, "closed", u.Query().Get("reasoning"))
	})

	t.Run("sort link flips direction on the active column", func(t *testing.T) {
		first, _ := url.Parse(components.SortLink(p, "amount"))
		assert.Equal(t, "asc", first.Query().Get("dir"))

		sorted := p
		sorted.SortBy = "amount"

		second, _ := url.Parse(components.SortLink(sorted, "amount"))
		assert.Equal(t, "desc", second.Query().Get("dir"))

		other, _ := url.Parse(components.SortLink(sorted, "date"))
		assert.Equal(t, "date", other.Query().Get("sort"))
		assert.Equal(t, "asc", other.Query().Get("dir"))
	})

	t.Run("indicator", func(t *testing.T) {
		assert.Empty(t, components.SortIndicator(p, "date"))

		p.SortBy = "date"
		assert.Equal(t, "↑", components.SortIndicator(p, "date"))

		p.Desc = true
		assert.Equal(t, "↓", components.SortIndicator(p, "date"))
	})

	t.Run("csv link drops page-only state", func(t *testing.T) {
		u, err := url.Parse(components.CSVLink(components.ResultsParams{Query: "q"}))
		require.NoError(t, err)

		assert.Equal(t, "/results.csv", u.Path)
		assert.False(t, u.Query().Has("reasoning"))
	})

	assert.Equal(t, "/", components.HomeLink(""))
	assert.Equal(t, "/?q=a+b", components.HomeLink("a b"))
}

func TestToggleLink(t *testing.T) {
	expanded := layout.DefaultExpansion()

	t.Run("opening adds the section", func(t *testing.T) {
		u, err := url.Parse(components.ToggleLink("1234567890123456", expanded, "compliance", 900))
		require.NoError(t, err)

		assert.Equal(t, "/transaction/1234567890123456", u.Path)
		assert.Equal(t, "compliance,payment-events", u.Query().Get("expanded"))
		assert.Equal(t, "900", u.Query().Get("width"))
		assert.Equal(t, "compliance", u.Fragment)
	})

	t.Run("closing the last section keeps an empty parameter", func(t *testing.T) {
		u, err := url.Parse(components.ToggleLink("1234567890123456", expanded, "payment-events", 0))
		require.NoError(t, err)

		assert.True(t, u.Query().Has("expanded"))
		assert.Empty(t, u.Query().Get("expanded"))
		assert.False(t, u.Query().Has("width"))
	})

	assert.Equal(t, "/transaction/1/export.csv", components.ExportLink("1"))
	assert.Contains(t, components.LayoutLink("1", expanded, 1300), "/api/transaction/1/layout?")
}

func TestItemView(t *testing.T) {
	ts := components.NewItemView(model.DataItem{Key: "Initiated", Value: "2024-05-15 14:23:45 IST", Type: "timestamp"})

	assert.True(t, ts.Timestamp)
	assert.Equal(t, "2024-05-15", ts.Date)
	assert.Equal(t, "14:23:45", ts.Time)
	assert.Equal(t, "🕐", ts.TypeIcon)

	plain := components.NewItemView(model.DataItem{Key: "Score", Value: "12/100", Type: "unknown"})
	assert.False(t, plain.Timestamp)
	assert.Equal(t, "📋", plain.TypeIcon)
}

func TestClasses(t *testing.T) {
	assert.Equal(t, "badge-green", components.StatusClass(model.StatusCompleted))
	assert.Equal(t, "badge-red", components.StatusClass(model.StatusFailed))
	assert.Equal(t, "badge-slate", components.StatusClass(model.Status("odd")))
	assert.Equal(t, "category-bill-payment", components.CategoryClass(" Bill Payment"))
}

func TestPagesRender(t *testing.T) {
	ctx := context.Background()

	t.Run("home", func(t *testing.T) {
		var buf bytes.Buffer

		err := components.Home(&components.HomeContext{
			Query:    "<script>",
			Examples: []components.ExampleCard{{Text: "Show failed", Category: "Status", Link: "/?q=Show+failed"}},
			Recent:   []components.RecentQuery{{Text: "earlier", Link: "/results?q=earlier", When: "10:00"}},
		}).Render(ctx, &buf)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Show failed")
		assert.Contains(t, buf.String(), "Recent questions")
		assert.Contains(t, buf.String(), "&lt;script&gt;")
	})

	t.Run("transaction", func(t *testing.T) {
		var buf bytes.Buffer

		err := components.Transaction(&components.TransactionContext{
			TransactionID: "1234567890123456",
			StatusLabel:   "Completed",
			ColumnCount:   2,
			Columns: [][]components.SectionView{
				{{ID: "payment-events", Title: "Payment Events", Expanded: true, ItemCount: 1, Items: []components.ItemView{{Key: "k", Value: "v"}}}},
				{{ID: "risk-assessment", Title: "Risk Assessment", ItemCount: 12, HiddenCount: 8, ToggleLink: "/x"}},
			},
		}).Render(ctx, &buf)

		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, "Show 8 more items")
		assert.Contains(t, html, `data-columns="2"`)
		assert.Contains(t, html, "masonry-column")
		assert.Contains(t, html, "Payment Events")
	})

	t.Run("results", func(t *testing.T) {
		var buf bytes.Buffer

		err := components.Results(&components.ResultsContext{
			Query:         "q",
			ReasoningOpen: true,
			Reasoning:     "because",
			Rows:          []components.TransactionRow{{ID: "1", Merchant: "Zomato", StatusLabel: "Failed"}},
			TotalCount:    1,
			ElasticQuery:  `{"query": {}}`,
			PythonHTML:    `<span class="tok-keyword">def</span>`,
		}).Render(ctx, &buf)

		require.NoError(t, err)

		html := buf.String()
		assert.Contains(t, html, "1 results found")
		assert.Contains(t, html, "because")
		assert.Contains(t, html, `<span class="tok-keyword">def</span>`)
		assert.Contains(t, html, "Zomato")
	})
}

func TestAssets(t *testing.T) {
	for _, name := range []string{"app.css", "app.js"} {
		data, err := fs.ReadFile(components.Assets(), name)

		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

package routes_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dasdy/bankingai/model"
	"github.com/dasdy/bankingai/web/routes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultsParams(t *testing.T) {
	p := routes.ParseResultsParams(url.Values{
		"q":         {" big spends "},
		"merchant":  {"amazon"},
		"where":     {"amount > 1.0"},
		"sort":      {"amount"},
		"dir":       {"desc"},
		"reasoning": {"closed"},
	})

	assert.Equal(t, "big spends", p.Query)
	assert.Equal(t, "amazon", p.Merchant)
	assert.Equal(t, "amount > 1.0", p.Where)
	assert.Equal(t, "amount", p.SortBy)
	assert.True(t, p.Desc)
	assert.False(t, p.Reasoning)

	assert.True(t, routes.ParseResultsParams(url.Values{}).Reasoning)
}

func TestBuildResultsRenderContext(t *testing.T) {
	h := mockHandler(t, &CatalogMock{})

	result := &model.QueryResult{
		UserQuery:  "what did I spend",
		Reasoning:  "I looked.",
		PythonCode: "def f():\n    return 1\n",
	}
	rows := []model.Transaction{
		{TransactionID: "1", Date: "2024-05-01", Amount: decimal.RequireFromString("245000"), Merchant: "Apple Store", Category: "Bill Payment", Status: model.StatusFailed},
		{TransactionID: "2", Date: "2024-05-02", Amount: decimal.RequireFromString("1000.50"), Merchant: "Swiggy", Status: model.StatusPending},
	}

	p := routes.ParseResultsParams(url.Values{"q": {"ignored"}, "sort": {"amount"}})
	rc := h.BuildResultsRenderContext(context.Background(), result, rows, map[string]string{"1": "one"}, p)

	assert.Equal(t, "what did I spend", rc.Query)
	assert.True(t, rc.ReasoningOpen)
	assert.Contains(t, rc.ReasoningToggleLink, "reasoning=closed")
	assert.Equal(t, "asc", rc.Dir)
	assert.Equal(t, "↑", rc.AmountHeader.Indicator)
	assert.Empty(t, rc.DateHeader.Indicator)
	assert.Contains(t, rc.AmountHeader.Link, "dir=desc")

	require.Len(t, rc.Rows, 2)
	assert.Equal(t, "₹2,45,000.00", rc.Rows[0].Amount)
	assert.Equal(t, "₹1,000.50", rc.Rows[1].Amount)
	assert.Equal(t, "Failed", rc.Rows[0].StatusLabel)
	assert.Equal(t, "badge-red", rc.Rows[0].StatusClass)
	assert.Equal(t, "category-bill-payment", rc.Rows[0].CategoryClass)
	assert.Equal(t, "one", rc.Rows[0].Summary)
	assert.Equal(t, "/transaction/1", rc.Rows[0].DetailLink)
	assert.Empty(t, rc.Rows[1].Summary)

	assert.Equal(t, 2, rc.TotalCount)
	assert.Equal(t, "₹2,46,001", rc.TotalAmount)
	assert.Contains(t, string(rc.PythonHTML), `<span class="tok-keyword">def</span>`)
	assert.Contains(t, rc.CSVLink, "/results.csv?")
}

func TestResultsHandle(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		contains   []string
		excludes   []string
	}{
		{
			name:       "all fixture rows",
			query:      "q=show+me",
			wantStatus: http.StatusOK,
			contains:   []string{"show me", "6 results found", "₹1,27,650", "Zomato", "badge-red", "insufficient funds"},
		},
		{
			name:       "merchant filter",
			query:      "q=x&merchant=zoma",
			wantStatus: http.StatusOK,
			contains:   []string{"1 results found", "Zomato"},
			excludes:   []string{"Flipkart"},
		},
		{
			name:       "expression filter",
			query:      "q=x&where=" + url.QueryEscape("amount > 20000.0"),
			wantStatus: http.StatusOK,
			contains:   []string{"2 results found", "₹70,000", "Apple Store"},
			excludes:   []string{"Swiggy"},
		},
		{
			name:       "integer amount in expression",
			query:      "q=x&where=" + url.QueryEscape("amount > 20000"),
			wantStatus: http.StatusOK,
			contains:   []string{"2 results found", "Apple Store"},
			excludes:   []string{"Swiggy"},
		},
		{
			name:       "collapsed reasoning",
			query:      "q=x&reasoning=closed",
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad expression",
			query:      "q=x&where=" + url.QueryEscape("amount >"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown sort column",
			query:      "q=x&sort=merchant",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(fixtureHandler(t), "/results?"+tt.query)

			require.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())

			for _, s := range tt.contains {
				assert.Contains(t, recorder.Body.String(), s)
			}

			for _, s := range tt.excludes {
				assert.NotContains(t, recorder.Body.String(), s)
			}
		})
	}
}

func TestResultsHandleCatalogError(t *testing.T) {
	recorder := serve(mockHandler(t, &CatalogMock{ReturnError: assert.AnError}), "/results?q=x")

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestResultsCSVHandle(t *testing.T) {
	t.Run("sorted download", func(t *testing.T) {
		recorder := serve(fixtureHandler(t), "/results.csv?q=x&sort=amount&dir=desc")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, recorder.Header().Get("Content-Disposition"), "results.csv")

		records, err := csv.NewReader(strings.NewReader(recorder.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 7)

		assert.Equal(t, "Transaction ID", records[0][0])
		assert.Equal(t, "Apple Store", records[1][3])
		assert.Equal(t, "45000.00", records[1][2])
		assert.Equal(t, "Zomato", records[6][3])
	})

	t.Run("bad expression", func(t *testing.T) {
		recorder := serve(fixtureHandler(t), "/results.csv?q=x&where="+url.QueryEscape("merchant +"))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dasdy/bankingai/db"
	"github.com/dasdy/bankingai/fixtures"
	"github.com/dasdy/bankingai/model"
	"github.com/dasdy/bankingai/web/routes"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testTransactionID = "1234567890123456"

// CatalogMock is a simple manual mock implementation of the Catalog interface.
type CatalogMock struct {
	ReturnExamples []model.ExampleQuery
	ReturnResult   *model.QueryResult
	ReturnDetail   *model.TransactionDetail
	ReturnSummary  string
	ReturnError    error

	TransactionCalls int
	LastQuery        string
}

func (m *CatalogMock) Examples(_ context.Context) ([]model.ExampleQuery, error) {
	return m.ReturnExamples, m.ReturnError
}

func (m *CatalogMock) Results(_ context.Context, query string) (*model.QueryResult, error) {
	m.LastQuery = query

	return m.ReturnResult, m.ReturnError
}

func (m *CatalogMock) Transaction(_ context.Context, id string) (*model.TransactionDetail, error) {
	m.TransactionCalls++

	if err := db.CheckTransactionID(id); err != nil {
		return nil, err
	}

	return m.ReturnDetail, m.ReturnError
}

func (m *CatalogMock) Summary(_ context.Context, _ string) (string, error) {
	return m.ReturnSummary, m.ReturnError
}

func (m *CatalogMock) Close() error {
	return nil
}

// QueryLogMock records queries in memory.
type QueryLogMock struct {
	Recorded     []string
	ReturnRecent []model.LoggedQuery
	ReturnError  error
}

func (m *QueryLogMock) Record(_ context.Context, query string, _ time.Time) error {
	if m.ReturnError != nil {
		return m.ReturnError
	}

	m.Recorded = append(m.Recorded, query)

	return nil
}

func (m *QueryLogMock) Recent(_ context.Context, limit int) ([]model.LoggedQuery, error) {
	if len(m.ReturnRecent) > limit {
		return m.ReturnRecent[:limit], m.ReturnError
	}

	return m.ReturnRecent, m.ReturnError
}

// fixtureHandler builds a handler backed by the embedded fixtures.
func fixtureHandler(t *testing.T) *routes.ServerHandler {
	t.Helper()

	set, err := fixtures.LoadDefault()
	require.NoError(t, err)

	h, err := routes.NewServerHandler(db.NewMemoryCatalog(set), &QueryLogMock{})
	require.NoError(t, err)

	h.SearchDelay = 0

	return h
}

// mockHandler builds a handler around a catalog mock.
func mockHandler(t *testing.T, catalog *CatalogMock) *routes.ServerHandler {
	t.Helper()

	h, err := routes.NewServerHandler(catalog, nil)
	require.NoError(t, err)

	h.SearchDelay = 0

	return h
}

// serve routes one GET request through a chi router so URL params resolve.
func serve(h *routes.ServerHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Routes(r)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	return recorder
}

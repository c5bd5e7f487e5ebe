// Package query filters, sorts and totals the transaction table shown on
// the results page.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/model"
	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// Sortable columns.
const (
	ColumnDate   = "date"
	ColumnAmount = "amount"
)

const costLimit = 10000

// Params is the table state carried in the results page URL.
type Params struct {
	Merchant string
	Where    string
	SortBy   string
	Desc     bool
}

// Total summarises a table.
type Total struct {
	Count  int
	Amount decimal.Decimal
}

// Filter compiles `where` expressions and caches the programs.
type Filter struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

func NewFilter() (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("merchant", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("payment_method", cel.StringType),
		cel.Variable("date", cel.StringType),
		// amount > 10000 compares a double with an int literal.
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create filter environment: %w", err)
	}

	return &Filter{env: env, programs: make(map[string]cel.Program)}, nil
}

func (f *Filter) program(expr string) (cel.Program, error) {
	f.mu.RLock()
	prg, ok := f.programs[expr]
	f.mu.RUnlock()

	if ok {
		return prg, nil
	}

	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, issues.Err(), "could not compile filter %q", expr)
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errs.New(errs.CodeInvalidInput, "filter %q must be a boolean expression, got %s", expr, ast.OutputType())
	}

	prg, err := f.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "could not build filter %q", expr)
	}

	f.mu.Lock()
	f.programs[expr] = prg
	f.mu.Unlock()

	return prg, nil
}

// Where keeps the transactions for which expr is true. A blank
// expression keeps everything.
func (f *Filter) Where(txns []model.Transaction, expr string) ([]model.Transaction, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return slices.Clone(txns), nil
	}

	prg, err := f.program(expr)
	if err != nil {
		return nil, err
	}

	result := make([]model.Transaction, 0, len(txns))

	for _, t := range txns {
		out, _, err := prg.Eval(activation(t))
		if err != nil {
			return nil, errs.Wrap(errs.CodeInvalidInput, err, "could not evaluate filter on %s", t.TransactionID)
		}

		keep, ok := out.Value().(bool)
		if !ok {
			return nil, errs.New(errs.CodeInvalidInput, "filter %q returned %T", expr, out.Value())
		}

		if keep {
			result = append(result, t)
		}
	}

	return result, nil
}

func activation(t model.Transaction) map[string]any {
	return map[string]any{
		"amount":         t.Amount.InexactFloat64(),
		"merchant":       t.Merchant,
		"category":       t.Category,
		"status":         string(t.Status),
		"payment_method": t.PaymentMethod,
		"date":           t.Date,
	}
}

// Apply runs the merchant filter, the where expression and the sort in
// that order.
func (f *Filter) Apply(txns []model.Transaction, p Params) ([]model.Transaction, error) {
	result, err := f.Where(FilterMerchant(txns, p.Merchant), p.Where)
	if err != nil {
		return nil, err
	}

	if p.SortBy == "" {
		return result, nil
	}

	return Sort(result, p.SortBy, p.Desc)
}

// FilterMerchant keeps transactions whose merchant contains needle,
// ignoring case.
func FilterMerchant(txns []model.Transaction, needle string) []model.Transaction {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return slices.Clone(txns)
	}

	result := make([]model.Transaction, 0, len(txns))

	for _, t := range txns {
		if strings.Contains(strings.ToLower(t.Merchant), needle) {
			result = append(result, t)
		}
	}

	return result
}

// Sort returns a stably sorted copy of txns.
func Sort(txns []model.Transaction, column string, desc bool) ([]model.Transaction, error) {
	var compare func(a, b model.Transaction) int

	switch column {
	case ColumnDate:
		compare = func(a, b model.Transaction) int { return cmp.Compare(a.Date, b.Date) }
	case ColumnAmount:
		compare = func(a, b model.Transaction) int { return a.Amount.Cmp(b.Amount) }
	default:
		return nil, errs.New(errs.CodeInvalidInput, "cannot sort by %q", column)
	}

	result := slices.Clone(txns)

	slices.SortStableFunc(result, func(a, b model.Transaction) int {
		if desc {
			return compare(b, a)
		}

		return compare(a, b)
	})

	return result, nil
}

// Totals counts txns and adds up their amounts.
func Totals(txns []model.Transaction) Total {
	total := Total{Count: len(txns), Amount: decimal.Zero}

	for _, t := range txns {
		total.Amount = total.Amount.Add(t.Amount)
	}

	return total
}

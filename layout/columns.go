package layout

import (
	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/model"
)

// Block is one unit of layout content. Expanded is owned by the caller
// and supplied fresh on every pass.
type Block struct {
	ID        string
	ItemCount int
	Expanded  bool
}

// Assignment is the result of one balancing pass. Columns[i] holds the
// blocks of column i in input order, Heights[i] its accumulated estimate.
type Assignment[T any] struct {
	Columns [][]T
	Heights []int
}

// Balance assigns every item to the column with the smallest running
// height, lowest index first on ties, in a single pass over items.
func Balance[T any](items []T, columnCount int, height func(T) int) (Assignment[T], error) {
	if columnCount < 1 {
		return Assignment[T]{}, errs.New(errs.CodeInvalidArgument, "column count must be at least 1, got %d", columnCount)
	}

	columns := make([][]T, columnCount)
	for i := range columns {
		columns[i] = []T{}
	}

	heights := make([]int, columnCount)

	for _, item := range items {
		target := shortestColumn(heights)
		columns[target] = append(columns[target], item)
		heights[target] += height(item)
	}

	return Assignment[T]{Columns: columns, Heights: heights}, nil
}

// shortestColumn returns the index of the strictly smallest height;
// the first index wins on ties.
func shortestColumn(heights []int) int {
	best := 0

	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}

	return best
}

// Distribute splits blocks into columnCount columns using the estimator's
// constants.
func (e Estimator) Distribute(blocks []Block, columnCount int) ([][]Block, error) {
	assignment, err := Balance(blocks, columnCount, func(b Block) int {
		return e.EstimateHeight(b.Expanded, b.ItemCount)
	})
	if err != nil {
		return nil, err
	}

	return assignment.Columns, nil
}

// Distribute splits blocks into columnCount columns using the default
// height constants.
func Distribute(blocks []Block, columnCount int) ([][]Block, error) {
	return DefaultEstimator().Distribute(blocks, columnCount)
}

// DistributeSections balances transaction detail sections. A section's
// item count is the number of data items it carries.
func DistributeSections(
	sections []model.Section,
	expanded ExpansionSet,
	columnCount int,
	est Estimator,
) (Assignment[model.Section], error) {
	return Balance(sections, columnCount, func(s model.Section) int {
		return est.EstimateHeight(expanded.Has(s.ID), len(s.Items))
	})
}

// BlocksFromSections builds the block view of sections for a given
// expansion state.
func BlocksFromSections(sections []model.Section, expanded ExpansionSet) []Block {
	blocks := make([]Block, 0, len(sections))

	for _, s := range sections {
		blocks = append(blocks, Block{ID: s.ID, ItemCount: len(s.Items), Expanded: expanded.Has(s.ID)})
	}

	return blocks
}

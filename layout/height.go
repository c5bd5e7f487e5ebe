package layout

import (
	"github.com/dasdy/bankingai/errs"
)

// Default height constants. They are visual tuning values: a collapsed
// section renders a fixed preview, an expanded one grows linearly with
// its items.
const (
	DefaultCollapsedHeight    = 150
	DefaultBaseExpandedHeight = 200
	DefaultPerItemHeight      = 25
)

// Estimator turns a block's expansion state and item count into a render
// height. Real heights are only known in the browser, so a linear proxy
// is used instead.
type Estimator struct {
	CollapsedHeight    int
	BaseExpandedHeight int
	PerItemHeight      int
}

// DefaultEstimator returns an estimator with the default constants.
func DefaultEstimator() Estimator {
	return Estimator{
		CollapsedHeight:    DefaultCollapsedHeight,
		BaseExpandedHeight: DefaultBaseExpandedHeight,
		PerItemHeight:      DefaultPerItemHeight,
	}
}

// Validate checks that an expanded block is always taller than a
// collapsed one and grows with every item.
func (e Estimator) Validate() error {
	if e.CollapsedHeight < 0 {
		return errs.New(errs.CodeInvalidArgument, "collapsed height must not be negative, got %d", e.CollapsedHeight)
	}

	if e.BaseExpandedHeight <= e.CollapsedHeight {
		return errs.New(errs.CodeInvalidArgument,
			"base expanded height (%d) must exceed collapsed height (%d)", e.BaseExpandedHeight, e.CollapsedHeight)
	}

	if e.PerItemHeight <= 0 {
		return errs.New(errs.CodeInvalidArgument, "per item height must be positive, got %d", e.PerItemHeight)
	}

	return nil
}

// EstimateHeight returns the estimated height of a block.
// Negative item counts are treated as zero.
func (e Estimator) EstimateHeight(expanded bool, itemCount int) int {
	if !expanded {
		return e.CollapsedHeight
	}

	itemCount = max(itemCount, 0)

	return e.BaseExpandedHeight + itemCount*e.PerItemHeight
}

// EstimateHeight estimates a block height with the default constants.
func EstimateHeight(expanded bool, itemCount int) int {
	return DefaultEstimator().EstimateHeight(expanded, itemCount)
}

package layout_test

import (
	"testing"

	"github.com/dasdy/bankingai/errs"
	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collapsed(ids ...string) []layout.Block {
	blocks := make([]layout.Block, 0, len(ids))
	for _, id := range ids {
		blocks = append(blocks, layout.Block{ID: id, ItemCount: 4})
	}

	return blocks
}

func ids(columns [][]layout.Block) [][]string {
	result := make([][]string, 0, len(columns))

	for _, col := range columns {
		names := make([]string, 0, len(col))
		for _, b := range col {
			names = append(names, b.ID)
		}

		result = append(result, names)
	}

	return result
}

func TestEstimateHeight(t *testing.T) {
	tests := []struct {
		name      string
		expanded  bool
		itemCount int
		want      int
	}{
		{"collapsed ignores items", false, 12, 150},
		{"collapsed empty", false, 0, 150},
		{"expanded empty", true, 0, 200},
		{"expanded twelve items", true, 12, 500},
		{"expanded negative clamps", true, -3, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.EstimateHeight(tt.expanded, tt.itemCount))
		})
	}

	t.Run("expanded taller and strictly increasing", func(t *testing.T) {
		for n := 1; n < 50; n++ {
			assert.Greater(t, layout.EstimateHeight(true, n), layout.EstimateHeight(false, n))
			assert.Greater(t, layout.EstimateHeight(true, n+1), layout.EstimateHeight(true, n))
		}
	})
}

func TestEstimatorValidate(t *testing.T) {
	require.NoError(t, layout.DefaultEstimator().Validate())

	bad := []layout.Estimator{
		{CollapsedHeight: -1, BaseExpandedHeight: 200, PerItemHeight: 25},
		{CollapsedHeight: 150, BaseExpandedHeight: 150, PerItemHeight: 25},
		{CollapsedHeight: 150, BaseExpandedHeight: 200, PerItemHeight: 0},
	}

	for _, est := range bad {
		err := est.Validate()

		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.CodeInvalidArgument))
	}
}

func TestDistribute(t *testing.T) {
	t.Run("rejects non-positive column count", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			columns, err := layout.Distribute(collapsed("B1"), n)

			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeInvalidArgument))
			assert.Nil(t, columns)
		}
	})

	t.Run("empty input yields empty columns", func(t *testing.T) {
		columns, err := layout.Distribute(nil, 3)

		require.NoError(t, err)
		assert.Len(t, columns, 3)

		for _, col := range columns {
			assert.NotNil(t, col)
			assert.Empty(t, col)
		}
	})

	t.Run("single block goes to column zero", func(t *testing.T) {
		columns, err := layout.Distribute(collapsed("B1"), 1)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"B1"}}, ids(columns))
	})

	t.Run("more columns than blocks", func(t *testing.T) {
		columns, err := layout.Distribute(collapsed("B1", "B2"), 3)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"B1"}, {"B2"}, {}}, ids(columns))
	})

	t.Run("ties resolve to the lowest column", func(t *testing.T) {
		columns, err := layout.Distribute(collapsed("B1", "B2", "B3"), 2)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"B1", "B3"}, {"B2"}}, ids(columns))
	})

	t.Run("equal heights fill left to right", func(t *testing.T) {
		columns, err := layout.Distribute(collapsed("B1", "B2", "B3", "B4", "B5", "B6", "B7"), 3)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"B1", "B4", "B7"}, {"B2", "B5"}, {"B3", "B6"}}, ids(columns))
	})

	t.Run("expanded block pushes later blocks away", func(t *testing.T) {
		blocks := []layout.Block{
			{ID: "big", ItemCount: 12, Expanded: true}, // 500
			{ID: "a", ItemCount: 12},                   // 150
			{ID: "b", ItemCount: 12},                   // 150
			{ID: "c", ItemCount: 12},                   // 150
		}

		columns, err := layout.Distribute(blocks, 2)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"big"}, {"a", "b", "c"}}, ids(columns))
	})

	t.Run("custom estimator changes the outcome", func(t *testing.T) {
		blocks := []layout.Block{
			{ID: "a", ItemCount: 1, Expanded: true},
			{ID: "b", ItemCount: 1},
			{ID: "c", ItemCount: 1},
		}
		est := layout.Estimator{CollapsedHeight: 10, BaseExpandedHeight: 15, PerItemHeight: 1}

		// a=16 in col0, b=10 in col1, c goes to col1 since 10 < 16.
		columns, err := est.Distribute(blocks, 2)

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"a"}, {"b", "c"}}, ids(columns))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		blocks := collapsed("B1", "B2", "B3")
		before := append([]layout.Block(nil), blocks...)

		_, err := layout.Distribute(blocks, 2)

		require.NoError(t, err)
		assert.Equal(t, before, blocks)
	})
}

func TestBalanceHeights(t *testing.T) {
	assignment, err := layout.Balance([]int{5, 3, 2, 2}, 2, func(v int) int { return v })

	require.NoError(t, err)
	// 5->c0, 3->c1, 2->c1 (3<5), 2->c0 (5==5 tie, lowest index).
	assert.Equal(t, [][]int{{5, 2}, {3, 2}}, assignment.Columns)
	assert.Equal(t, []int{7, 5}, assignment.Heights)
}

func TestSelectColumnCount(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 1},
		{320, 1},
		{767, 1},
		{768, 2},
		{1000, 2},
		{1199, 2},
		{1200, 3},
		{2560, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, layout.SelectColumnCount(tt.width), "width %d", tt.width)
	}
}

func TestExpansionSet(t *testing.T) {
	t.Run("absent parameter gives default", func(t *testing.T) {
		s := layout.ParseExpansion("", false)

		assert.True(t, s.Has(layout.DefaultExpandedSection))
		assert.Len(t, s, 1)
	})

	t.Run("present empty parameter collapses all", func(t *testing.T) {
		s := layout.ParseExpansion("", true)

		assert.Empty(t, s)
		assert.Empty(t, s.String())
	})

	t.Run("parses and trims", func(t *testing.T) {
		s := layout.ParseExpansion(" risk-assessment, ,compliance,", true)

		assert.Equal(t, []string{"compliance", "risk-assessment"}, s.IDs())
		assert.Equal(t, "compliance,risk-assessment", s.String())
	})

	t.Run("toggle returns a copy", func(t *testing.T) {
		s := layout.NewExpansion("a")

		opened := s.Toggle("b")
		closed := s.Toggle("a")

		assert.Equal(t, "a", s.String())
		assert.Equal(t, "a,b", opened.String())
		assert.Empty(t, closed)
	})

	t.Run("restrict drops unknown ids", func(t *testing.T) {
		s := layout.NewExpansion("payment-events", "junk", "compliance")

		known := s.Restrict([]string{"payment-events", "risk-assessment", "compliance"})

		assert.Equal(t, "compliance,payment-events", known.String())
		assert.Equal(t, "compliance,junk,payment-events", s.String())
		assert.Empty(t, s.Restrict(nil))
	})
}

func TestDistributeSections(t *testing.T) {
	items := func(n int) []model.DataItem {
		return make([]model.DataItem, n)
	}

	sections := []model.Section{
		{ID: "payment-events", Items: items(12)},
		{ID: "risk-assessment", Items: items(12)},
		{ID: "network-info", Items: items(18)},
	}

	assignment, err := layout.DistributeSections(sections, layout.DefaultExpansion(), 2, layout.DefaultEstimator())

	require.NoError(t, err)
	require.Len(t, assignment.Columns, 2)
	// payment-events expanded: 500 in col0; risk 150 col1; network 150 col1.
	assert.Equal(t, "payment-events", assignment.Columns[0][0].ID)
	assert.Len(t, assignment.Columns[1], 2)
	assert.Equal(t, []int{500, 300}, assignment.Heights)

	blocks := layout.BlocksFromSections(sections, layout.DefaultExpansion())
	assert.Equal(t, layout.Block{ID: "network-info", ItemCount: 18}, blocks[2])
	assert.True(t, blocks[0].Expanded)
}

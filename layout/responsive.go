package layout

// Viewport breakpoints in CSS pixels.
const (
	BreakpointTwoColumns   = 768
	BreakpointThreeColumns = 1200

	// MaxColumns is the widest layout SelectColumnCount can return.
	MaxColumns = 3
)

// SelectColumnCount maps a viewport width to 1, 2 or 3 columns.
func SelectColumnCount(viewportWidthPx int) int {
	switch {
	case viewportWidthPx < BreakpointTwoColumns:
		return 1
	case viewportWidthPx < BreakpointThreeColumns:
		return 2
	default:
		return MaxColumns
	}
}

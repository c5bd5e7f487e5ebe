package components

import "html/template"

type PageType string

const (
	PageTypeHome        PageType = "home"
	PageTypeResults     PageType = "results"
	PageTypeTransaction PageType = "transaction"
)

// CollapsedItemLimit is how many items a collapsed section shows.
const CollapsedItemLimit = 4

type ExampleCard struct {
	Text     string
	Category string
	Icon     string
	Gradient string
	Link     string
}

type RecentQuery struct {
	Text string
	When string
	Link string
}

type HomeContext struct {
	Query    string
	Examples []ExampleCard
	Recent   []RecentQuery
}

type TransactionRow struct {
	ID            string
	Date          string
	Amount        string
	Merchant      string
	Category      string
	CategoryClass string
	StatusLabel   string
	StatusClass   string
	PaymentMethod string
	Summary       string
	DetailLink    string
}

// SortHeader is a clickable column header of the results table.
type SortHeader struct {
	Label     string
	Link      string
	Indicator string
}

type ResultsContext struct {
	Query               string
	Reasoning           string
	ReasoningOpen       bool
	ReasoningToggleLink string
	Merchant            string
	Where               string
	SortBy              string
	Dir                 string
	DateHeader          SortHeader
	AmountHeader        SortHeader
	Rows                []TransactionRow
	TotalCount          int
	TotalAmount         string
	ElasticQuery        string
	PythonCode          string
	PythonHTML          template.HTML
	CSVLink             string
}

type ItemView struct {
	Key       string
	Value     string
	Type      string
	TypeIcon  string
	Timestamp bool
	// Time and Date are the split parts of an IST timestamp value.
	Time string
	Date string
}

type SectionView struct {
	ID          string
	Title       string
	Icon        string
	Color       string
	Expanded    bool
	ItemCount   int
	Items       []ItemView
	HiddenCount int
	ToggleLink  string
}

type TransactionContext struct {
	TransactionID string
	StatusLabel   string
	StatusClass   string
	Amount        string
	SummaryHTML   template.HTML
	Columns       [][]SectionView
	ColumnCount   int
	Width         int
	Expanded      string
	ExportLink    string
	LayoutLink    string
	// Breakpoints let the resize script pick the same column count as
	// the server.
	BreakpointTwo   int
	BreakpointThree int
}

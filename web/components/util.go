package components

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dasdy/bankingai/layout"
	"github.com/dasdy/bankingai/model"
)

// ResultsParams is the state of the results page that links carry along.
type ResultsParams struct {
	Query     string
	Merchant  string
	Where     string
	SortBy    string
	Desc      bool
	Reasoning bool
}

func (p ResultsParams) values() url.Values {
	v := url.Values{}
	v.Set("q", p.Query)

	if p.Merchant != "" {
		v.Set("merchant", p.Merchant)
	}

	if p.Where != "" {
		v.Set("where", p.Where)
	}

	if p.SortBy != "" {
		v.Set("sort", p.SortBy)

		if p.Desc {
			v.Set("dir", "desc")
		} else {
			v.Set("dir", "asc")
		}
	}

	if !p.Reasoning {
		v.Set("reasoning", "closed")
	}

	return v
}

// ResultsLink is the results page URL for p.
func ResultsLink(p ResultsParams) string {
	return "/results?" + p.values().Encode()
}

// CSVLink is the CSV download URL for the table state in p.
func CSVLink(p ResultsParams) string {
	v := p.values()
	v.Del("reasoning")

	return "/results.csv?" + v.Encode()
}

// SortLink flips the direction when column is already the sort column.
func SortLink(p ResultsParams, column string) string {
	next := p
	next.SortBy = column
	next.Desc = p.SortBy == column && !p.Desc

	return ResultsLink(next)
}

func SortIndicator(p ResultsParams, column string) string {
	switch {
	case p.SortBy != column:
		return ""
	case p.Desc:
		return "↓"
	default:
		return "↑"
	}
}

// HomeLink prefills the search form with q.
func HomeLink(q string) string {
	if q == "" {
		return "/"
	}

	return "/?" + url.Values{"q": {q}}.Encode()
}

func transactionValues(expanded layout.ExpansionSet, width int) url.Values {
	v := url.Values{}
	// An empty expanded parameter is meaningful, so it is always sent.
	v.Set("expanded", expanded.String())

	if width > 0 {
		v.Set("width", strconv.Itoa(width))
	}

	return v
}

// TransactionLink is the detail page of id in its initial state.
func TransactionLink(id string) string {
	return "/transaction/" + url.PathEscape(id)
}

// ToggleLink is the detail page with section flipped.
func ToggleLink(id string, expanded layout.ExpansionSet, section string, width int) string {
	v := transactionValues(expanded.Toggle(section), width)

	return TransactionLink(id) + "?" + v.Encode() + "#" + url.PathEscape(section)
}

func LayoutLink(id string, expanded layout.ExpansionSet, width int) string {
	return "/api/transaction/" + url.PathEscape(id) + "/layout?" + transactionValues(expanded, width).Encode()
}

func ExportLink(id string) string {
	return TransactionLink(id) + "/export.csv"
}

var typeIcons = map[string]string{
	"timestamp":  "🕐",
	"status":     "✅",
	"score":      "📊",
	"percentage": "📈",
	"risk":       "⚠️",
	"ip":         "🌐",
	"technical":  "⚙️",
	"compliance": "🛡️",
	"model":      "🧠",
	"id":         "🆔",
	"volume":     "💰",
	"rate":       "📊",
	"hash":       "🔗",
}

// TypeIcon returns the glyph shown next to an item of the given type.
func TypeIcon(itemType string) string {
	if icon, ok := typeIcons[itemType]; ok {
		return icon
	}

	return "📋"
}

// NewItemView splits IST timestamps into date and time lines; the zone
// suffix is dropped.
func NewItemView(item model.DataItem) ItemView {
	view := ItemView{Key: item.Key, Value: item.Value, Type: item.Type, TypeIcon: TypeIcon(item.Type)}

	if item.Type == "timestamp" && strings.Contains(item.Value, "IST") {
		date, rest, ok := strings.Cut(item.Value, " ")
		if ok {
			clock, _, _ := strings.Cut(rest, " ")

			view.Timestamp = true
			view.Date = date
			view.Time = clock
		}
	}

	return view
}

func StatusClass(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "badge-green"
	case model.StatusPending:
		return "badge-amber"
	case model.StatusFailed:
		return "badge-red"
	default:
		return "badge-slate"
	}
}

// CategoryClass turns "Bill Payment" into "category-bill-payment".
func CategoryClass(category string) string {
	return "category-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

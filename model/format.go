package model

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Label returns the display form of a status, e.g. "Completed".
func (s Status) Label() string {
	return titleCaser.String(string(s))
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	default:
		return false
	}
}

// FormatINR formats an amount the way en-IN does: rupee sign, two
// decimals, the last three integer digits grouped, then groups of two
// (₹2,45,000.00).
func FormatINR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	return sign + "₹" + groupIndian(intPart) + "." + frac
}

// FormatINRWhole is FormatINR without the paise, as used in headers.
func FormatINRWhole(amount decimal.Decimal) string {
	full := FormatINR(amount.Round(0))

	return strings.TrimSuffix(full, ".00")
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}

	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(groups, ",") + "," + tail
}

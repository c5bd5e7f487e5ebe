package layout

import (
	"slices"
	"strings"
)

// DefaultExpandedSection is open when a detail page is first shown.
const DefaultExpandedSection = "payment-events"

// ExpansionSet holds the ids of expanded sections. It travels with each
// request, so values are treated as immutable: Toggle returns a copy.
type ExpansionSet map[string]struct{}

// NewExpansion builds a set from ids. Blank ids are ignored.
func NewExpansion(ids ...string) ExpansionSet {
	s := make(ExpansionSet, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			s[id] = struct{}{}
		}
	}

	return s
}

// DefaultExpansion is the initial state of a detail page.
func DefaultExpansion() ExpansionSet {
	return NewExpansion(DefaultExpandedSection)
}

// ParseExpansion reads a comma separated list of ids. present tells
// whether the parameter was sent at all: an absent parameter yields the
// default set, an empty one yields no expanded sections.
func ParseExpansion(raw string, present bool) ExpansionSet {
	if !present {
		return DefaultExpansion()
	}

	return NewExpansion(strings.Split(raw, ",")...)
}

// Has reports whether id is expanded.
func (s ExpansionSet) Has(id string) bool {
	_, ok := s[id]

	return ok
}

// Toggle returns a new set with id flipped.
func (s ExpansionSet) Toggle(id string) ExpansionSet {
	next := make(ExpansionSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}

	if next.Has(id) {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}

	return next
}

// Restrict returns the part of s naming one of the given sections.
func (s ExpansionSet) Restrict(sections []string) ExpansionSet {
	next := make(ExpansionSet, len(s))

	for _, id := range sections {
		if s.Has(id) {
			next[id] = struct{}{}
		}
	}

	return next
}

// IDs returns the sorted ids.
func (s ExpansionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// String is the stable query parameter form of the set.
func (s ExpansionSet) String() string {
	return strings.Join(s.IDs(), ",")
}

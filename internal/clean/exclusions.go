package clean

import "sort"

// DefaultAggregateLabel is the offence value the source uses for the
// all-offence total of a borough.
const DefaultAggregateLabel = "All recorded offences"

// DefaultExcludedBoroughs are rollup areas published alongside the boroughs.
var DefaultExcludedBoroughs = []string{
	"England and Wales",
	"England",
	"London",
	"Inner London",
	"Outer London",
	"National",
}

// Exclusions decides which rows are not real (borough, offence) observations.
type Exclusions struct {
	aggregateLabel string
	boroughs       map[string]struct{}
}

// NewExclusions creates an exclusion set. An empty aggregateLabel excludes
// no offence.
func NewExclusions(aggregateLabel string, boroughs []string) Exclusions {
	set := make(map[string]struct{}, len(boroughs))
	for _, b := range boroughs {
		set[b] = struct{}{}
	}
	return Exclusions{
		aggregateLabel: aggregateLabel,
		boroughs:       set,
	}
}

// DefaultExclusions returns the exclusion set for the London dataset.
func DefaultExclusions() Exclusions {
	return NewExclusions(DefaultAggregateLabel, DefaultExcludedBoroughs)
}

// Excluded reports whether a row with the given borough and offence must be
// dropped.
func (e Exclusions) Excluded(borough, offence string) bool {
	if e.aggregateLabel != "" && offence == e.aggregateLabel {
		return true
	}
	_, ok := e.boroughs[borough]
	return ok
}

// AggregateLabel returns the excluded offence label.
func (e Exclusions) AggregateLabel() string {
	return e.aggregateLabel
}

// Boroughs returns the excluded boroughs, sorted.
func (e Exclusions) Boroughs() []string {
	out := make([]string, 0, len(e.boroughs))
	for b := range e.boroughs {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

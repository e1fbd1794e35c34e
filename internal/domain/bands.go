package domain

import (
	"math"
	"strings"
)

// Step is one rung of a band ladder: values strictly below Threshold that
// did not match an earlier rung get Label.
type Step struct {
	Threshold float64 `yaml:"below"`
	Label     string  `yaml:"label"`
}

// Ladder is an ordered set of thresholds mapping a monetary total to a band
// label. Steps must be sorted ascending by threshold; values at or above the
// last threshold get Top. Ladders differ per deployment, so they are
// configuration, not code.
type Ladder struct {
	Steps []Step `yaml:"steps"`
	Top   string `yaml:"top"`
}

// Band maps a value into the ladder. Total over all inputs: NaN, negative
// and zero fall into the lowest rung.
func (l Ladder) Band(v float64) string {
	if len(l.Steps) == 0 {
		return l.Top
	}
	if math.IsNaN(v) || v <= 0 {
		return l.Steps[0].Label
	}
	for _, s := range l.Steps {
		if v < s.Threshold {
			return s.Label
		}
	}
	return l.Top
}

// Labels returns every band label in ascending order, Top last.
func (l Ladder) Labels() []string {
	out := make([]string, 0, len(l.Steps)+1)
	for _, s := range l.Steps {
		out = append(out, s.Label)
	}
	if l.Top != "" {
		out = append(out, l.Top)
	}
	return out
}

// Lowest returns the label of the ladder's lowest rung.
func (l Ladder) Lowest() string {
	if len(l.Steps) == 0 {
		return l.Top
	}
	return l.Steps[0].Label
}

// DefaultFeeLadder buckets a client's annualized fees paid to the firm.
func DefaultFeeLadder() Ladder {
	return Ladder{
		Steps: []Step{
			{Threshold: 50_000, Label: "< $50K"},
			{Threshold: 100_000, Label: "$50K - $100K"},
			{Threshold: 250_000, Label: "$100K - $250K"},
			{Threshold: 500_000, Label: "$250K - $500K"},
			{Threshold: 1_000_000, Label: "$500K - $1M"},
			{Threshold: 2_000_000, Label: "$1M - $2M"},
			{Threshold: 5_000_000, Label: "$2M - $5M"},
			{Threshold: 10_000_000, Label: "$5M - $10M"},
		},
		Top: "> $10M",
	}
}

// DefaultRevenueLadder buckets a client's annualized revenue.
func DefaultRevenueLadder() Ladder {
	return Ladder{
		Steps: []Step{
			{Threshold: 10_000_000, Label: "< $10M"},
			{Threshold: 25_000_000, Label: "$10M - $25M"},
			{Threshold: 50_000_000, Label: "$25M - $50M"},
			{Threshold: 75_000_000, Label: "$50M - $75M"},
		},
		Top: "> $75M",
	}
}

// RevenueBand classifies a half-year monetary total. The input is doubled to
// annualize before bucketing. Nil input maps to the lowest band.
func RevenueBand(halfYearTotal *float64, ladder Ladder) string {
	if halfYearTotal == nil {
		return ladder.Lowest()
	}
	return ladder.Band(*halfYearTotal * 2)
}

// UnknownBand is returned for company-size text that matches nothing.
const UnknownBand = "Unknown"

// companySizePatterns is matched in order against the normalized input;
// broader phrases come after the specific ones they would shadow.
var companySizePatterns = []struct {
	match string
	label string
}{
	{"<$10m", "< $10M"},
	{"under$10m", "< $10M"},
	{"$10m-$50m", "$10M - $50M"},
	{"$50m-$100m", "$50M - $100M"},
	{"$100m-$500m", "$100M - $500M"},
	{"$500m-$1b", "$500M - $1B"},
	{"$1b-$3b", "$1B - $3B"},
	{"$3b-$10b", "$3B - $10B"},
	{">$10b", "> $10B"},
	{">$10billion", "> $10B"},
	{"over$10billion", "> $10B"},
	{"$10billion", "> $10B"},
}

// CompanySizeBand maps a free-text company-revenue description onto the fixed
// band taxonomy. Matching is case-insensitive and ignores whitespace; any
// unrecognized or empty input maps to UnknownBand.
func CompanySizeBand(text string) string {
	normalized := strings.ToLower(text)
	normalized = strings.Join(strings.Fields(normalized), "")
	if normalized == "" {
		return UnknownBand
	}
	for _, p := range companySizePatterns {
		if strings.Contains(normalized, p.match) {
			return p.label
		}
	}
	return UnknownBand
}

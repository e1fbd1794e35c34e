package domain

import "time"

// Selection is the set of active filter predicates. It is a value object:
// the presentation layer builds a fresh Selection on every interaction and
// passes it in, nothing holds one as shared mutable state. An empty set on
// any dimension means that dimension is not filtered.
type Selection struct {
	From *time.Time
	To   *time.Time

	Attorneys      []string
	PracticeGroups []string
	Clients        []string
	Matters        []string
	FeeTypes       []string
	ActivityTypes  []string
	RevenueBands   []string
}

// DateBounded reports whether both ends of the date range are chosen.
// With only one bound picked the date filter is skipped entirely.
func (s Selection) DateBounded() bool {
	return s.From != nil && s.To != nil
}

// Empty reports whether the selection filters nothing.
func (s Selection) Empty() bool {
	return !s.DateBounded() &&
		len(s.Attorneys) == 0 &&
		len(s.PracticeGroups) == 0 &&
		len(s.Clients) == 0 &&
		len(s.Matters) == 0 &&
		len(s.FeeTypes) == 0 &&
		len(s.ActivityTypes) == 0 &&
		len(s.RevenueBands) == 0
}

// Apply returns the entries matching every active predicate. The input slice
// is never mutated; concurrent filter passes over the same dataset are safe.
func (s Selection) Apply(entries []TimeEntry) []TimeEntry {
	out := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if s.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single entry passes the conjunction of all
// active predicates. The date range is inclusive on both ends and compares
// the service date only.
func (s Selection) Matches(e TimeEntry) bool {
	if s.DateBounded() {
		if e.ServiceDate.Before(*s.From) || e.ServiceDate.After(*s.To) {
			return false
		}
	}
	return inSet(e.Attorney, s.Attorneys) &&
		inSet(e.PracticeGroup, s.PracticeGroups) &&
		inSet(e.Client, s.Clients) &&
		inSet(e.Matter, s.Matters) &&
		inSet(e.FeeType, s.FeeTypes) &&
		inSet(e.ActivityType, s.ActivityTypes)
}

// MatchesBand is applied after band assignment, since bands are derived from
// the aggregation pass rather than stored on entries.
func (s Selection) MatchesBand(band string) bool {
	return inSet(band, s.RevenueBands)
}

func inSet(v string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func filterFixture() []TimeEntry {
	return []TimeEntry{
		{ID: "1", ServiceDate: date(2024, 1, 15), Attorney: "A. Smith", Client: "Acme", PracticeGroup: "CORP", FeeType: "Time", ActivityType: "Billable"},
		{ID: "2", ServiceDate: date(2024, 2, 10), Attorney: "A. Smith", Client: "Globex", PracticeGroup: "LIT", FeeType: "Fixed", ActivityType: "Billable"},
		{ID: "3", ServiceDate: date(2024, 3, 5), Attorney: "B. Jones", Client: "Acme", PracticeGroup: "CORP", FeeType: "Time", ActivityType: "Non-Billable"},
		{ID: "4", ServiceDate: date(2024, 4, 1), Attorney: "C. Lee", Client: "Initech", PracticeGroup: "IP", FeeType: "Time", ActivityType: "Billable"},
	}
}

func ids(entries []TimeEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func assertIDs(t *testing.T, got []TimeEntry, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestSelectionEmptyIsNoOp(t *testing.T) {
	entries := filterFixture()
	got := Selection{}.Apply(entries)
	assertIDs(t, got, "1", "2", "3", "4")
}

func TestSelectionSetMembership(t *testing.T) {
	entries := filterFixture()

	got := Selection{Attorneys: []string{"A. Smith"}}.Apply(entries)
	assertIDs(t, got, "1", "2")

	got = Selection{PracticeGroups: []string{"CORP"}}.Apply(entries)
	assertIDs(t, got, "1", "3")

	got = Selection{Clients: []string{"Acme"}, FeeTypes: []string{"Time"}}.Apply(entries)
	assertIDs(t, got, "1", "3")
}

func TestSelectionDateRangeInclusive(t *testing.T) {
	entries := filterFixture()
	from := date(2024, 1, 15)
	to := date(2024, 3, 5)

	got := Selection{From: &from, To: &to}.Apply(entries)
	assertIDs(t, got, "1", "2", "3")
}

func TestSelectionIncompleteDateRangeIgnored(t *testing.T) {
	entries := filterFixture()
	from := date(2024, 3, 1)

	// Only one bound chosen: no date filtering at all.
	got := Selection{From: &from}.Apply(entries)
	assertIDs(t, got, "1", "2", "3", "4")

	to := date(2024, 2, 1)
	got = Selection{To: &to}.Apply(entries)
	assertIDs(t, got, "1", "2", "3", "4")
}

func TestSelectionCompositionOrderIndependent(t *testing.T) {
	entries := filterFixture()
	from := date(2024, 1, 1)
	to := date(2024, 3, 31)

	combined := Selection{
		From:           &from,
		To:             &to,
		Attorneys:      []string{"A. Smith", "B. Jones"},
		PracticeGroups: []string{"CORP"},
	}.Apply(entries)

	// Same predicates applied one dimension at a time.
	sequential := Selection{PracticeGroups: []string{"CORP"}}.Apply(
		Selection{Attorneys: []string{"A. Smith", "B. Jones"}}.Apply(
			Selection{From: &from, To: &to}.Apply(entries)))

	assertIDs(t, combined, ids(sequential)...)
}

func TestSelectionDoesNotMutateInput(t *testing.T) {
	entries := filterFixture()
	Selection{Attorneys: []string{"C. Lee"}}.Apply(entries)
	assertIDs(t, entries, "1", "2", "3", "4")
}

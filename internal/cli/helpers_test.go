package cli

import (
	"testing"
	"time"
)

func TestFilterFlagsSelection(t *testing.T) {
	f := filterFlags{
		from:      "2024-01-01",
		to:        "2024-06-30",
		attorneys: []string{"A. Smith"},
		bands:     []string{"$1M - $5M"},
	}

	sel, err := f.selection()
	if err != nil {
		t.Fatalf("selection() error = %v", err)
	}
	if !sel.DateBounded() {
		t.Error("selection not date bounded")
	}
	want := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	if !sel.To.Equal(want) {
		t.Errorf("To = %v, want %v", sel.To, want)
	}
	if len(sel.Attorneys) != 1 || len(sel.RevenueBands) != 1 {
		t.Errorf("selection lists not carried: %+v", sel)
	}
}

func TestFilterFlagsSelectionErrors(t *testing.T) {
	tests := []struct {
		name string
		f    filterFlags
	}{
		{"from without to", filterFlags{from: "2024-01-01"}},
		{"to without from", filterFlags{to: "2024-06-30"}},
		{"bad from", filterFlags{from: "01/01/2024", to: "2024-06-30"}},
		{"bad to", filterFlags{from: "2024-01-01", to: "June 30"}},
		{"reversed range", filterFlags{from: "2024-06-30", to: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.f.selection(); err == nil {
				t.Errorf("selection() = nil error, want failure")
			}
		})
	}
}

func TestFilterFlagsEmptySelection(t *testing.T) {
	var f filterFlags
	sel, err := f.selection()
	if err != nil {
		t.Fatalf("selection() error = %v", err)
	}
	if !sel.Empty() {
		t.Errorf("selection = %+v, want empty", sel)
	}
}

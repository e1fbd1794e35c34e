package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

type fakeProvider struct {
	ds  *domain.Dataset
	err error
}

func (p *fakeProvider) Dataset(context.Context) (*domain.Dataset, error) {
	return p.ds, p.err
}

type discardLogger struct{}

func (discardLogger) Debug(string) {}
func (discardLogger) Warn(string)  {}
func (discardLogger) Error(string) {}

func fptr(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func allColumns() map[domain.Column]bool {
	return map[domain.Column]bool{
		domain.ColServiceDate:   true,
		domain.ColAttorney:      true,
		domain.ColClient:        true,
		domain.ColMatter:        true,
		domain.ColPracticeGroup: true,
		domain.ColActivityType:  true,
		domain.ColHours:         true,
		domain.ColAmount:        true,
	}
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Entries: []domain.TimeEntry{
			{ID: "1", ServiceDate: date(2024, 1, 10), Attorney: "A. Smith", Client: "Acme", Matter: "M-1",
				PracticeGroup: "Corporate", ActivityType: "Billable", Hours: 10, Amount: 3000, TargetHours: fptr(10)},
			{ID: "2", ServiceDate: date(2024, 2, 12), Attorney: "A. Smith", Client: "Acme", Matter: "M-1",
				PracticeGroup: "Corporate", ActivityType: "Billable", Hours: 12, Amount: 3600, TargetHours: fptr(10)},
			{ID: "3", ServiceDate: date(2024, 2, 20), Attorney: "B. Jones", Client: "Globex", Matter: "M-2",
				PracticeGroup: "Litigation", ActivityType: "Non-Billable", Hours: 5, Amount: 0},
		},
		Attorneys: []domain.Attorney{
			{Name: "A. Smith", PipelineStage: domain.ActiveStage, TargetHours: fptr(10)},
		},
		ClientAttorneys: map[string]string{"Acme": "A. Smith"},
		Columns:         allColumns(),
		Warnings:        []string{"2 rows skipped"},
	}
}

func newTestService(ds *domain.Dataset) *Service {
	return NewService(&fakeProvider{ds: ds}, discardLogger{}, nil, Options{})
}

func TestDashboardSections(t *testing.T) {
	svc := newTestService(testDataset())
	d, err := svc.Dashboard(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	for name, got := range map[string]string{
		"overview":  d.OverviewErr,
		"attorneys": d.AttorneysErr,
		"clients":   d.ClientsErr,
		"groups":    d.GroupsErr,
		"trend":     d.TrendErr,
	} {
		if got != "" {
			t.Errorf("%s section error = %q, want none", name, got)
		}
	}

	if d.Overview.TotalHours != 27 {
		t.Errorf("TotalHours = %v, want 27", d.Overview.TotalHours)
	}
	if d.Overview.BillableEntries != 2 {
		t.Errorf("BillableEntries = %d, want 2", d.Overview.BillableEntries)
	}
	if d.Overview.Clients != 2 || d.Overview.Matters != 2 {
		t.Errorf("Clients/Matters = %d/%d, want 2/2", d.Overview.Clients, d.Overview.Matters)
	}
	// 22 billable hours over a 10h monthly target scaled across the
	// two-month window: 22 / 20 = 110%.
	if math.Abs(d.Overview.FirmUtilization-110) > 1e-9 {
		t.Errorf("FirmUtilization = %v, want 110", d.Overview.FirmUtilization)
	}
	if d.Overview.CurrentMonth == nil {
		t.Fatal("CurrentMonth = nil, want February bucket")
	}
	if got := d.Overview.CurrentMonth.Month; !got.Equal(date(2024, 2, 1)) {
		t.Errorf("CurrentMonth.Month = %v, want 2024-02-01", got)
	}

	if len(d.Attorneys) != 2 || d.Attorneys[0].Name != "A. Smith" {
		t.Fatalf("Attorneys = %+v, want A. Smith ranked first", d.Attorneys)
	}
	if len(d.Trend) != 2 {
		t.Errorf("Trend buckets = %d, want 2", len(d.Trend))
	}
	if len(d.Groups) != 2 {
		t.Errorf("Groups = %d, want 2", len(d.Groups))
	}
	if len(d.Warnings) != 1 {
		t.Errorf("Warnings = %v, want the load warning carried through", d.Warnings)
	}
}

func TestDashboardLeadAttorneyAnnotation(t *testing.T) {
	svc := newTestService(testDataset())
	d, err := svc.Dashboard(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	byName := map[string]ClientRow{}
	for _, r := range d.Clients {
		byName[r.Name] = r
	}
	if got := byName["Acme"].LeadAttorney; got != "A. Smith" {
		t.Errorf("Acme lead attorney = %q, want A. Smith", got)
	}
	if got := byName["Globex"].LeadAttorney; got != "" {
		t.Errorf("Globex lead attorney = %q, want empty", got)
	}
}

func TestDashboardBandFilter(t *testing.T) {
	svc := newTestService(testDataset())
	sel := domain.Selection{RevenueBands: []string{"< $50K"}}
	d, err := svc.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	// Both clients sit below the first fee-ladder step, so the band filter
	// keeps them; an unmatched band drops everything.
	if len(d.Clients) != 2 {
		t.Errorf("Clients = %d, want 2", len(d.Clients))
	}
	if d.Overview.TotalHours != 27 {
		t.Errorf("TotalHours = %v, want 27 with all clients in band", d.Overview.TotalHours)
	}

	sel = domain.Selection{RevenueBands: []string{"> $10M"}}
	d, err = svc.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if len(d.Clients) != 0 {
		t.Errorf("Clients = %d, want 0 for unmatched band", len(d.Clients))
	}
	// The band is a row predicate like the others: every section shrinks,
	// not just the client table.
	if d.Overview.TotalHours != 0 || d.Overview.TotalEntries != 0 {
		t.Errorf("Overview = %v hours / %d entries, want 0/0 for unmatched band",
			d.Overview.TotalHours, d.Overview.TotalEntries)
	}
	if len(d.Attorneys) != 0 {
		t.Errorf("Attorneys = %d, want 0 for unmatched band", len(d.Attorneys))
	}
	if len(d.Groups) != 0 {
		t.Errorf("Groups = %d, want 0 for unmatched band", len(d.Groups))
	}
	if len(d.Trend) != 0 {
		t.Errorf("Trend = %d buckets, want 0 for unmatched band", len(d.Trend))
	}
}

func TestDashboardBandFilterSingleClient(t *testing.T) {
	ds := testDataset()
	// Push Acme's annualized fees over the first ladder steps so the two
	// clients land in different bands.
	ds.Entries[0].Amount = 60_000

	svc := newTestService(ds)
	sel := domain.Selection{RevenueBands: []string{"$100K - $250K"}}
	d, err := svc.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if len(d.Clients) != 1 || d.Clients[0].Name != "Acme" {
		t.Fatalf("Clients = %+v, want Acme only", d.Clients)
	}
	// Globex's non-billable entry is gone from every aggregate.
	if d.Overview.TotalHours != 22 {
		t.Errorf("TotalHours = %v, want Acme's 22", d.Overview.TotalHours)
	}
	if len(d.Attorneys) != 1 || d.Attorneys[0].Name != "A. Smith" {
		t.Errorf("Attorneys = %+v, want A. Smith only", d.Attorneys)
	}
	if len(d.Groups) != 1 || d.Groups[0].Key != "Corporate" {
		t.Errorf("Groups = %+v, want Corporate only", d.Groups)
	}
}

func TestDashboardSelectionFilters(t *testing.T) {
	svc := newTestService(testDataset())
	from, to := date(2024, 2, 1), date(2024, 2, 29)
	sel := domain.Selection{From: &from, To: &to, Attorneys: []string{"A. Smith"}}
	d, err := svc.Dashboard(context.Background(), sel)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if d.Overview.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", d.Overview.TotalEntries)
	}
	if d.Overview.TotalHours != 12 {
		t.Errorf("TotalHours = %v, want 12", d.Overview.TotalHours)
	}
}

func TestDashboardColumnDegradation(t *testing.T) {
	ds := testDataset()
	delete(ds.Columns, domain.ColClient)
	delete(ds.Columns, domain.ColPracticeGroup)
	delete(ds.Columns, domain.ColServiceDate)

	svc := newTestService(ds)
	d, err := svc.Dashboard(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if d.ClientsErr == "" {
		t.Error("ClientsErr empty, want missing-column message")
	}
	if d.GroupsErr == "" {
		t.Error("GroupsErr empty, want missing-column message")
	}
	if d.TrendErr == "" {
		t.Error("TrendErr empty, want missing-column message")
	}
	if d.OverviewErr != "" {
		t.Errorf("OverviewErr = %q, want overview to survive", d.OverviewErr)
	}
	if d.AttorneysErr != "" {
		t.Errorf("AttorneysErr = %q, want attorneys to survive", d.AttorneysErr)
	}
	// The missing trend also suppresses the headline month.
	if d.Overview.CurrentMonth != nil {
		t.Errorf("CurrentMonth = %+v, want nil without a trend", d.Overview.CurrentMonth)
	}
}

func TestDashboardProviderError(t *testing.T) {
	svc := NewService(&fakeProvider{err: errors.New("no such file")}, discardLogger{}, nil, Options{})
	_, err := svc.Dashboard(context.Background(), domain.Selection{})
	if err == nil {
		t.Fatal("Dashboard() error = nil, want load failure")
	}
}

func TestDashboardPeriodsOverride(t *testing.T) {
	svc := NewService(&fakeProvider{ds: testDataset()}, discardLogger{}, nil, Options{PeriodsOverride: 1})
	d, err := svc.Dashboard(context.Background(), domain.Selection{})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	// Fixed single-period scaling: 22 billable hours over a 10h target.
	if math.Abs(d.Overview.FirmUtilization-220) > 1e-9 {
		t.Errorf("FirmUtilization = %v, want 220", d.Overview.FirmUtilization)
	}
}

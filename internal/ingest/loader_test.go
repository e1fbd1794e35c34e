package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

const entriesCSV = `Time Entry ID,Service Date,Invoice Date,Invoice Number,Associated Attorney,Client Name,Matter Name,PG,Sector,Activity Type,Fee Type,Hours,Amount,Rate
T1,2024-01-15,2024-02-01,INV-1,A. Smith,Acme,M-100,CORP,Tech,Billable,Time,10,"$2,000.00",200
T2,2024-01-20,2024-02-01,INV-1,A. Smith,Acme,M-100,CORP,Tech,Billable,Time,20,"$6,000.00",300
T3,not-a-date,2024-02-15,INV-2,B. Jones,Globex,M-200,LIT,Energy,Non-Billable,Fixed,5,(500.00),
`

const rosterCSV = `Attorney Name,Pipeline Stage,Target Hours/Month,Primary Practice Area,Legal Skill,Client Skill
A. Smith,Active,10,Corporate,3,2
B. Jones,Departed,120,Litigation,2,2
C. Lee,active,,IP,1,3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func TestReadEntries(t *testing.T) {
	entries, columns, warnings, err := ReadEntries(strings.NewReader(entriesCSV), 0)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.ID != "T1" || e.Attorney != "A. Smith" || e.Client != "Acme" {
		t.Errorf("first entry misparsed: %+v", e)
	}
	if !e.ServiceDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("service date misparsed: %v", e.ServiceDate)
	}
	if e.Hours != 10 || e.Amount != 2000 {
		t.Errorf("currency fields misparsed: hours=%v amount=%v", e.Hours, e.Amount)
	}
	if e.Rate == nil || *e.Rate != 200 {
		t.Errorf("rate misparsed: %v", e.Rate)
	}

	// Unparsable date degrades to the missing marker; parenthesized amount
	// is negative; empty rate stays nil.
	credit := entries[2]
	if !credit.ServiceDate.IsZero() {
		t.Errorf("bad date should be zero time, got %v", credit.ServiceDate)
	}
	if credit.Amount != -500 {
		t.Errorf("accounting negative misparsed: %v", credit.Amount)
	}
	if credit.Rate != nil {
		t.Errorf("empty rate should be nil, got %v", *credit.Rate)
	}

	for _, col := range []domain.Column{domain.ColHours, domain.ColAmount, domain.ColAttorney, domain.ColServiceDate} {
		if !columns[col] {
			t.Errorf("column %s not detected", col)
		}
	}
}

func TestReadEntriesMissingColumnsTolerated(t *testing.T) {
	csv := "Associated Attorney,Hours\nA. Smith,4\n"
	entries, columns, _, err := ReadEntries(strings.NewReader(csv), 0)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Hours != 4 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if columns[domain.ColAmount] {
		t.Error("amount column should be reported absent")
	}
	if entries[0].ID == "" {
		t.Error("entries without an exported ID must get a minted one")
	}
}

func TestReadEntriesMintedIDsDeterministic(t *testing.T) {
	csv := "Associated Attorney,Hours\nA. Smith,4\nB. Jones,2\n"
	first, _, _, err := ReadEntries(strings.NewReader(csv), 0)
	if err != nil {
		t.Fatal(err)
	}
	second, _, _, err := ReadEntries(strings.NewReader(csv), 0)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Error("minted IDs must be stable across loads of identical content")
	}
	if first[0].ID == first[1].ID {
		t.Error("distinct rows must get distinct IDs")
	}
}

func TestReadEntriesSkipRows(t *testing.T) {
	csv := "Export generated 2024-07-01\n,,\n" + "Associated Attorney,Hours\nA. Smith,4\n"
	entries, _, _, err := ReadEntries(strings.NewReader(csv), 2)
	if err != nil {
		t.Fatalf("ReadEntries with skip rows: %v", err)
	}
	if len(entries) != 1 || entries[0].Attorney != "A. Smith" {
		t.Fatalf("banner rows not skipped: %+v", entries)
	}
}

func TestReadAttorneysKeepsActiveOnly(t *testing.T) {
	roster, err := ReadAttorneys(strings.NewReader(rosterCSV), 0)
	if err != nil {
		t.Fatalf("ReadAttorneys: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected 2 active attorneys, got %d", len(roster))
	}
	if roster[0].Name != "A. Smith" || roster[1].Name != "C. Lee" {
		t.Errorf("wrong rows retained: %+v", roster)
	}
	if roster[0].TargetHours == nil || *roster[0].TargetHours != 10 {
		t.Errorf("target misparsed: %v", roster[0].TargetHours)
	}
	// Empty target stays nil rather than becoming zero.
	if roster[1].TargetHours != nil {
		t.Errorf("empty target should be nil, got %v", *roster[1].TargetHours)
	}
}

func TestLoadEnrichment(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Entries:   writeFile(t, dir, "entries.csv", entriesCSV),
		Attorneys: writeFile(t, dir, "roster.csv", rosterCSV),
	}

	ds, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if ds.Entries[0].TargetHours == nil || *ds.Entries[0].TargetHours != 10 {
		t.Errorf("target not joined onto entries: %v", ds.Entries[0].TargetHours)
	}
	// B. Jones is not active, so the join misses and warns.
	if ds.Entries[2].TargetHours != nil {
		t.Errorf("unmatched attorney should keep nil target, got %v", *ds.Entries[2].TargetHours)
	}
	found := false
	for _, w := range ds.Warnings {
		if strings.Contains(w, "no roster row") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a data-quality warning for unmatched names, got %v", ds.Warnings)
	}
}

func TestLoadMissingPrimaryIsFatal(t *testing.T) {
	if _, err := Load(Paths{Entries: filepath.Join(t.TempDir(), "absent.csv")}); err == nil {
		t.Fatal("missing primary source must fail the load")
	}
}

func TestLoadAuxiliaryDegrades(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Entries:   writeFile(t, dir, "entries.csv", entriesCSV),
		Attorneys: filepath.Join(dir, "absent-roster.csv"),
	}

	ds, err := Load(paths)
	if err != nil {
		t.Fatalf("auxiliary failure must not abort the load: %v", err)
	}
	if len(ds.Attorneys) != 0 {
		t.Errorf("expected empty roster, got %d rows", len(ds.Attorneys))
	}
	if len(ds.Warnings) == 0 {
		t.Error("expected a degradation warning")
	}
}

func TestLoadClientMap(t *testing.T) {
	dir := t.TempDir()
	clientMap := "Client Name,Lead Attorney\nAcme,A. Smith\nGlobex,B. Jones\n"
	paths := Paths{
		Entries:         writeFile(t, dir, "entries.csv", entriesCSV),
		AttorneyClients: writeFile(t, dir, "clients.csv", clientMap),
	}

	ds, err := Load(paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := map[string]string{"Acme": "A. Smith", "Globex": "B. Jones"}
	if !reflect.DeepEqual(ds.ClientAttorneys, want) {
		t.Errorf("client map = %v, want %v", ds.ClientAttorneys, want)
	}
}

func TestLoadIdempotent(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		Entries:   writeFile(t, dir, "entries.csv", entriesCSV),
		Attorneys: writeFile(t, dir, "roster.csv", rosterCSV),
	}

	first, err := Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Error("repeated loads of identical content must be structurally identical")
	}
	if !reflect.DeepEqual(first.Attorneys, second.Attorneys) {
		t.Error("roster differs between identical loads")
	}
}

func TestCacheReturnsSameDataset(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{Entries: writeFile(t, dir, "entries.csv", entriesCSV)}

	cache := NewCache()
	first, err := cache.Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("unchanged sources must hit the cache")
	}

	// Content change invalidates the key.
	writeFile(t, dir, "entries.csv", entriesCSV+"T9,2024-03-01,,,D. Kim,Initech,M-9,IP,,Billable,Time,1,100,\n")
	third, err := cache.Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("changed sources must miss the cache")
	}
	if len(third.Entries) != len(first.Entries)+1 {
		t.Errorf("expected one more entry after edit, got %d vs %d", len(third.Entries), len(first.Entries))
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file must fall back to defaults: %v", err)
	}
	if cfg.Sources.Entries != "SIX_FULL_MOS.csv" {
		t.Errorf("default entries source = %q", cfg.Sources.Entries)
	}
	if len(cfg.BillableActivities) == 0 {
		t.Error("expected default billable labels")
	}
	if cfg.FeeBands().Lowest() == "" {
		t.Error("expected a default fee ladder")
	}
}

func TestLoadDefaultDBPathUnderDataDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dataHome, "ogc-dashboard", "ogc-dashboard.db")
	if cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ogc-dashboard.yaml")
	content := `
sources:
  entries: data/entries.csv
  attorneys: data/roster.csv
  skip_rows:
    data/roster.csv: 2
billable_activities: ["Billable", "Billable - Fixed"]
utilization_periods: 6
fee_ladder:
  steps:
    - below: 100000
      label: "< $100K"
    - below: 1000000
      label: "$100K - $1M"
  top: "> $1M"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	paths := cfg.IngestPaths()
	if paths.Entries != "data/entries.csv" || paths.Attorneys != "data/roster.csv" {
		t.Errorf("sources misparsed: %+v", paths)
	}
	if paths.SkipRows["data/roster.csv"] != 2 {
		t.Errorf("skip rows misparsed: %v", paths.SkipRows)
	}
	if cfg.UtilizationPeriods != 6 {
		t.Errorf("utilization_periods = %d", cfg.UtilizationPeriods)
	}

	ladder := cfg.FeeBands()
	if got := ladder.Band(50_000); got != "< $100K" {
		t.Errorf("configured ladder not applied: %q", got)
	}
	if got := ladder.Band(2_000_000); got != "> $1M" {
		t.Errorf("configured top label not applied: %q", got)
	}
}

func TestClientBandsVariant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ogc-dashboard.yaml")
	if err := os.WriteFile(path, []byte("band_ladder: revenue\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ClientBands().Band(12_000_000); got != "$10M - $25M" {
		t.Errorf("revenue variant not selected: Band(12M) = %q", got)
	}

	// The fee ladder stays the default when no variant is chosen.
	cfg, err = Load(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.ClientBands().Band(30_000); got != "< $50K" {
		t.Errorf("default variant = %q, want fee ladder band", got)
	}
}

func TestLoadRejectsUnknownBandLadder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("band_ladder: quarterly\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("unknown band_ladder variant must be rejected")
	}
}

func TestLoadRejectsBadLadder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := `
fee_ladder:
  steps:
    - below: 100000
      label: "A"
    - below: 50000
      label: "B"
  top: "C"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("descending ladder thresholds must be rejected")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OGC_ENTRIES_CSV", "/exports/latest.csv")
	t.Setenv("OGC_DB_PATH", "/tmp/ogc.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sources.Entries != "/exports/latest.csv" {
		t.Errorf("env override not applied: %q", cfg.Sources.Entries)
	}
	if cfg.DBPath != "/tmp/ogc.db" {
		t.Errorf("db path override not applied: %q", cfg.DBPath)
	}
}

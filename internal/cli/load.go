package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aavadhan10/ogc-dashboard/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load CSV exports into the local store",
	Long: `Parse the billing system's CSV exports and persist them locally.

The time-entry export is required; the attorney roster, attorney-client
map and utilization export enrich the data when present. Re-running with
unchanged files is a no-op.

Examples:
  ogc-dashboard load
  ogc-dashboard load --entries SIX_FULL_MOS.csv --attorneys roster.csv
  ogc-dashboard load --force`,
	RunE: runLoad,
}

var (
	loadEntries     string
	loadAttorneys   string
	loadClients     string
	loadUtilization string
	loadForce       bool
)

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadEntries, "entries", "", "Time-entry export CSV (overrides config)")
	loadCmd.Flags().StringVar(&loadAttorneys, "attorneys", "", "Attorney roster CSV (overrides config)")
	loadCmd.Flags().StringVar(&loadClients, "clients", "", "Attorney-client map CSV (overrides config)")
	loadCmd.Flags().StringVar(&loadUtilization, "utilization", "", "Target-hours export CSV (overrides config)")
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "Reload even when the sources are unchanged")
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	paths := app.Config.IngestPaths()
	if loadEntries != "" {
		paths.Entries = loadEntries
	}
	if loadAttorneys != "" {
		paths.Attorneys = loadAttorneys
	}
	if loadClients != "" {
		paths.AttorneyClients = loadClients
	}
	if loadUtilization != "" {
		paths.Utilization = loadUtilization
	}

	fp, err := ingest.Fingerprint(paths)
	if err != nil {
		return err
	}

	stored, err := app.Store.Fingerprint(ctx)
	if err != nil {
		return err
	}
	if stored == fp && !loadForce {
		fmt.Println("Sources unchanged, nothing to do")
		return nil
	}

	started := time.Now()
	ds, err := app.Cache.Load(paths)
	if err != nil {
		return err
	}

	if err := app.Store.Replace(ctx, ds, fp); err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	app.Recorder.RecordLoad(ctx, len(ds.Entries), len(ds.Warnings), time.Since(started))

	fmt.Printf("Loaded %d entries, %d attorneys in %s\n",
		len(ds.Entries), len(ds.Attorneys), time.Since(started).Round(time.Millisecond))
	for _, w := range ds.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	return nil
}

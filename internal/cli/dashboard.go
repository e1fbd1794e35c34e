package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	apptui "github.com/aavadhan10/ogc-dashboard/internal/app/tui"
	"github.com/aavadhan10/ogc-dashboard/internal/ingest"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the terminal dashboard over the loaded dataset.

Changed CSV sources are reloaded automatically before the first render.
Filters given here pre-narrow every screen and can be refined on the
filter screen.

Examples:
  ogc-dashboard dashboard
  ogc-dashboard dashboard --from 2024-01-01 --to 2024-06-30
  ogc-dashboard dashboard --attorney "A. Smith" --band "$1M - $5M"`,
	RunE: runDashboard,
}

var dashboardFilters filterFlags

func init() {
	rootCmd.AddCommand(dashboardCmd)
	registerFilterFlags(dashboardCmd, &dashboardFilters)
}

func registerFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVar(&f.from, "from", "", "Start of the service-date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "End of the service-date range (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&f.attorneys, "attorney", nil, "Keep only these attorneys (repeatable)")
	cmd.Flags().StringArrayVar(&f.groups, "practice-group", nil, "Keep only these practice groups (repeatable)")
	cmd.Flags().StringArrayVar(&f.clients, "client", nil, "Keep only these clients (repeatable)")
	cmd.Flags().StringArrayVar(&f.matters, "matter", nil, "Keep only these matters (repeatable)")
	cmd.Flags().StringArrayVar(&f.feeTypes, "fee-type", nil, "Keep only these fee types (repeatable)")
	cmd.Flags().StringArrayVar(&f.activityTypes, "activity-type", nil, "Keep only these activity types (repeatable)")
	cmd.Flags().StringArrayVar(&f.bands, "band", nil, "Keep only these client revenue bands (repeatable)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	sel, err := dashboardFilters.selection()
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if err := syncStore(ctx, app); err != nil {
		return err
	}

	program := tea.NewProgram(apptui.NewApp(app.Service, sel), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// syncStore reloads the store when the CSV sources changed since the last
// load. A missing primary export is only fatal when the store is empty,
// so the dashboard still opens on previously loaded data.
func syncStore(ctx context.Context, app *AppContext) error {
	paths := app.Config.IngestPaths()

	fp, err := ingest.Fingerprint(paths)
	if err != nil {
		stored, serr := app.Store.Fingerprint(ctx)
		if serr == nil && stored != "" {
			fmt.Fprintf(os.Stderr, "warning: %v; using previously loaded data\n", err)
			return nil
		}
		return err
	}

	stored, err := app.Store.Fingerprint(ctx)
	if err != nil {
		return err
	}
	if stored == fp {
		return nil
	}

	ds, err := app.Cache.Load(paths)
	if err != nil {
		return err
	}
	if err := app.Store.Replace(ctx, ds, fp); err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export aggregates to JSON or CSV",
	Long: `Export dashboard aggregates for external analysis.

Examples:
  ogc-dashboard export attorneys --format json --output attorneys.json
  ogc-dashboard export clients --format csv
  ogc-dashboard export trends --from 2024-01-01 --to 2024-06-30`,
}

var exportAttorneysCmd = &cobra.Command{
	Use:   "attorneys",
	Short: "Export the attorney utilization table",
	RunE:  runExportAttorneys,
}

var exportClientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Export the client value table",
	RunE:  runExportClients,
}

var exportTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Export the monthly trend series",
	RunE:  runExportTrends,
}

// Flags
var (
	exportFormat  string
	exportOutput  string
	exportFilters filterFlags
)

func init() {
	rootCmd.AddCommand(exportCmd)
	for _, cmd := range []*cobra.Command{exportAttorneysCmd, exportClientsCmd, exportTrendsCmd} {
		exportCmd.AddCommand(cmd)
		cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv")
		cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
		registerFilterFlags(cmd, &exportFilters)
	}
}

func exportDashboard(ctx context.Context) (analytics.Dashboard, *AppContext, error) {
	sel, err := exportFilters.selection()
	if err != nil {
		return analytics.Dashboard{}, nil, err
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return analytics.Dashboard{}, nil, err
	}

	if err := syncStore(ctx, app); err != nil {
		_ = app.Close()
		return analytics.Dashboard{}, nil, err
	}

	d, err := app.Service.Dashboard(ctx, sel)
	if err != nil {
		_ = app.Close()
		return analytics.Dashboard{}, nil, err
	}
	return d, app, nil
}

type exportAttorneyRow struct {
	Name          string   `json:"name"`
	Hours         float64  `json:"hours"`
	BillableHours float64  `json:"billable_hours"`
	Fees          float64  `json:"fees"`
	AvgRate       *float64 `json:"avg_rate,omitempty"`
	TargetHours   *float64 `json:"target_hours,omitempty"`
	Utilization   float64  `json:"utilization,omitempty"`
	RankEligible  bool     `json:"rank_eligible"`
	Segment       string   `json:"segment"`
}

func runExportAttorneys(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, app, err := exportDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if d.AttorneysErr != "" {
		return fmt.Errorf("attorneys unavailable: %s", d.AttorneysErr)
	}

	rows := make([]exportAttorneyRow, 0, len(d.Attorneys))
	for _, m := range d.Attorneys {
		rows = append(rows, exportAttorneyRow{
			Name:          m.Name,
			Hours:         m.Hours,
			BillableHours: m.BillableHours,
			Fees:          m.Amount,
			AvgRate:       m.AvgRate(),
			TargetHours:   m.TargetHours,
			Utilization:   m.Utilization,
			RankEligible:  m.RankEligible,
			Segment:       m.SkillCell,
		})
	}

	header := []string{"name", "hours", "billable_hours", "fees", "avg_rate", "target_hours", "utilization", "rank_eligible", "segment"}
	return writeExport(rows, header, func(r exportAttorneyRow) []string {
		return []string{
			r.Name,
			fmt.Sprintf("%.2f", r.Hours),
			fmt.Sprintf("%.2f", r.BillableHours),
			fmt.Sprintf("%.2f", r.Fees),
			formatOptional(r.AvgRate),
			formatOptional(r.TargetHours),
			fmt.Sprintf("%.2f", r.Utilization),
			fmt.Sprintf("%t", r.RankEligible),
			r.Segment,
		}
	})
}

type exportClientRow struct {
	Name             string  `json:"name"`
	Fees             float64 `json:"fees"`
	Hours            float64 `json:"hours"`
	Matters          int     `json:"matters"`
	Band             string  `json:"band"`
	RetentionDays    int     `json:"retention_days"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	ChurnProbability float64 `json:"churn_probability"`
	LTV              float64 `json:"ltv"`
	LeadAttorney     string  `json:"lead_attorney,omitempty"`
}

func runExportClients(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, app, err := exportDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if d.ClientsErr != "" {
		return fmt.Errorf("clients unavailable: %s", d.ClientsErr)
	}

	rows := make([]exportClientRow, 0, len(d.Clients))
	for _, c := range d.Clients {
		rows = append(rows, exportClientRow{
			Name:             c.Name,
			Fees:             c.Amount,
			Hours:            c.Hours,
			Matters:          c.Matters,
			Band:             c.Band,
			RetentionDays:    c.RetentionDays,
			MonthlyRevenue:   c.MonthlyRevenue,
			ChurnProbability: c.ChurnProbability,
			LTV:              c.LTV,
			LeadAttorney:     c.LeadAttorney,
		})
	}

	header := []string{"name", "fees", "hours", "matters", "band", "retention_days", "monthly_revenue", "churn_probability", "ltv", "lead_attorney"}
	return writeExport(rows, header, func(r exportClientRow) []string {
		return []string{
			r.Name,
			fmt.Sprintf("%.2f", r.Fees),
			fmt.Sprintf("%.2f", r.Hours),
			fmt.Sprintf("%d", r.Matters),
			r.Band,
			fmt.Sprintf("%d", r.RetentionDays),
			fmt.Sprintf("%.2f", r.MonthlyRevenue),
			fmt.Sprintf("%.2f", r.ChurnProbability),
			fmt.Sprintf("%.2f", r.LTV),
			r.LeadAttorney,
		}
	})
}

type exportMonthRow struct {
	Month   string  `json:"month"`
	Hours   float64 `json:"hours"`
	Fees    float64 `json:"fees"`
	Clients int     `json:"clients"`
	Matters int     `json:"matters"`
	Entries int     `json:"entries"`
}

func runExportTrends(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	d, app, err := exportDashboard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if d.TrendErr != "" {
		return fmt.Errorf("trends unavailable: %s", d.TrendErr)
	}

	rows := make([]exportMonthRow, 0, len(d.Trend))
	for _, m := range d.Trend {
		rows = append(rows, exportMonthRow{
			Month:   m.Month.Format("2006-01"),
			Hours:   m.Hours,
			Fees:    m.Amount,
			Clients: m.Clients,
			Matters: m.Matters,
			Entries: m.Entries,
		})
	}

	header := []string{"month", "hours", "fees", "clients", "matters", "entries"}
	return writeExport(rows, header, func(r exportMonthRow) []string {
		return []string{
			r.Month,
			fmt.Sprintf("%.2f", r.Hours),
			fmt.Sprintf("%.2f", r.Fees),
			fmt.Sprintf("%d", r.Clients),
			fmt.Sprintf("%d", r.Matters),
			fmt.Sprintf("%d", r.Entries),
		}
	})
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// writeExport emits rows in the chosen format to the chosen destination.
func writeExport[T any](rows []T, header []string, toRecord func(T) []string) error {
	var output *os.File
	var err error
	if exportOutput != "" {
		output, err = os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = output.Close() }()
	} else {
		output = os.Stdout
	}

	switch exportFormat {
	case "json":
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rows); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case "csv":
		writer := csv.NewWriter(output)
		defer writer.Flush()

		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		for _, r := range rows {
			if err := writer.Write(toRecord(r)); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", exportFormat)
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(rows), exportOutput)
	}
	return nil
}

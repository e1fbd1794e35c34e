package analytics

import (
	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

// Overview contains the headline metrics for the dashboard's first tab.
type Overview struct {
	TotalHours      float64
	TotalAmount     float64
	AvgRate         *float64
	BillableEntries int
	TotalEntries    int
	Clients         int
	Matters         int

	// FirmUtilization is billable hours over the summed period-scaled
	// targets of attorneys that have one, as a percentage. Zero when no
	// attorney in the filtered set carries a target.
	FirmUtilization float64

	// CurrentMonth is the last chronological trend bucket, nil when the
	// filtered set is empty.
	CurrentMonth *domain.MonthSummary
}

// ClientRow is a client aggregation row annotated with the lead attorney
// from the attorney-client export, when that source was present.
type ClientRow struct {
	domain.ClientMetrics
	LeadAttorney string
}

// FilterOptions are the selectable values for the filter screen.
type FilterOptions struct {
	Attorneys      []string
	PracticeGroups []string
	RevenueBands   []string
}

// Dashboard is everything one render pass needs. Each section carries its
// own inline error so a single failing metric never blanks the whole view.
type Dashboard struct {
	Selection domain.Selection

	Overview    Overview
	OverviewErr string

	Attorneys    []domain.AttorneyMetrics
	AttorneysErr string

	Clients    []ClientRow
	ClientsErr string

	Groups    []domain.GroupSummary
	GroupsErr string

	Trend    []domain.MonthSummary
	TrendErr string

	// Warnings are load-time data-quality notes, shown but not fatal.
	Warnings []string
}

package screens

import (
	"github.com/aavadhan10/ogc-dashboard/internal/analytics"
	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

// DashboardLoadedMsg carries a freshly computed dashboard to every screen.
type DashboardLoadedMsg struct {
	Dashboard analytics.Dashboard
}

// DashboardErrorMsg reports a failed aggregation pass.
type DashboardErrorMsg struct {
	Err error
}

// FiltersAppliedMsg asks the app to re-aggregate under a new selection.
type FiltersAppliedMsg struct {
	Selection domain.Selection
}

package domain

import (
	"sort"
	"strings"
	"time"
)

// Summary holds the grouped totals computed for any grouping key.
// Sums over an empty group are zero, never an error.
type Summary struct {
	Hours    float64
	Amount   float64
	Clients  int
	Matters  int
	Invoices int
	Entries  int
}

// AvgRate is amount over hours. Nil when hours is zero — the presentation
// layer must never see Inf or NaN.
func (s Summary) AvgRate() *float64 {
	if s.Hours == 0 {
		return nil
	}
	rate := s.Amount / s.Hours
	return &rate
}

// Summarize computes the grouped totals over a set of entries.
func Summarize(entries []TimeEntry) Summary {
	var s Summary
	clients := map[string]struct{}{}
	matters := map[string]struct{}{}
	invoices := map[string]struct{}{}
	for _, e := range entries {
		s.Hours += e.Hours
		s.Amount += e.Amount
		s.Entries++
		if e.Client != "" {
			clients[e.Client] = struct{}{}
		}
		if e.Matter != "" {
			matters[e.Matter] = struct{}{}
		}
		if e.InvoiceNumber != "" {
			invoices[e.InvoiceNumber] = struct{}{}
		}
	}
	s.Clients = len(clients)
	s.Matters = len(matters)
	s.Invoices = len(invoices)
	return s
}

// IsBillable matches an activity type against the accepted billable labels,
// case-insensitively and ignoring surrounding whitespace.
func IsBillable(activityType string, labels []string) bool {
	activity := strings.TrimSpace(activityType)
	for _, l := range labels {
		if strings.EqualFold(activity, strings.TrimSpace(l)) {
			return true
		}
	}
	return false
}

// Periods counts the calendar months spanned by the entries' service dates,
// inclusive on both ends. Entries with a missing service date are ignored.
// Returns 0 when no dated entries exist.
func Periods(entries []TimeEntry) int {
	var first, last time.Time
	for _, e := range entries {
		if e.ServiceDate.IsZero() {
			continue
		}
		if first.IsZero() || e.ServiceDate.Before(first) {
			first = e.ServiceDate
		}
		if e.ServiceDate.After(last) {
			last = e.ServiceDate
		}
	}
	if first.IsZero() {
		return 0
	}
	return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
}

// Utilization is billable hours over the target for the window, as a
// percentage. The roster target is a monthly figure, so it is scaled by the
// number of months the window spans before dividing. A nil or non-positive
// target yields 0 and marks the attorney ineligible for utilization
// rankings, so a missing target is never shown as a real 0%.
func Utilization(billableHours float64, target *float64, periods int) (rate float64, eligible bool) {
	if target == nil || *target <= 0 {
		return 0, false
	}
	if periods < 1 {
		periods = 1
	}
	return billableHours / (*target * float64(periods)) * 100, true
}

// AttorneyMetrics is the per-attorney aggregation row.
type AttorneyMetrics struct {
	Name string
	Summary
	BillableHours float64
	TargetHours   *float64
	Utilization   float64
	RankEligible  bool
	SkillCell     string
}

// AttorneyRollup computes per-attorney metrics over filtered entries,
// sorted by total hours descending. The periods argument scales the monthly
// target; pass Periods(entries) for window-aware utilization, or a fixed
// override from configuration.
func AttorneyRollup(entries []TimeEntry, roster []Attorney, billableLabels []string, periods int) []AttorneyMetrics {
	byName := map[string][]TimeEntry{}
	for _, e := range entries {
		byName[e.Attorney] = append(byName[e.Attorney], e)
	}

	rosterByName := map[string]Attorney{}
	for _, a := range roster {
		rosterByName[a.Name] = a
	}

	out := make([]AttorneyMetrics, 0, len(byName))
	for name, group := range byName {
		m := AttorneyMetrics{
			Name:      name,
			Summary:   Summarize(group),
			SkillCell: "Unrated",
		}
		for _, e := range group {
			if IsBillable(e.ActivityType, billableLabels) {
				m.BillableHours += e.Hours
			}
			if m.TargetHours == nil && e.TargetHours != nil {
				m.TargetHours = e.TargetHours
			}
		}
		if a, ok := rosterByName[name]; ok {
			if m.TargetHours == nil {
				m.TargetHours = a.TargetHours
			}
			m.SkillCell = a.SkillCell()
		}
		m.Utilization, m.RankEligible = Utilization(m.BillableHours, m.TargetHours, periods)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Churn step function used by the lifetime-value estimate. A client whose
// last activity predates the dataset's most recent activity by more than 90
// days is presumed churning.
const (
	churnWindow    = 90 * 24 * time.Hour
	churnHigh      = 0.8
	churnLow       = 0.2
	daysPerMonth   = 30
	annualPayments = 12
)

// ClientMetrics is the per-client aggregation row. LTV is a deterministic
// heuristic proxy, not a statistical estimator: recent monthly revenue
// divided by an assumed churn probability, annualized.
type ClientMetrics struct {
	Name string
	Summary
	Sector           string
	FirstActivity    time.Time
	LastActivity     time.Time
	RetentionDays    int
	MonthlyRevenue   float64
	ChurnProbability float64
	LTV              float64
	Band             string
}

// ClientRollup computes per-client metrics over filtered entries, sorted by
// total amount descending. Band assignment uses the given ladder over the
// client's total amount for the loaded period, so it is stable across runs
// on identical filtered data.
func ClientRollup(entries []TimeEntry, ladder Ladder) []ClientMetrics {
	byName := map[string][]TimeEntry{}
	for _, e := range entries {
		if e.Client == "" {
			continue
		}
		byName[e.Client] = append(byName[e.Client], e)
	}

	anchor := MaxServiceDate(entries)

	out := make([]ClientMetrics, 0, len(byName))
	for name, group := range byName {
		m := ClientMetrics{Name: name, Summary: Summarize(group)}
		for _, e := range group {
			if e.ServiceDate.IsZero() {
				continue
			}
			if m.FirstActivity.IsZero() || e.ServiceDate.Before(m.FirstActivity) {
				m.FirstActivity = e.ServiceDate
			}
			if e.ServiceDate.After(m.LastActivity) {
				m.LastActivity = e.ServiceDate
			}
			if m.Sector == "" {
				m.Sector = e.Sector
			}
		}

		if !m.FirstActivity.IsZero() {
			m.RetentionDays = int(m.LastActivity.Sub(m.FirstActivity) / (24 * time.Hour))
		}

		months := m.RetentionDays / daysPerMonth
		if months < 1 {
			months = 1
		}
		m.MonthlyRevenue = m.Amount / float64(months)

		m.ChurnProbability = churnLow
		if !anchor.IsZero() && (m.LastActivity.IsZero() || anchor.Sub(m.LastActivity) > churnWindow) {
			m.ChurnProbability = churnHigh
		}
		m.LTV = m.MonthlyRevenue / m.ChurnProbability * annualPayments

		total := m.Amount
		m.Band = RevenueBand(&total, ladder)

		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GroupSummary is the aggregation row for a generic string key, such as a
// practice group or fee type.
type GroupSummary struct {
	Key string
	Summary
}

// GroupRollup aggregates entries by a caller-chosen key, sorted by total
// hours descending. Entries with an empty key are grouped under "(none)".
func GroupRollup(entries []TimeEntry, keyOf func(TimeEntry) string) []GroupSummary {
	byKey := map[string][]TimeEntry{}
	for _, e := range entries {
		key := keyOf(e)
		if key == "" {
			key = "(none)"
		}
		byKey[key] = append(byKey[key], e)
	}

	out := make([]GroupSummary, 0, len(byKey))
	for key, group := range byKey {
		out = append(out, GroupSummary{Key: key, Summary: Summarize(group)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hours != out[j].Hours {
			return out[i].Hours > out[j].Hours
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// MonthSummary is one calendar-month bucket of the trend series.
type MonthSummary struct {
	Month time.Time // first day of the month
	Summary
}

// MonthlyTrend buckets entries by the calendar month of their service date,
// sorted chronologically. Entries with a missing service date are dropped
// from the trend but still count in the flat totals elsewhere.
func MonthlyTrend(entries []TimeEntry) []MonthSummary {
	byMonth := map[time.Time][]TimeEntry{}
	for _, e := range entries {
		if e.ServiceDate.IsZero() {
			continue
		}
		month := time.Date(e.ServiceDate.Year(), e.ServiceDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] = append(byMonth[month], e)
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for month, group := range byMonth {
		out = append(out, MonthSummary{Month: month, Summary: Summarize(group)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Headline returns the last chronological bucket of a trend, the number
// shown as the current-month figure. ok is false for an empty trend and the
// caller renders a zero state instead.
func Headline(trend []MonthSummary) (MonthSummary, bool) {
	if len(trend) == 0 {
		return MonthSummary{}, false
	}
	return trend[len(trend)-1], true
}

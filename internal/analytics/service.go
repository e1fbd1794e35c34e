package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

// Options tune the aggregation pass per deployment.
type Options struct {
	// BillableLabels are the activity types counted as billable.
	BillableLabels []string

	// BandLadder assigns client bands; deployments pick the fee or
	// revenue variant in configuration.
	BandLadder domain.Ladder

	// PeriodsOverride pins the number of months the monthly target is
	// scaled by. Zero derives it from the filtered window.
	PeriodsOverride int
}

// Service runs the filter and aggregation pipeline for the dashboard.
// Every call re-runs the full pass against the provider's cached dataset;
// there is no incremental state to go stale.
type Service struct {
	provider DatasetProvider
	logger   Logger
	recorder Recorder
	opts     Options
}

// NewService creates an analytics service.
func NewService(provider DatasetProvider, logger Logger, recorder Recorder, opts Options) *Service {
	if len(opts.BillableLabels) == 0 {
		opts.BillableLabels = []string{"Billable"}
	}
	if len(opts.BandLadder.Steps) == 0 && opts.BandLadder.Top == "" {
		opts.BandLadder = domain.DefaultFeeLadder()
	}
	return &Service{provider: provider, logger: logger, recorder: recorder, opts: opts}
}

// Dashboard applies the selection and computes every section. A failure to
// obtain the dataset is the only fatal path; each section degrades to its
// own inline error text so the rest of the view stays interactive.
func (s *Service) Dashboard(ctx context.Context, sel domain.Selection) (Dashboard, error) {
	started := time.Now()

	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load dataset: %w", err)
	}

	filtered := sel.Apply(ds.Entries)
	if len(sel.RevenueBands) > 0 && ds.Has(domain.ColClient) {
		filtered = s.restrictToBands(filtered, sel)
	}
	periods := s.opts.PeriodsOverride
	if periods == 0 {
		periods = domain.Periods(filtered)
	}

	d := Dashboard{Selection: sel, Warnings: ds.Warnings}

	// Sections are independent; each goroutine writes only its own fields.
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Overview, d.OverviewErr = s.overview(ds, filtered, periods)
		return nil
	})

	g.Go(func() error {
		if !ds.Has(domain.ColAttorney) {
			d.AttorneysErr = "attorney column missing from export"
			return nil
		}
		d.Attorneys = domain.AttorneyRollup(filtered, ds.Attorneys, s.opts.BillableLabels, periods)
		return nil
	})

	g.Go(func() error {
		if !ds.Has(domain.ColClient) {
			d.ClientsErr = "client column missing from export"
			return nil
		}
		d.Clients = s.clients(ds, filtered, sel)
		return nil
	})

	g.Go(func() error {
		if !ds.Has(domain.ColPracticeGroup) {
			d.GroupsErr = "practice group column missing from export"
			return nil
		}
		d.Groups = domain.GroupRollup(filtered, func(e domain.TimeEntry) string { return e.PracticeGroup })
		return nil
	})

	g.Go(func() error {
		if !ds.Has(domain.ColServiceDate) {
			d.TrendErr = "service date column missing from export"
			return nil
		}
		d.Trend = domain.MonthlyTrend(filtered)
		return nil
	})

	_ = g.Wait()

	if d.TrendErr == "" {
		if head, ok := domain.Headline(d.Trend); ok {
			d.Overview.CurrentMonth = &head
		}
	}

	if s.recorder != nil {
		s.recorder.RecordAggregation(ctx, len(filtered), time.Since(started))
	}
	s.logger.Debug(fmt.Sprintf("aggregated %d of %d entries in %s", len(filtered), len(ds.Entries), time.Since(started)))

	return d, nil
}

// FilterOptions enumerates the distinct values the filter screen offers,
// always drawn from the full dataset so narrowing one filter never hides
// the others' choices.
func (s *Service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return FilterOptions{}, fmt.Errorf("load dataset: %w", err)
	}

	attorneys := map[string]bool{}
	groups := map[string]bool{}
	for _, e := range ds.Entries {
		if e.Attorney != "" {
			attorneys[e.Attorney] = true
		}
		if e.PracticeGroup != "" {
			groups[e.PracticeGroup] = true
		}
	}

	return FilterOptions{
		Attorneys:      sortedKeys(attorneys),
		PracticeGroups: sortedKeys(groups),
		RevenueBands:   s.opts.BandLadder.Labels(),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Service) overview(ds *domain.Dataset, filtered []domain.TimeEntry, periods int) (Overview, string) {
	if !ds.Has(domain.ColHours) && !ds.Has(domain.ColAmount) {
		return Overview{}, "hours and amount columns missing from export"
	}

	sum := domain.Summarize(filtered)
	o := Overview{
		TotalHours:   sum.Hours,
		TotalAmount:  sum.Amount,
		AvgRate:      sum.AvgRate(),
		TotalEntries: sum.Entries,
		Clients:      sum.Clients,
		Matters:      sum.Matters,
	}

	var billableHours, scaledTargets float64
	if periods < 1 {
		periods = 1
	}
	seenTargets := map[string]bool{}
	for _, e := range filtered {
		if domain.IsBillable(e.ActivityType, s.opts.BillableLabels) {
			o.BillableEntries++
			billableHours += e.Hours
		}
		if e.TargetHours != nil && *e.TargetHours > 0 && !seenTargets[e.Attorney] {
			seenTargets[e.Attorney] = true
			scaledTargets += *e.TargetHours * float64(periods)
		}
	}
	if scaledTargets > 0 {
		o.FirmUtilization = billableHours / scaledTargets * 100
	}

	return o, ""
}

// restrictToBands keeps only entries billed to clients whose band is in
// the selection, so every section aggregates the same rows. Bands are
// assigned over the already filtered window; entries without a client name
// belong to no band and drop out.
func (s *Service) restrictToBands(entries []domain.TimeEntry, sel domain.Selection) []domain.TimeEntry {
	keep := map[string]bool{}
	for _, m := range domain.ClientRollup(entries, s.opts.BandLadder) {
		if sel.MatchesBand(m.Band) {
			keep[m.Name] = true
		}
	}
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if keep[e.Client] {
			out = append(out, e)
		}
	}
	return out
}

func (s *Service) clients(ds *domain.Dataset, filtered []domain.TimeEntry, sel domain.Selection) []ClientRow {
	rollup := domain.ClientRollup(filtered, s.opts.BandLadder)
	rows := make([]ClientRow, 0, len(rollup))
	for _, m := range rollup {
		if !sel.MatchesBand(m.Band) {
			continue
		}
		rows = append(rows, ClientRow{
			ClientMetrics: m,
			LeadAttorney:  ds.ClientAttorneys[m.Name],
		})
	}
	return rows
}

package cli

import (
	"fmt"
	"time"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

const flagDateLayout = "2006-01-02"

// filterFlags are the selection flags shared by dashboard and export.
type filterFlags struct {
	from          string
	to            string
	attorneys     []string
	groups        []string
	clients       []string
	matters       []string
	feeTypes      []string
	activityTypes []string
	bands         []string
}

// selection validates the flags and builds the domain selection. Date
// bounds come as a pair: one without the other is a usage error.
func (f *filterFlags) selection() (domain.Selection, error) {
	sel := domain.Selection{
		Attorneys:      f.attorneys,
		PracticeGroups: f.groups,
		Clients:        f.clients,
		Matters:        f.matters,
		FeeTypes:       f.feeTypes,
		ActivityTypes:  f.activityTypes,
		RevenueBands:   f.bands,
	}

	if (f.from == "") != (f.to == "") {
		return domain.Selection{}, fmt.Errorf("--from and --to must be given together")
	}
	if f.from == "" {
		return sel, nil
	}

	from, err := time.Parse(flagDateLayout, f.from)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", f.from)
	}
	to, err := time.Parse(flagDateLayout, f.to)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", f.to)
	}
	if to.Before(from) {
		return domain.Selection{}, fmt.Errorf("--to %s is before --from %s", f.to, f.from)
	}

	sel.From = &from
	sel.To = &to
	return sel, nil
}

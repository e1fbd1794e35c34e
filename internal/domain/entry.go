package domain

import "time"

// Column identifies a recognized column of the time-entry export.
type Column string

const (
	ColEntryID       Column = "entry_id"
	ColServiceDate   Column = "service_date"
	ColInvoiceDate   Column = "invoice_date"
	ColInvoiceNumber Column = "invoice_number"
	ColAttorney      Column = "attorney"
	ColClient        Column = "client"
	ColMatter        Column = "matter"
	ColPracticeGroup Column = "practice_group"
	ColSector        Column = "sector"
	ColActivityType  Column = "activity_type"
	ColFeeType       Column = "fee_type"
	ColHours         Column = "hours"
	ColAmount        Column = "amount"
	ColRate          Column = "rate"
)

// TimeEntry is one billing line item from the time-entry export.
// Rate is nullable in the source and is not always Amount/Hours.
type TimeEntry struct {
	ID            string
	ServiceDate   time.Time
	InvoiceDate   time.Time
	InvoiceNumber string
	Attorney      string
	Client        string
	Matter        string
	PracticeGroup string
	Sector        string
	ActivityType  string
	FeeType       string
	Hours         float64
	Amount        float64
	Rate          *float64

	// TargetHours is joined from the attorney roster at load time.
	// Nil when the entry's attorney has no roster row.
	TargetHours *float64
}

// Attorney is one row of the attorney roster.
type Attorney struct {
	Name          string
	PipelineStage string
	TargetHours   *float64
	PracticeArea  string
	LegalSkill    *float64
	ClientSkill   *float64
}

// ActiveStage is the pipeline-stage sentinel for attorneys kept after load.
const ActiveStage = "active"

// SkillCell places the attorney on the 3x3 legal-skill / client-skill grid.
// Returns "Unrated" when either score is missing.
func (a Attorney) SkillCell() string {
	if a.LegalSkill == nil || a.ClientSkill == nil {
		return "Unrated"
	}
	row := skillTier(*a.LegalSkill)
	col := skillTier(*a.ClientSkill)
	return gridLabels[row][col]
}

func skillTier(score float64) int {
	switch {
	case score >= 3:
		return 2
	case score >= 2:
		return 1
	default:
		return 0
	}
}

// gridLabels[legal][client], each axis low/mid/high.
var gridLabels = [3][3]string{
	{"Developing", "Relationship Builder", "Client Favorite"},
	{"Solid Practitioner", "Core Performer", "Trusted Advisor"},
	{"Technical Expert", "Senior Counsel", "Star Performer"},
}

// Dataset is the immutable result of one load pass. It is never mutated
// after creation; every filter pass produces a new entry slice.
type Dataset struct {
	Entries   []TimeEntry
	Attorneys []Attorney

	// ClientAttorneys maps client name to lead attorney, from the optional
	// attorney-client export. Empty when that source is absent.
	ClientAttorneys map[string]string

	Columns  map[Column]bool
	Warnings []string
}

// Has reports whether the source export carried the given column.
func (d *Dataset) Has(col Column) bool {
	return d.Columns[col]
}

// MaxServiceDate returns the most recent service date in the given entries,
// or the zero time when the slice is empty. Churn classification is anchored
// on this date, not on wall-clock time.
func MaxServiceDate(entries []TimeEntry) time.Time {
	var max time.Time
	for _, e := range entries {
		if e.ServiceDate.After(max) {
			max = e.ServiceDate
		}
	}
	return max
}

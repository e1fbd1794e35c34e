package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
)

// Paths names the source exports for one load pass. Entries is the primary
// source and is required; the rest are auxiliary and degrade to empty
// tables when missing or malformed.
type Paths struct {
	Entries         string
	Attorneys       string
	AttorneyClients string
	Utilization     string

	// SkipRows gives the fixed number of leading non-data rows per source,
	// keyed by path. The row count is a property of the export, not
	// detected dynamically.
	SkipRows map[string]int
}

// entryIDNamespace seeds deterministic IDs minted for rows whose export
// carries no entry identifier. The same row content always yields the same
// ID, so repeated loads of identical sources are identical.
var entryIDNamespace = uuid.MustParse("7ce1b6f0-55c3-4fb2-9e67-2c9b6c1b1a42")

// entryHeaders maps normalized export headers onto recognized columns.
// Exports reference columns by name, never by position.
var entryHeaders = map[string]domain.Column{
	"time entry id":       domain.ColEntryID,
	"entry id":            domain.ColEntryID,
	"id":                  domain.ColEntryID,
	"service date":        domain.ColServiceDate,
	"invoice date":        domain.ColInvoiceDate,
	"invoice number":      domain.ColInvoiceNumber,
	"invoice":             domain.ColInvoiceNumber,
	"associated attorney": domain.ColAttorney,
	"attorney":            domain.ColAttorney,
	"attorney name":       domain.ColAttorney,
	"client name":         domain.ColClient,
	"company name":        domain.ColClient,
	"client":              domain.ColClient,
	"matter name":         domain.ColMatter,
	"matter":              domain.ColMatter,
	"pg":                  domain.ColPracticeGroup,
	"practice group":      domain.ColPracticeGroup,
	"sector":              domain.ColSector,
	"industry":            domain.ColSector,
	"activity type":       domain.ColActivityType,
	"fee type":            domain.ColFeeType,
	"hours":               domain.ColHours,
	"quantity":            domain.ColHours,
	"amount":              domain.ColAmount,
	"billed amount":       domain.ColAmount,
	"rate":                domain.ColRate,
	"hourly rate":         domain.ColRate,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
}

// Load reads every source named in paths into an immutable Dataset. A
// failure on the primary time-entry source is fatal; auxiliary failures
// degrade to empty tables and are recorded as warnings. The result for
// identical source content is structurally identical across calls.
func Load(paths Paths) (*domain.Dataset, error) {
	f, err := os.Open(paths.Entries)
	if err != nil {
		return nil, fmt.Errorf("open time-entry export: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, columns, warnings, err := ReadEntries(f, paths.SkipRows[paths.Entries])
	if err != nil {
		return nil, fmt.Errorf("parse time-entry export: %w", err)
	}

	ds := &domain.Dataset{
		Entries:  entries,
		Columns:  columns,
		Warnings: warnings,
	}

	if paths.Attorneys != "" {
		roster, err := loadAttorneyFile(paths.Attorneys, paths.SkipRows[paths.Attorneys])
		if err != nil {
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("attorney roster unavailable, utilization disabled: %v", err))
		} else {
			ds.Attorneys = roster
		}
	}

	if paths.AttorneyClients != "" {
		clientMap, err := loadClientMap(paths.AttorneyClients, paths.SkipRows[paths.AttorneyClients])
		if err != nil {
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("attorney-client export unavailable: %v", err))
		} else {
			ds.ClientAttorneys = clientMap
		}
	}

	if paths.Utilization != "" {
		targets, err := loadTargetOverrides(paths.Utilization, paths.SkipRows[paths.Utilization])
		if err != nil {
			ds.Warnings = append(ds.Warnings, fmt.Sprintf("utilization export unavailable: %v", err))
		} else {
			applyTargetOverrides(ds.Attorneys, targets)
		}
	}

	enrich(ds)
	return ds, nil
}

// ReadEntries parses the primary time-entry table. Unparsable dates become
// the zero time rather than failing the row; rows that cannot be read at
// all are skipped with a warning. The returned column set records which
// recognized columns the export actually carried, so downstream metrics can
// degrade per column instead of aborting.
func ReadEntries(r io.Reader, skipRows int) ([]domain.TimeEntry, map[domain.Column]bool, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for i := 0; i < skipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, nil, nil, fmt.Errorf("skipping %d header rows: %w", skipRows, err)
		}
	}

	header, err := cr.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading header row: %w", err)
	}

	index := map[domain.Column]int{}
	columns := map[domain.Column]bool{}
	for i, h := range header {
		if col, ok := entryHeaders[normalizeHeader(h)]; ok {
			if _, seen := index[col]; !seen {
				index[col] = i
				columns[col] = true
			}
		}
	}
	if len(columns) == 0 {
		return nil, nil, nil, fmt.Errorf("no recognized columns in header %v", header)
	}

	var entries []domain.TimeEntry
	var warnings []string
	skipped := 0
	for rowNum := 1; ; rowNum++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		field := func(col domain.Column) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		e := domain.TimeEntry{
			ID:            field(domain.ColEntryID),
			ServiceDate:   parseDate(field(domain.ColServiceDate)),
			InvoiceDate:   parseDate(field(domain.ColInvoiceDate)),
			InvoiceNumber: field(domain.ColInvoiceNumber),
			Attorney:      field(domain.ColAttorney),
			Client:        field(domain.ColClient),
			Matter:        field(domain.ColMatter),
			PracticeGroup: field(domain.ColPracticeGroup),
			Sector:        field(domain.ColSector),
			ActivityType:  field(domain.ColActivityType),
			FeeType:       field(domain.ColFeeType),
			Hours:         parseAmount(field(domain.ColHours)),
			Amount:        parseAmount(field(domain.ColAmount)),
			Rate:          parseOptionalAmount(field(domain.ColRate)),
		}
		if e.ID == "" {
			e.ID = mintEntryID(rowNum, record)
		}
		entries = append(entries, e)
	}
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("skipped %d unreadable rows in time-entry export", skipped))
	}

	return entries, columns, warnings, nil
}

// mintEntryID derives a stable identifier from the row's position and
// content, so identical source files produce identical IDs.
func mintEntryID(rowNum int, record []string) string {
	seed := fmt.Sprintf("%d|%s", rowNum, strings.Join(record, "|"))
	return uuid.NewSHA1(entryIDNamespace, []byte(seed)).String()
}

var attorneyHeaders = map[string]string{
	"attorney name":          "name",
	"name":                   "name",
	"pipeline stage":         "stage",
	"stage":                  "stage",
	"target hours":           "target",
	"target hours/month":     "target",
	"monthly target":         "target",
	"target monthly hours":   "target",
	"practice area":          "area",
	"primary practice area":  "area",
	"legal skill":            "legal",
	"legal skills score":     "legal",
	"client skill":           "client",
	"client relations score": "client",
	"client relationship":    "client",
}

// ReadAttorneys parses the attorney roster, keeping only rows whose
// pipeline stage equals the active sentinel. Stage comparison is
// case-insensitive; a roster without a stage column keeps every row.
func ReadAttorneys(r io.Reader, skipRows int) ([]domain.Attorney, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for i := 0; i < skipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("skipping %d header rows: %w", skipRows, err)
		}
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	index := map[string]int{}
	for i, h := range header {
		if key, ok := attorneyHeaders[normalizeHeader(h)]; ok {
			if _, seen := index[key]; !seen {
				index[key] = i
			}
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("roster has no attorney name column")
	}
	_, hasStage := index["stage"]

	var roster []domain.Attorney
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		field := func(key string) string {
			i, ok := index[key]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		stage := field("stage")
		if hasStage && !strings.EqualFold(stage, domain.ActiveStage) {
			continue
		}

		name := field("name")
		if name == "" {
			continue
		}
		roster = append(roster, domain.Attorney{
			Name:          name,
			PipelineStage: stage,
			TargetHours:   parseOptionalAmount(field("target")),
			PracticeArea:  field("area"),
			LegalSkill:    parseOptionalAmount(field("legal")),
			ClientSkill:   parseOptionalAmount(field("client")),
		})
	}

	return roster, nil
}

func loadAttorneyFile(path string, skipRows int) ([]domain.Attorney, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadAttorneys(f, skipRows)
}

// loadClientMap reads the optional attorney-client export into a client to
// lead-attorney map. Column order is resolved by header name.
func loadClientMap(path string, skipRows int) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	for i := 0; i < skipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("skipping %d header rows: %w", skipRows, err)
		}
	}
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	clientIdx, attorneyIdx := -1, -1
	for i, h := range header {
		switch normalizeHeader(h) {
		case "client", "client name", "company name":
			if clientIdx < 0 {
				clientIdx = i
			}
		case "attorney", "attorney name", "associated attorney", "lead attorney":
			if attorneyIdx < 0 {
				attorneyIdx = i
			}
		}
	}
	if clientIdx < 0 || attorneyIdx < 0 {
		return nil, fmt.Errorf("attorney-client export needs client and attorney columns, got %v", header)
	}

	out := map[string]string{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || clientIdx >= len(record) || attorneyIdx >= len(record) {
			continue
		}
		client := strings.TrimSpace(record[clientIdx])
		attorney := strings.TrimSpace(record[attorneyIdx])
		if client == "" || attorney == "" {
			continue
		}
		if _, taken := out[client]; !taken {
			out[client] = attorney
		}
	}
	return out, nil
}

// loadTargetOverrides reads the optional utilization export, which some
// deployments use to override roster targets. The format is a two-column
// name/target table behind a fixed number of banner rows.
func loadTargetOverrides(path string, skipRows int) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	for i := 0; i < skipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, fmt.Errorf("skipping %d header rows: %w", skipRows, err)
		}
	}
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	targets := map[string]float64{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(record) < 2 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		if v := parseOptionalAmount(record[1]); v != nil {
			targets[name] = *v
		}
	}
	return targets, nil
}

func applyTargetOverrides(roster []domain.Attorney, targets map[string]float64) {
	for i := range roster {
		if t, ok := targets[roster[i].Name]; ok {
			override := t
			roster[i].TargetHours = &override
		}
	}
}

// enrich left-joins roster targets onto entries by attorney name. Entries
// whose attorney has no roster row keep a nil target; downstream
// utilization treats that as undefined, not zero. Unmatched names are a
// data-quality warning because name-based joins silently merge or miss.
func enrich(ds *domain.Dataset) {
	targets := map[string]*float64{}
	for _, a := range ds.Attorneys {
		targets[a.Name] = a.TargetHours
	}

	unmatched := map[string]struct{}{}
	for i := range ds.Entries {
		name := ds.Entries[i].Attorney
		if name == "" {
			continue
		}
		if target, ok := targets[name]; ok {
			ds.Entries[i].TargetHours = target
		} else if len(ds.Attorneys) > 0 {
			unmatched[name] = struct{}{}
		}
	}

	if len(unmatched) > 0 {
		names := make([]string, 0, len(unmatched))
		for n := range unmatched {
			names = append(names, n)
		}
		sort.Strings(names)
		const show = 5
		if len(names) > show {
			names = append(names[:show], fmt.Sprintf("and %d more", len(unmatched)-show))
		}
		ds.Warnings = append(ds.Warnings, fmt.Sprintf(
			"%d attorney names in the time-entry export have no roster row (%s)",
			len(unmatched), strings.Join(names, ", ")))
	}
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), " ")
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseAmount(s string) float64 {
	if v := parseOptionalAmount(s); v != nil {
		return *v
	}
	return 0
}

// parseOptionalAmount strips currency formatting and parses a float.
// Accounting-style parentheses are negative. Returns nil for empty or
// unparsable input.
func parseOptionalAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aavadhan10/ogc-dashboard/internal/domain"
	"github.com/aavadhan10/ogc-dashboard/internal/util"
)

// Store reads and writes datasets. It satisfies the analytics provider
// interface on the read side.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Fingerprint returns the content fingerprint of the stored dataset, or ""
// when the store is empty. Callers compare it against the CSV fingerprint
// to decide whether a reload is needed.
func (s *Store) Fingerprint(ctx context.Context) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM dataset_meta WHERE key = 'fingerprint'`).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read fingerprint: %w", err)
	}
	return fp, nil
}

// Replace swaps the stored dataset for ds in one transaction. The previous
// contents are fully removed so the store always mirrors exactly one load.
func (s *Store) Replace(ctx context.Context, ds *domain.Dataset, fingerprint string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"time_entries", "attorneys", "client_attorneys", "load_warnings", "dataset_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO time_entries (
			id, service_date, invoice_date, invoice_number, attorney, client,
			matter, practice_group, sector, activity_type, fee_type, hours,
			amount, rate, target_hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer entryStmt.Close()

	for _, e := range ds.Entries {
		_, err := entryStmt.ExecContext(ctx,
			e.ID,
			util.NullTime(e.ServiceDate),
			util.NullTime(e.InvoiceDate),
			util.NullString(e.InvoiceNumber),
			e.Attorney,
			e.Client,
			e.Matter,
			e.PracticeGroup,
			util.NullString(e.Sector),
			e.ActivityType,
			e.FeeType,
			e.Hours,
			e.Amount,
			util.NullFloat64(e.Rate),
			util.NullFloat64(e.TargetHours),
		)
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	for _, a := range ds.Attorneys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO attorneys (name, pipeline_stage, target_hours, practice_area, legal_skill, client_skill)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			a.Name,
			a.PipelineStage,
			util.NullFloat64(a.TargetHours),
			a.PracticeArea,
			util.NullFloat64(a.LegalSkill),
			util.NullFloat64(a.ClientSkill),
		)
		if err != nil {
			return fmt.Errorf("insert attorney %s: %w", a.Name, err)
		}
	}

	for client, attorney := range ds.ClientAttorneys {
		if _, err := tx.ExecContext(ctx, `INSERT INTO client_attorneys (client, attorney) VALUES (?, ?)`, client, attorney); err != nil {
			return fmt.Errorf("insert client attorney %s: %w", client, err)
		}
	}

	for _, w := range ds.Warnings {
		if _, err := tx.ExecContext(ctx, `INSERT INTO load_warnings (message) VALUES (?)`, w); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	cols := make([]string, 0, len(ds.Columns))
	for col, present := range ds.Columns {
		if present {
			cols = append(cols, string(col))
		}
	}
	meta := map[string]string{
		"fingerprint": fingerprint,
		"columns":     strings.Join(cols, ","),
		"loaded_at":   time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dataset_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset: %w", err)
	}
	return nil
}

// Dataset loads the stored dataset. An empty store returns an error since
// the dashboard has nothing to render before the first load.
func (s *Store) Dataset(ctx context.Context) (*domain.Dataset, error) {
	fp, err := s.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}
	if fp == "" {
		return nil, fmt.Errorf("store is empty: run the load command first")
	}

	ds := &domain.Dataset{
		ClientAttorneys: map[string]string{},
		Columns:         map[domain.Column]bool{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, service_date, invoice_date, invoice_number, attorney, client,
		       matter, practice_group, sector, activity_type, fee_type, hours,
		       amount, rate, target_hours
		FROM time_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.TimeEntry
		var serviceDate, invoiceDate sql.NullTime
		var invoiceNumber, sector sql.NullString
		var rate, target sql.NullFloat64
		err := rows.Scan(
			&e.ID, &serviceDate, &invoiceDate, &invoiceNumber, &e.Attorney,
			&e.Client, &e.Matter, &e.PracticeGroup, &sector, &e.ActivityType,
			&e.FeeType, &e.Hours, &e.Amount, &rate, &target,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ServiceDate = util.NullTimeValue(serviceDate).UTC()
		e.InvoiceDate = util.NullTimeValue(invoiceDate).UTC()
		e.InvoiceNumber = util.NullStringValue(invoiceNumber)
		e.Sector = util.NullStringValue(sector)
		e.Rate = util.NullFloat64ToPtr(rate)
		e.TargetHours = util.NullFloat64ToPtr(target)
		ds.Entries = append(ds.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	attorneyRows, err := s.db.QueryContext(ctx, `
		SELECT name, pipeline_stage, target_hours, practice_area, legal_skill, client_skill
		FROM attorneys
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query attorneys: %w", err)
	}
	defer attorneyRows.Close()

	for attorneyRows.Next() {
		var a domain.Attorney
		var target, legal, client sql.NullFloat64
		if err := attorneyRows.Scan(&a.Name, &a.PipelineStage, &target, &a.PracticeArea, &legal, &client); err != nil {
			return nil, fmt.Errorf("scan attorney: %w", err)
		}
		a.TargetHours = util.NullFloat64ToPtr(target)
		a.LegalSkill = util.NullFloat64ToPtr(legal)
		a.ClientSkill = util.NullFloat64ToPtr(client)
		ds.Attorneys = append(ds.Attorneys, a)
	}
	if err := attorneyRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attorneys: %w", err)
	}

	caRows, err := s.db.QueryContext(ctx, `SELECT client, attorney FROM client_attorneys`)
	if err != nil {
		return nil, fmt.Errorf("query client attorneys: %w", err)
	}
	defer caRows.Close()
	for caRows.Next() {
		var client, attorney string
		if err := caRows.Scan(&client, &attorney); err != nil {
			return nil, fmt.Errorf("scan client attorney: %w", err)
		}
		ds.ClientAttorneys[client] = attorney
	}
	if err := caRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client attorneys: %w", err)
	}

	warningRows, err := s.db.QueryContext(ctx, `SELECT message FROM load_warnings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer warningRows.Close()
	for warningRows.Next() {
		var msg string
		if err := warningRows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		ds.Warnings = append(ds.Warnings, msg)
	}
	if err := warningRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warnings: %w", err)
	}

	var colList string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM dataset_meta WHERE key = 'columns'`).Scan(&colList)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	for _, col := range strings.Split(colList, ",") {
		if col != "" {
			ds.Columns[domain.Column(col)] = true
		}
	}

	return ds, nil
}

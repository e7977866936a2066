package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/parcelwatch/internal/records"
)

const itemColumns = `id, stage, apn, address, city, state, zip,
	record_date, doc_type, source_url, assessor_url, resolved_situs, resolved_at`

func scanItem(row pgx.Row) (records.Record, error) {
	var r records.Record
	err := row.Scan(&r.ID, &r.Stage, &r.APN, &r.Address, &r.City, &r.State, &r.Zip,
		&r.RecordDate, &r.DocType, &r.SourceURL, &r.AssessorURL, &r.ResolvedSitus, &r.ResolvedAt)
	return r, err
}

func collectItems(rows pgx.Rows) ([]records.Record, error) {
	defer rows.Close()
	var out []records.Record
	for rows.Next() {
		r, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}
	return out, nil
}

// ListItems returns every record ordered for display: by stage, then city,
// then address.
func (db *DB) ListItems(ctx context.Context) ([]records.Record, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY stage, city, address, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return collectItems(rows)
}

// InsertItems inserts records in one transaction. Records without an ID get
// one assigned. Any failure rolls back the whole batch.
func (db *DB) InsertItems(ctx context.Context, items []records.Record) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertItemsTx(ctx, tx, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

func insertItemsTx(ctx context.Context, tx pgx.Tx, items []records.Record) error {
	rows := make([][]any, 0, len(items))
	for _, r := range items {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		rows = append(rows, []any{
			r.ID, string(r.Stage), r.APN, r.Address, r.City, r.State, r.Zip,
			r.RecordDate, r.DocType, r.SourceURL, r.AssessorURL, r.ResolvedSitus, r.ResolvedAt,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"items"},
		[]string{"id", "stage", "apn", "address", "city", "state", "zip",
			"record_date", "doc_type", "source_url", "assessor_url", "resolved_situs", "resolved_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy items: %w", err)
	}
	return nil
}

// ReplaceTaxItems swaps the entire tax-delinquency stage for the given
// placeholder records in one transaction: the old rows are deleted and the
// new ones inserted, so readers never see a half-replaced list. Returns the
// number of rows removed and added.
func (db *DB) ReplaceTaxItems(ctx context.Context, items []records.Record) (removed, added int, err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin tax replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM items WHERE stage = $1`, string(records.StageTaxDelinquency))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete tax items: %w", err)
	}
	removed = int(tag.RowsAffected())

	if err := insertItemsTx(ctx, tx, items); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit tax replace: %w", err)
	}
	return removed, len(items), nil
}

// SelectUnresolved returns up to limit records that carry a parcel number
// but no resolved situs, in stable id order.
func (db *DB) SelectUnresolved(ctx context.Context, limit int) ([]records.Record, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE apn <> '' AND resolved_situs = ''
		 ORDER BY id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select unresolved items: %w", err)
	}
	return collectItems(rows)
}

// MarkAttempt records a resolution attempt without touching the resolved
// situs, so a failed retry never erases earlier data.
func (db *DB) MarkAttempt(ctx context.Context, id uuid.UUID, assessorURL string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE items SET assessor_url = $1, resolved_at = $2 WHERE id = $3`,
		assessorURL, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record attempt for item %s: %w", id, err)
	}
	return nil
}

// MarkResolved stores a validated situs along with the attempt metadata.
// An empty situs is rejected; MarkAttempt covers that case.
func (db *DB) MarkResolved(ctx context.Context, id uuid.UUID, assessorURL, situs string) error {
	if situs == "" {
		return fmt.Errorf("refusing to store empty situs for item %s", id)
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE items SET assessor_url = $1, resolved_situs = $2, resolved_at = $3 WHERE id = $4`,
		assessorURL, situs, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to store situs for item %s: %w", id, err)
	}
	return nil
}

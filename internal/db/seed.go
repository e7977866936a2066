package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/parcelwatch/internal/records"
	"github.com/jonathan/parcelwatch/internal/schemas"
)

// seedRecord mirrors the seed file's JSON shape, validated against
// schemas.SeedRecordsSchema before parsing.
type seedRecord struct {
	Stage      string `json:"stage"`
	APN        string `json:"apn"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	RecordDate string `json:"record_date"`
	DocType    string `json:"doc_type"`
	SourceURL  string `json:"source_url"`
}

// SeedFromFile loads seed records into the items table, but only when no
// tax-delinquency rows exist yet. Reseeding an already-populated table is a
// logged no-op so restarts never duplicate or clobber resolved data.
func (db *DB) SeedFromFile(ctx context.Context, path string) error {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT count(*) FROM items WHERE stage = $1`,
		string(records.StageTaxDelinquency),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check for existing tax items: %w", err)
	}
	if count > 0 {
		log.Printf("[seed] %d tax items already present, skipping seed", count)
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("[seed] seed file %s not found, skipping", path)
		return nil
	}

	schemaPath := schemas.ResolveSchemaPath(schemas.SeedRecordsSchema)
	if schemaPath == "" {
		return fmt.Errorf("seed schema %s not found", schemas.SeedRecordsSchema)
	}
	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		return fmt.Errorf("seed file %s rejected: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var seeds []seedRecord
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	items := make([]records.Record, 0, len(seeds))
	for _, s := range seeds {
		items = append(items, records.Record{
			ID:         uuid.New(),
			Stage:      records.ParseStage(s.Stage),
			APN:        s.APN,
			Address:    s.Address,
			City:       s.City,
			State:      s.State,
			Zip:        s.Zip,
			RecordDate: s.RecordDate,
			DocType:    s.DocType,
			SourceURL:  s.SourceURL,
		})
	}

	if err := db.InsertItems(ctx, items); err != nil {
		return fmt.Errorf("failed to insert seed items: %w", err)
	}
	log.Printf("[seed] inserted %d seed items from %s", len(items), path)
	return nil
}

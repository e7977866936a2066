package diffing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/parcelwatch/internal/records"
)

// Run identifies one point-in-time snapshot of the record store.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the snapshot/record access the engine needs. *db.DB satisfies it.
type Store interface {
	// LastRuns returns up to n most recent runs, newest first.
	LastRuns(ctx context.Context, n int) ([]Run, error)
	// SnapshotEntries returns every snapshot entry of a run.
	SnapshotEntries(ctx context.Context, runID int64) ([]Entry, error)
	// ListItems returns all live records ordered by (stage, city, address).
	ListItems(ctx context.Context) ([]records.Record, error)
}

// View is the presentation-ready output of one diff computation: the live
// records in display order, their classification, and the summary.
type View struct {
	Latest   *Run             `json:"latest,omitempty"`
	Previous *Run             `json:"previous,omitempty"`
	Items    []records.Record `json:"items"`
	Classes  map[uuid.UUID]Class
	Summary  Summary
	// DuplicateKeys surfaces identity collisions found in either run.
	DuplicateKeys []string
}

// Engine computes diffs against a snapshot store.
type Engine struct {
	store Store
}

// NewEngine returns an Engine reading from store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Latest diffs the most recent run against its predecessor. With a single
// run every key classifies NEW. With no runs at all it returns the live
// records with an all-zero summary and no classification. Both snapshots are
// read before classification begins, so the result is a function of two
// fixed point-in-time states.
func (e *Engine) Latest(ctx context.Context) (*View, error) {
	runs, err := e.store.LastRuns(ctx, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}

	view := &View{Classes: map[uuid.UUID]Class{}}

	var newEntries, oldEntries []Entry
	if len(runs) > 0 {
		view.Latest = &runs[0]
		if newEntries, err = e.store.SnapshotEntries(ctx, runs[0].ID); err != nil {
			return nil, fmt.Errorf("failed to load snapshot %d: %w", runs[0].ID, err)
		}
	}
	if len(runs) > 1 {
		view.Previous = &runs[1]
		if oldEntries, err = e.store.SnapshotEntries(ctx, runs[1].ID); err != nil {
			return nil, fmt.Errorf("failed to load snapshot %d: %w", runs[1].ID, err)
		}
	}

	if view.Latest != nil {
		res := Classify(newEntries, oldEntries)
		view.Classes = res.Classes
		view.Summary = res.Summary
		view.DuplicateKeys = res.DuplicateKeys
	}

	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	view.Items = items

	return view, nil
}

// ClassOf returns the classification for a live item. Records created after
// the latest snapshot default to UNCHANGED; with no run at all there is no
// classification and ClassOf returns "".
func (v *View) ClassOf(itemID uuid.UUID) Class {
	if v.Latest == nil {
		return ""
	}
	if c, ok := v.Classes[itemID]; ok {
		return c
	}
	return ClassUnchanged
}

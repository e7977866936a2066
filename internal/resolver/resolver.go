// Package resolver enriches tax-delinquency records that carry only a
// parcel number with a validated street address from the county assessor.
// Resolution is monotonic: a record's resolved situs, once set, is never
// cleared by a later failed attempt.
package resolver

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/parcelwatch/internal/records"
)

// DefaultConcurrency caps simultaneous assessor requests. The county site
// tolerates little parallelism.
const DefaultConcurrency = 4

// Store is the record access the resolver needs. *db.DB satisfies it.
type Store interface {
	// SelectUnresolved returns up to limit records with a parcel number
	// and no resolved situs, ordered by id ascending.
	SelectUnresolved(ctx context.Context, limit int) ([]records.Record, error)
	// MarkAttempt records a lookup attempt: assessor_url and resolved_at
	// are written, resolved_situs is left untouched.
	MarkAttempt(ctx context.Context, id uuid.UUID, assessorURL string) error
	// MarkResolved records a successful lookup: assessor_url,
	// resolved_at and the non-empty validated situs.
	MarkResolved(ctx context.Context, id uuid.UUID, assessorURL, situs string) error
}

// Lookup is the external per-parcel source. *assessor.Client satisfies it.
type Lookup interface {
	LookupURL(apn string) string
	FetchLocation(ctx context.Context, apn string) (string, error)
}

// Outcome is the terminal report of one resolve batch.
type Outcome struct {
	Processed  int `json:"processed"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
}

// Service runs resolve batches.
type Service struct {
	store       Store
	lookup      Lookup
	defaults    PostalDefaults
	concurrency int
}

// NewService returns a Service with the given collaborators. concurrency
// values below 1 fall back to DefaultConcurrency.
func NewService(store Store, lookup Lookup, defaults PostalDefaults, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{store: store, lookup: lookup, defaults: defaults, concurrency: concurrency}
}

// ResolveBatch selects up to maxItems unresolved parcel-bearing records and
// attempts to resolve each one. Items are looked up concurrently under the
// service's cap; each item's write-back is independent, so one failed or
// slow parcel never aborts the batch. Re-running after a fully resolved
// batch is a no-op: the selection predicate excludes resolved records.
func (s *Service) ResolveBatch(ctx context.Context, maxItems int) (Outcome, error) {
	items, err := s.store.SelectUnresolved(ctx, maxItems)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to select unresolved records: %w", err)
	}

	var (
		mu  sync.Mutex
		out = Outcome{Processed: len(items)}
	)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, item := range items {
		item := item
		g.Go(func() error {
			resolved := s.resolveOne(ctx, item)
			mu.Lock()
			if resolved {
				out.Resolved++
			} else {
				out.Unresolved++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // item errors are absorbed per item, never propagated

	return out, nil
}

// resolveOne performs a single per-parcel lookup and write-back. Every
// attempt, failed or not, records the assessor URL; only a validated
// street-number-bearing location sets the situs.
func (s *Service) resolveOne(ctx context.Context, rec records.Record) bool {
	lookupURL := s.lookup.LookupURL(rec.APN)

	loc, err := s.lookup.FetchLocation(ctx, rec.APN)
	if err != nil {
		log.Printf("[resolver] lookup failed for apn %s: %v", rec.APN, err)
		s.markAttempt(ctx, rec, lookupURL)
		return false
	}

	if !ValidSitus(loc) {
		// Page loaded but carried no street-number-bearing location:
		// treated as absence of data.
		s.markAttempt(ctx, rec, lookupURL)
		return false
	}

	situs := NormalizePostal(loc, s.defaults)
	if err := s.store.MarkResolved(ctx, rec.ID, lookupURL, situs); err != nil {
		log.Printf("[resolver] failed to store situs for apn %s: %v", rec.APN, err)
		return false
	}
	return true
}

func (s *Service) markAttempt(ctx context.Context, rec records.Record, lookupURL string) {
	if err := s.store.MarkAttempt(ctx, rec.ID, lookupURL); err != nil {
		log.Printf("[resolver] failed to record attempt for apn %s: %v", rec.APN, err)
	}
}

package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/parcelwatch/internal/diffing"
	"github.com/jonathan/parcelwatch/internal/importer"
	"github.com/jonathan/parcelwatch/internal/records"
	"github.com/jonathan/parcelwatch/internal/taxlist"
)

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// itemView is one record decorated for presentation: its change class
// against the latest diff plus outbound links.
type itemView struct {
	records.Record
	StageLabel string        `json:"stage_label"`
	Class      diffing.Class `json:"class,omitempty"`
	MapsURL    string        `json:"maps_url"`
	ListingURL string        `json:"listing_url,omitempty"`
}

// handleListItems returns every record with its classification against the
// two most recent snapshot runs.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Latest(r.Context())
	if err != nil {
		log.Printf("[server] diff failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load items")
		return
	}

	items := make([]itemView, 0, len(view.Items))
	for _, rec := range view.Items {
		items = append(items, itemView{
			Record:     rec,
			StageLabel: rec.Stage.Label(),
			Class:      view.ClassOf(rec.ID),
			MapsURL:    records.MapsURL(rec, s.parcelLookupURL(rec)),
			ListingURL: records.ListingURL(rec),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"items":          items,
		"latest_run":     view.Latest,
		"previous_run":   view.Previous,
		"summary":        view.Summary,
		"total":          view.Summary.Total(),
		"duplicate_keys": view.DuplicateKeys,
	})
}

// parcelLookupURL returns the per-parcel page for a record. A stored
// assessor URL wins; before any resolution attempt has run, records that
// carry a parcel number still get a lookup URL derived from it, so
// placeholder addresses never become the map query.
func (s *Server) parcelLookupURL(rec records.Record) string {
	if rec.AssessorURL != "" {
		return rec.AssessorURL
	}
	if rec.APN != "" {
		return s.lookup.LookupURL(rec.APN)
	}
	return ""
}

// handleCreateRun snapshots the current records under a new run and returns
// the resulting diff summary.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	run, captured, err := s.db.CreateRun(r.Context())
	if err != nil {
		log.Printf("[server] snapshot failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create snapshot run")
		return
	}

	view, err := s.engine.Latest(r.Context())
	if err != nil {
		log.Printf("[server] diff after snapshot failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "snapshot created but diff failed")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"run":      run,
		"captured": captured,
		"summary":  view.Summary,
	})
}

// handleImport parses a CSV request body and inserts its records. A
// malformed file imports nothing.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	recs, err := importer.ParseCSV(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.InsertItems(r.Context(), recs); err != nil {
		log.Printf("[server] import insert failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to store imported records")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]int{"imported": len(recs)})
}

// handleTaxRefresh replaces the tax-delinquency stage from the county's
// current delinquent-parcel PDF.
func (s *Server) handleTaxRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pdfURL := s.cfg.TaxListPDFURL
	if pdfURL == "" {
		discovered, err := taxlist.DiscoverPDFURL(ctx, s.cfg.TaxListPageURL)
		if err != nil {
			log.Printf("[server] PDF discovery failed, using fallback: %v", err)
		}
		pdfURL = discovered
	}

	apns, err := taxlist.FetchAPNs(ctx, pdfURL)
	if err != nil {
		log.Printf("[server] tax refresh failed: %v", err)
		s.errorResponse(w, http.StatusBadGateway, "failed to fetch delinquent parcel list")
		return
	}

	items := taxlist.PlaceholderRecords(apns, s.cfg.DefaultCity, s.cfg.DefaultState, s.cfg.DefaultZip)
	removed, added, err := s.db.ReplaceTaxItems(ctx, items)
	if err != nil {
		log.Printf("[server] tax replace failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to replace tax records")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"pdf_url": pdfURL,
		"removed": removed,
		"added":   added,
	})
}

// handleResolve runs one address resolution batch. The optional limit query
// parameter overrides the configured batch size.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.ResolveLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	outcome, err := s.resolver.ResolveBatch(r.Context(), limit)
	if err != nil {
		log.Printf("[server] resolve batch failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to run resolve batch")
		return
	}

	s.jsonResponse(w, http.StatusOK, outcome)
}

// handleReset drops and recreates all tables, then reapplies seed data.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.db.Reset(ctx); err != nil {
		log.Printf("[server] reset failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to reset database")
		return
	}
	if s.cfg.SeedFile != "" {
		if err := s.db.SeedFromFile(ctx, s.cfg.SeedFile); err != nil {
			log.Printf("[server] reseed failed: %v", err)
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

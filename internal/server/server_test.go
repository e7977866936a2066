package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/parcelwatch/internal/assessor"
	"github.com/jonathan/parcelwatch/internal/config"
	"github.com/jonathan/parcelwatch/internal/records"
)

// testServer builds a Server without a database connection. Only handlers
// that reject the request before touching storage are exercised here; the
// storage-backed paths are covered by the db integration tests.
func testServer() *Server {
	cfg := config.Defaults()
	return &Server{
		cfg:    cfg,
		lookup: assessor.NewClient(assessor.WithURLTemplate(cfg.AssessorURLTemplate)),
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleImport_BadCSVRejectedBeforeStorage(t *testing.T) {
	s := testServer()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing required column", "stage,address,city\nREO,5 Elm St,Winnemucca\n"},
		{"invalid row", "stage,address,city,state\nREO,,Winnemucca,NV\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.handleImport(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleResolve_BadLimit(t *testing.T) {
	s := testServer()

	for _, limit := range []string{"zero", "0", "-3", "1.5"} {
		req := httptest.NewRequest(http.MethodPost, "/resolve?limit="+limit, nil)
		rec := httptest.NewRecorder()
		s.handleResolve(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestMapsLink_UnattemptedParcelFallsBackToLookupPage(t *testing.T) {
	s := testServer()

	// A freshly replaced tax placeholder: parcel number set, no
	// resolution attempt yet, so AssessorURL is still empty.
	rec := records.Record{
		Stage:   records.StageTaxDelinquency,
		APN:     "15-0211-06",
		Address: records.PlaceholderAddress,
		City:    "Winnemucca",
		State:   "NV",
		Zip:     "89445",
	}

	got := records.MapsURL(rec, s.parcelLookupURL(rec))
	assert.Equal(t, "https://www.humboldtcountynv.gov/assessor/parcel-detail?apn=15021106", got,
		"placeholder address must never become the map query when the parcel page is derivable")
}

func TestParcelLookupURL(t *testing.T) {
	s := testServer()

	stored := records.Record{APN: "15-0211-06", AssessorURL: "https://assessor.test/p/15021106"}
	assert.Equal(t, "https://assessor.test/p/15021106", s.parcelLookupURL(stored),
		"a stored assessor URL wins over derivation")

	noParcel := records.Record{Address: "42 Elm St"}
	assert.Equal(t, "", s.parcelLookupURL(noParcel))
}

func TestWithCORS(t *testing.T) {
	s := testServer()
	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "preflight short-circuits")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code, "non-preflight passes through")
}

func TestNew_RequiresDatabaseURL(t *testing.T) {
	cfg := config.Defaults()
	cfg.DatabaseURL = ""
	cfg.SeedFile = ""

	_, err := New(cfg)
	assert.ErrorContains(t, err, "database URL is required")
}

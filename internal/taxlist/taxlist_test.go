package taxlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/parcelwatch/internal/records"
)

func TestExtractAPNs(t *testing.T) {
	text := `
	DELINQUENT TAX SALE LIST
	15-0211-06  SMITH, JOHN        $1,204.33
	15-0211-06  SMITH, JOHN        duplicate row
	02-0045-11  DOE, JANE          $890.00
	not-a-parcel 123-4567-89 1-0001-1
	07-1234-99  HOLDINGS LLC       $12.40
	`

	apns := ExtractAPNs(text)
	assert.Equal(t, []string{"15-0211-06", "02-0045-11", "07-1234-99"}, apns,
		"first occurrence order, duplicates dropped, malformed numbers ignored")
}

func TestExtractAPNs_BoundaryAnchored(t *testing.T) {
	assert.Empty(t, ExtractAPNs("915-0211-067"), "digits bleeding past the pattern do not match")
	assert.Empty(t, ExtractAPNs(""))
}

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name string
		href string
		text string
		want int
	}{
		{"delinquent parcel sale pdf", "/docs/2025-delinquent-sale-parcel-list.pdf", "", 5},
		{"parcel only", "/docs/parcel-list.pdf", "", 2},
		{"keywords in anchor text", "/DocumentCenter/View/8026", "Delinquent Sale Parcel List", 5},
		{"sale alone is not enough", "/docs/sale.pdf", "", 1},
		{"non-pdf ignored", "/pages/delinquent-parcels.html", "", 0},
		{"query string stripped", "/docs/parcel-list.pdf?v=3", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreCandidate(tt.href, tt.text))
		})
	}
}

func TestDiscoverPDFURL_PicksBestAnchor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<a href="/docs/minutes.pdf">Meeting minutes</a>
			<a href="/docs/2025-delinquent-sale-parcel-list.pdf">2025 list</a>
			<a href="/docs/sale.pdf">Surplus sale</a>
		</body></html>`))
	}))
	defer server.Close()

	got, err := DiscoverPDFURL(context.Background(), server.URL+"/213/Parcel-List")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/docs/2025-delinquent-sale-parcel-list.pdf", got)
}

func TestDiscoverPDFURL_FallsBackWhenNothingScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/docs/budget.pdf">Budget</a></body></html>`))
	}))
	defer server.Close()

	got, err := DiscoverPDFURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, FallbackPDFURL, got)
}

func TestDiscoverPDFURL_FetchErrorStillReturnsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	got, err := DiscoverPDFURL(context.Background(), server.URL)
	assert.Error(t, err)
	assert.Equal(t, FallbackPDFURL, got, "callers can choose to proceed with the fallback")
}

func TestPlaceholderRecords(t *testing.T) {
	recs := PlaceholderRecords([]string{"15-0211-06", "02-0045-11"}, "Winnemucca", "NV", "89445")
	require.Len(t, recs, 2)

	for _, r := range recs {
		assert.Equal(t, records.StageTaxDelinquency, r.Stage)
		assert.Equal(t, records.PlaceholderAddress, r.Address)
		assert.Equal(t, "Winnemucca", r.City)
		assert.Equal(t, "NV", r.State)
		assert.Equal(t, "89445", r.Zip)
		assert.Empty(t, r.ResolvedSitus)
	}
	assert.Equal(t, "15-0211-06", recs[0].APN)
}

package notices

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/parcelwatch/internal/records"
)

func TestGuessAddress_LabeledLinesWin(t *testing.T) {
	text := "NOTICE OF TRUSTEE'S SALE\n" +
		"Property Address: 410 Baud St, Winnemucca, NV 89445\n" +
		"Recorded against 999 Other Rd, Winnemucca, NV 89445"

	assert.Equal(t, "410 Baud St, Winnemucca, NV 89445", GuessAddress(text))
}

func TestGuessAddress_SiteAndSitusLabels(t *testing.T) {
	assert.Equal(t, "12 Elm Ave", GuessAddress("Site Address: 12 Elm Ave"))
	assert.Equal(t, "77 Oak Ct", GuessAddress("SITUS: 77 Oak Ct."))
}

func TestGuessAddress_FreeTextFallback(t *testing.T) {
	text := "the real property located at 1205 W Fourth St, Winnemucca, NV 89445 together with"

	assert.Equal(t, "1205 W Fourth St, Winnemucca, NV 89445", GuessAddress(text))
}

func TestGuessAddress_WhitespaceCollapsed(t *testing.T) {
	assert.Equal(t, "410 Baud St", GuessAddress("Property Address:   410   Baud   St  "))
}

func TestGuessAddress_NothingFound(t *testing.T) {
	assert.Equal(t, "", GuessAddress("NOTICE OF DEFAULT recorded in Book 12"))
	assert.Equal(t, "", GuessAddress(""))
}

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want records.Stage
	}{
		{"trustee sale", "NOTICE OF TRUSTEE'S SALE under deed of trust", records.StageForeclosureSale},
		{"sheriff sale", "Sheriff's sale of real property", records.StageForeclosureSale},
		{"notice of default", "NOTICE OF DEFAULT AND ELECTION TO SELL", records.StagePreForeclosure},
		{"lis pendens", "LIS PENDENS filed in district court", records.StagePreForeclosure},
		{"bank owned", "Bank owned property available", records.StageREO},
		{"sale outranks default", "NOTICE OF TRUSTEE'S SALE following notice of default", records.StageForeclosureSale},
		{"unclassifiable", "Public hearing on zoning variance", records.StageOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStage(tt.text))
		})
	}
}

func TestDetailLinks(t *testing.T) {
	html := `<html><body>
		<a href="/Notice/Detail/101">Notice 101</a>
		<a href="/Notice/Detail/101">Notice 101 again</a>
		<a href="/Notice/Detail/102">Notice 102</a>
		<a href="/About">About</a>
	</body></html>`

	links, err := detailLinks(html, "https://notice.nv.gov/Search")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"https://notice.nv.gov/Notice/Detail/101",
		"https://notice.nv.gov/Notice/Detail/102",
	}, links)
}

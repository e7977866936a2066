package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasStreetNumber(t *testing.T) {
	assert.True(t, HasStreetNumber("100 Main St"))
	assert.True(t, HasStreetNumber("Lot 7, Paradise Valley"))
	assert.False(t, HasStreetNumber("Unknown address"))
	assert.False(t, HasStreetNumber(""))
	assert.False(t, HasStreetNumber("1234567 too long"))
}

func TestMapsURL_PrefersResolvedSitus(t *testing.T) {
	r := Record{
		Address:       "Unknown address",
		City:          "Winnemucca",
		State:         "NV",
		ResolvedSitus: "100 MAIN ST, WINNEMUCCA, NV 89445",
	}
	got := MapsURL(r, "https://assessor.example.com/parcel/12345678")
	assert.Contains(t, got, "google.com/maps/search")
	assert.Contains(t, got, "100+MAIN+ST")
}

func TestMapsURL_StreetAddressSecond(t *testing.T) {
	r := Record{Address: "42 Elm St", City: "Winnemucca", State: "NV", Zip: "89445"}
	got := MapsURL(r, "https://assessor.example.com/parcel/1")
	assert.Contains(t, got, "google.com/maps/search")
	assert.Contains(t, got, "42+Elm+St")
}

func TestMapsURL_FallsBackToLookup(t *testing.T) {
	r := Record{Address: PlaceholderAddress, City: "Winnemucca", State: "NV"}
	lookup := "https://assessor.example.com/parcel/12345678"
	assert.Equal(t, lookup, MapsURL(r, lookup))
}

func TestMapsURL_NoLookupStillProducesLink(t *testing.T) {
	r := Record{Address: PlaceholderAddress, City: "Winnemucca", State: "NV"}
	got := MapsURL(r, "")
	assert.Contains(t, got, "google.com/maps/search")
}

func TestListingURL(t *testing.T) {
	resolved := Record{ResolvedSitus: "100 MAIN ST, WINNEMUCCA, NV 89445"}
	assert.Contains(t, ListingURL(resolved), "zillow.com/homes/")

	street := Record{Address: "42 Elm St", City: "Winnemucca", State: "NV"}
	assert.Contains(t, ListingURL(street), "42+Elm+St")

	placeholder := Record{Address: PlaceholderAddress, City: "Winnemucca", State: "NV"}
	assert.Equal(t, "", ListingURL(placeholder), "no listing link without a genuine street address")
}

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "Tax Delinquency", StageTaxDelinquency.Label())
	assert.Equal(t, "Other", Stage("weird").Label())
}

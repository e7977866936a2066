package records

import (
	"net/url"
	"regexp"
	"strings"
)

// streetNumberRe matches a 1-6 digit street-number token. Anything longer is
// more likely a zip+4 or a parcel fragment than a house number.
var streetNumberRe = regexp.MustCompile(`\b\d{1,6}\b`)

// HasStreetNumber reports whether s contains a street-number token.
func HasStreetNumber(s string) bool {
	return streetNumberRe.MatchString(s)
}

// MapsURL builds a map-application deep link for a record. It prefers the
// resolved situs, then a street-number-bearing raw address, and finally
// falls back to lookupURL (the external per-parcel page) when no usable
// address exists. lookupURL may be empty, in which case the raw address is
// used even without a street number.
func MapsURL(r Record, lookupURL string) string {
	q := ""
	switch {
	case r.ResolvedSitus != "":
		q = r.ResolvedSitus
	case HasStreetNumber(r.Address):
		q = postalQuery(r.Address, r.City, r.State, r.Zip)
	case lookupURL != "":
		return lookupURL
	default:
		q = postalQuery(r.Address, r.City, r.State, r.Zip)
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

// ListingURL builds a listing-site search link. It returns "" unless the
// record carries a genuine street address (resolved situs or a
// street-number-bearing raw address).
func ListingURL(r Record) string {
	q := ""
	switch {
	case r.ResolvedSitus != "":
		q = r.ResolvedSitus
	case HasStreetNumber(r.Address) && r.Address != PlaceholderAddress:
		q = postalQuery(r.Address, r.City, r.State, r.Zip)
	default:
		return ""
	}
	return "https://www.zillow.com/homes/" + url.QueryEscape(q) + "_rb/"
}

func postalQuery(address, city, state, zip string) string {
	q := address + ", " + city + ", " + state
	if zip != "" {
		q += " " + zip
	}
	return strings.TrimSpace(q)
}

package resolver

import (
	"regexp"
	"strings"

	"github.com/jonathan/parcelwatch/internal/records"
)

// PostalDefaults supplies the city/state/zip appended to an extracted situs
// when the assessor text lacks them.
type PostalDefaults struct {
	City  string
	State string
	Zip   string
}

// DefaultPostal covers the county seat, where nearly all tracked parcels
// sit.
var DefaultPostal = PostalDefaults{City: "Winnemucca", State: "NV", Zip: "89445"}

// ValidSitus reports whether extracted location text qualifies as a street
// address: non-empty and carrying a street-number token. "Location ANYTOWN"
// style values fail.
func ValidSitus(loc string) bool {
	return strings.TrimSpace(loc) != "" && records.HasStreetNumber(loc)
}

// NormalizePostal turns a validated location line into a full postal string,
// appending each default component only when the text lacks it.
func NormalizePostal(loc string, d PostalDefaults) string {
	out := strings.TrimSpace(loc)
	if d.City != "" && !containsWordFold(out, d.City) {
		out += ", " + d.City
	}
	if d.State != "" && !containsWordFold(out, d.State) {
		out += ", " + d.State
	}
	if d.Zip != "" && !strings.Contains(out, d.Zip) {
		out += " " + d.Zip
	}
	return out
}

// containsWordFold reports whether s contains word as a whole
// case-insensitive token, so "NV" never matches inside "ENVY".
func containsWordFold(s, word string) bool {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(s)
}

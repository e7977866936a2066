package records

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintSep joins tracked fields before hashing. The unit separator
// cannot appear in normalized field text, so fields can never bleed into
// each other.
const fingerprintSep = "\x1f"

// Normalize canonicalizes field text for identity purposes: trim, lower-case
// and collapse internal whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// Key derives the stable identity of a record. Records carrying a parcel
// number key on stage+APN; records without one fall back to normalized
// address+city. Two records with the same APN and stage share a key even if
// every other field differs.
func Key(r Record) string {
	stage := Normalize(string(r.Stage))
	if apn := Normalize(r.APN); apn != "" {
		return stage + "|apn:" + apn
	}
	return stage + "|addr:" + Normalize(r.Address) + "|" + Normalize(r.City)
}

// Fingerprint derives the change-detection hash of a record. It covers every
// tracked field; untracked fields (ID, ResolvedAt) never affect it.
func Fingerprint(r Record) string {
	tracked := []string{
		string(r.Stage),
		r.APN,
		r.Address,
		r.City,
		r.State,
		r.Zip,
		r.RecordDate,
		r.DocType,
		r.SourceURL,
		r.AssessorURL,
		r.ResolvedSitus,
	}
	for i, f := range tracked {
		tracked[i] = Normalize(f)
	}
	sum := sha256.Sum256([]byte(strings.Join(tracked, fingerprintSep)))
	return hex.EncodeToString(sum[:])
}

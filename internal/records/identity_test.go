package records

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  100  Main   St ", "100 main st"},
		{"WINNEMUCCA", "winnemucca"},
		{"", ""},
		{"   ", ""},
		{"a\tb\nc", "a b c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Normalize(tt.input))
	}
}

func TestKey_PrefersAPN(t *testing.T) {
	a := Record{Stage: StageTaxDelinquency, APN: "12-3456-78", Address: "100 Main St", City: "Winnemucca"}
	b := Record{Stage: StageTaxDelinquency, APN: " 12-3456-78 ", Address: "Unknown address", City: "Elsewhere"}

	assert.Equal(t, "tax_delinquency|apn:12-3456-78", Key(a))
	assert.Equal(t, Key(a), Key(b), "same APN and stage must share a key regardless of other fields")
}

func TestKey_AddressFallback(t *testing.T) {
	a := Record{Stage: StagePreForeclosure, Address: "100 MAIN ST", City: "Winnemucca"}
	b := Record{Stage: StagePreForeclosure, Address: "  100  main st ", City: "WINNEMUCCA"}

	assert.Equal(t, Key(a), Key(b), "key must be invariant under case and whitespace")
	assert.Equal(t, "pre_foreclosure|addr:100 main st|winnemucca", Key(a))
}

func TestKey_StageSeparatesRecords(t *testing.T) {
	a := Record{Stage: StageREO, APN: "12-3456-78"}
	b := Record{Stage: StageForeclosureSale, APN: "12-3456-78"}
	assert.NotEqual(t, Key(a), Key(b))
}

func TestFingerprint_IgnoresUntrackedFields(t *testing.T) {
	now := time.Now()
	a := Record{ID: uuid.New(), Stage: StageREO, Address: "100 Main St", City: "Winnemucca", State: "NV"}
	b := a
	b.ID = uuid.New()
	b.ResolvedAt = &now

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_TrackedFieldChanges(t *testing.T) {
	base := Record{
		Stage:   StageTaxDelinquency,
		APN:     "12-3456-78",
		Address: "Unknown address",
		City:    "Winnemucca",
		State:   "NV",
		Zip:     "89445",
	}

	mutations := map[string]func(r *Record){
		"stage":          func(r *Record) { r.Stage = StageREO },
		"apn":            func(r *Record) { r.APN = "99-9999-99" },
		"address":        func(r *Record) { r.Address = "100 Main St" },
		"city":           func(r *Record) { r.City = "Elko" },
		"state":          func(r *Record) { r.State = "CA" },
		"zip":            func(r *Record) { r.Zip = "89801" },
		"record_date":    func(r *Record) { r.RecordDate = "2026-01-01" },
		"doc_type":       func(r *Record) { r.DocType = "Notice of Trustee Sale" },
		"source_url":     func(r *Record) { r.SourceURL = "https://example.com/doc" },
		"assessor_url":   func(r *Record) { r.AssessorURL = "https://example.com/parcel/12345678" },
		"resolved_situs": func(r *Record) { r.ResolvedSitus = "100 MAIN ST, WINNEMUCCA, NV 89445" },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			changed := base
			mutate(&changed)
			assert.NotEqual(t, Fingerprint(base), Fingerprint(changed),
				"changing %s must change the fingerprint", field)
		})
	}
}

func TestFingerprint_WhitespaceAndCaseInsensitive(t *testing.T) {
	a := Record{Stage: StageREO, Address: "100 Main St", City: "Winnemucca"}
	b := Record{Stage: StageREO, Address: " 100  MAIN st", City: "winnemucca "}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_FieldsDoNotBleed(t *testing.T) {
	// A value moved across a field boundary must not fingerprint equal.
	a := Record{Stage: StageOther, Address: "100 main", City: "st"}
	b := Record{Stage: StageOther, Address: "100", City: "main st"}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		input    string
		expected Stage
	}{
		{"TAX_DELINQUENCY", StageTaxDelinquency},
		{"tax_delinquency", StageTaxDelinquency},
		{" reo ", StageREO},
		{"PRE_FORECLOSURE", StagePreForeclosure},
		{"FORECLOSURE_SALE", StageForeclosureSale},
		{"bogus", StageOther},
		{"", StageOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseStage(tt.input), "input %q", tt.input)
	}
}

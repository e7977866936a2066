// Package records defines the property-distress record model and the pure
// identity/fingerprint functions used by the snapshot and diff engines.
package records

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage is the distress lifecycle category of a record.
type Stage string

// The fixed stage enumeration. Unrecognized values coerce to StageOther.
const (
	StagePreForeclosure  Stage = "PRE_FORECLOSURE"
	StageForeclosureSale Stage = "FORECLOSURE_SALE"
	StageREO             Stage = "REO"
	StageTaxDelinquency  Stage = "TAX_DELINQUENCY"
	StageOther           Stage = "OTHER"
)

// Stages lists every valid stage in display order.
var Stages = []Stage{
	StagePreForeclosure,
	StageForeclosureSale,
	StageREO,
	StageTaxDelinquency,
	StageOther,
}

// ParseStage maps free-form stage text onto the enumeration. Unknown or
// empty values coerce to StageOther.
func ParseStage(s string) Stage {
	switch Stage(strings.ToUpper(strings.TrimSpace(s))) {
	case StagePreForeclosure:
		return StagePreForeclosure
	case StageForeclosureSale:
		return StageForeclosureSale
	case StageREO:
		return StageREO
	case StageTaxDelinquency:
		return StageTaxDelinquency
	default:
		return StageOther
	}
}

// Label returns the human-readable form of a stage.
func (s Stage) Label() string {
	switch s {
	case StagePreForeclosure:
		return "Pre-Foreclosure"
	case StageForeclosureSale:
		return "Foreclosure / Sale"
	case StageREO:
		return "REO / Bank-Owned"
	case StageTaxDelinquency:
		return "Tax Delinquency"
	default:
		return "Other"
	}
}

// PlaceholderAddress marks tax-delinquency records whose street address has
// not been resolved yet.
const PlaceholderAddress = "Unknown address"

// Record is a single property-distress entry. ID and ResolvedAt are
// untracked for change detection; everything else feeds the fingerprint.
type Record struct {
	ID    uuid.UUID `json:"id"`
	Stage Stage     `json:"stage"`

	// APN is the county parcel number, empty when the source did not
	// supply one.
	APN string `json:"apn"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`

	// Provenance metadata.
	RecordDate string `json:"record_date"`
	DocType    string `json:"doc_type"`
	SourceURL  string `json:"source_url"`

	// AssessorURL is set whenever a per-parcel lookup is attempted,
	// success or not.
	AssessorURL string `json:"assessor_url"`

	// ResolvedSitus is the validated street address from the assessor
	// lookup. Once non-empty it is only ever replaced by another
	// non-empty validated value.
	ResolvedSitus string `json:"resolved_situs"`

	// ResolvedAt is the timestamp of the last resolution attempt.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

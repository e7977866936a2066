// Package importer parses operator-supplied CSV files into records. Parsing
// is all-or-nothing: any malformed row rejects the whole file so a partial
// import never reaches the database.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/parcelwatch/internal/records"
)

// requiredHeaders must all appear in the header row, case-insensitively.
var requiredHeaders = []string{"stage", "address", "city", "state"}

// row is one CSV line after header mapping, validated before conversion.
// Only presence of the mandatory fields is enforced; state and zip are
// carried as given (sources mix "NV", "Nevada" and zip+4 forms) and
// normalized, not rejected.
type row struct {
	Stage      string `validate:"required"`
	APN        string
	Address    string `validate:"required"`
	City       string `validate:"required"`
	State      string `validate:"required"`
	Zip        string
	RecordDate string
	DocType    string
	SourceURL  string `validate:"omitempty,url"`
}

var validate = validator.New()

// ParseCSV reads an entire CSV document and returns one record per data
// row. Each record gets a fresh ID. Unknown stage values coerce to OTHER;
// any structural or validation problem returns an error naming the line.
func ParseCSV(r io.Reader) ([]records.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var out []records.Record
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		rw := rowFromFields(fields, cols)
		if err := validate.Struct(rw); err != nil {
			return nil, fmt.Errorf("invalid CSV line %d: %w", line, err)
		}

		out = append(out, records.Record{
			ID:         uuid.New(),
			Stage:      records.ParseStage(rw.Stage),
			APN:        strings.TrimSpace(rw.APN),
			Address:    strings.TrimSpace(rw.Address),
			City:       strings.TrimSpace(rw.City),
			State:      strings.ToUpper(strings.TrimSpace(rw.State)),
			Zip:        strings.TrimSpace(rw.Zip),
			RecordDate: strings.TrimSpace(rw.RecordDate),
			DocType:    strings.TrimSpace(rw.DocType),
			SourceURL:  strings.TrimSpace(rw.SourceURL),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("CSV contains no data rows")
	}
	return out, nil
}

// mapHeader lowercases and indexes the header row, requiring the mandatory
// columns and ignoring any extras.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredHeaders {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required CSV column %q", name)
		}
	}
	return cols, nil
}

func rowFromFields(fields []string, cols map[string]int) row {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	return row{
		Stage:      get("stage"),
		APN:        get("apn"),
		Address:    get("address"),
		City:       get("city"),
		State:      get("state"),
		Zip:        get("zip"),
		RecordDate: get("record_date"),
		DocType:    get("doc_type"),
		SourceURL:  get("source_url"),
	}
}

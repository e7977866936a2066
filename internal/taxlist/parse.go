package taxlist

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/jonathan/parcelwatch/internal/fetch"
	"github.com/jonathan/parcelwatch/internal/records"
)

// apnPattern matches the county's NN-NNNN-NN parcel number format.
var apnPattern = regexp.MustCompile(`\b\d{2}-\d{4}-\d{2}\b`)

// FetchAPNs downloads the delinquent-parcel PDF and returns its parcel
// numbers, deduplicated in order of first appearance.
func FetchAPNs(ctx context.Context, pdfURL string) ([]string, error) {
	res, err := fetch.URL(ctx, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download parcel list PDF: %w", err)
	}

	text, err := extractPDFText(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from parcel list PDF: %w", err)
	}

	apns := ExtractAPNs(text)
	if len(apns) == 0 {
		return nil, fmt.Errorf("parcel list PDF at %s contained no parcel numbers", pdfURL)
	}
	return apns, nil
}

// ExtractAPNs pulls every parcel number out of free text, preserving first
// occurrence order and dropping duplicates.
func ExtractAPNs(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, apn := range apnPattern.FindAllString(text, -1) {
		if _, dup := seen[apn]; dup {
			continue
		}
		seen[apn] = struct{}{}
		out = append(out, apn)
	}
	return out
}

// PlaceholderRecords converts parcel numbers into tax-delinquency records
// awaiting address resolution.
func PlaceholderRecords(apns []string, city, state, zip string) []records.Record {
	out := make([]records.Record, 0, len(apns))
	for _, apn := range apns {
		out = append(out, records.Record{
			ID:      uuid.New(),
			Stage:   records.StageTaxDelinquency,
			APN:     apn,
			Address: records.PlaceholderAddress,
			City:    city,
			State:   state,
			Zip:     zip,
			DocType: "Delinquent Tax List",
		})
	}
	return out
}

func extractPDFText(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Package assessor talks to the county's per-parcel lookup pages and
// extracts the situs ("Location") line for a parcel.
package assessor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/parcelwatch/internal/fetch"
)

// DefaultURLTemplate is the Humboldt County NV parcel detail page. The %s
// placeholder receives the digits-only APN.
const DefaultURLTemplate = "https://www.humboldtcountynv.gov/assessor/parcel-detail?apn=%s"

// DefaultTimeout bounds each per-parcel request so one slow lookup cannot
// stall a resolve batch.
const DefaultTimeout = 15 * time.Second

var nonDigits = regexp.MustCompile(`\D+`)

// Client fetches parcel detail pages.
type Client struct {
	urlTemplate string
	timeout     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithURLTemplate overrides the lookup URL template (must contain one %s).
func WithURLTemplate(tpl string) Option {
	return func(c *Client) { c.urlTemplate = tpl }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a Client with the county defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		urlTemplate: DefaultURLTemplate,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupURL builds the deterministic per-parcel page URL from the
// digits-only form of the APN.
func (c *Client) LookupURL(apn string) string {
	return fmt.Sprintf(c.urlTemplate, nonDigits.ReplaceAllString(apn, ""))
}

// FetchLocation retrieves the parcel page for apn and returns the text of
// its "Location"-labeled line. A page that loads but carries no Location
// line returns ("", nil): absence of data, not an error. Transport and
// status failures return an error.
func (c *Client) FetchLocation(ctx context.Context, apn string) (string, error) {
	opts := fetch.DefaultOptions()
	opts.Timeout = c.timeout

	res, err := fetch.URL(ctx, c.LookupURL(apn), opts)
	if err != nil {
		return "", fmt.Errorf("parcel lookup failed for %s: %w", apn, err)
	}

	text, err := fetch.ExtractText(res.HTML())
	if err != nil {
		return "", fmt.Errorf("parcel page unparseable for %s: %w", apn, err)
	}

	return extractLocationLine(text), nil
}

// extractLocationLine scans page text for a line labeled "Location" and
// returns the remainder of that line. The label appears either as
// "Location: ..." or as a bare "Location ..." table row.
func extractLocationLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := cutLabel(line, "location")
		if !ok {
			continue
		}
		if rest != "" {
			return rest
		}
	}
	return ""
}

// cutLabel strips a leading case-insensitive label plus any ":" or "-"
// separator, reporting whether the line carried the label at all.
func cutLabel(line, label string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(label) || !strings.EqualFold(trimmed[:len(label)], label) {
		return "", false
	}
	rest := trimmed[len(label):]
	// Reject words that merely start with the label ("Locations").
	if rest != "" && rest[0] != ' ' && rest[0] != ':' && rest[0] != '-' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(rest, " \t:-")), true
}

// Package notices crawls public foreclosure notice listings, classifies
// each notice into a distress stage and guesses the property address from
// the notice text.
package notices

import (
	"regexp"
	"strings"

	"github.com/jonathan/parcelwatch/internal/records"
)

// Labeled address lines take priority over free-text matches.
var labeledAddressRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)property\s+address\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)site\s+address\s*:\s*(.+)`),
	regexp.MustCompile(`(?i)situs\s*:\s*(.+)`),
}

// freeAddressRe catches an unlabeled street address anchored to the county
// seat.
var freeAddressRe = regexp.MustCompile(`\b(\d{2,6}\s+[A-Za-z0-9.\-'\s]+,\s*Winnemucca,\s*NV\s*\d{5})\b`)

// GuessAddress extracts the most plausible property address from notice
// text. Labeled lines win; otherwise the first Winnemucca-anchored street
// address in the body is used. Returns "" when nothing qualifies.
func GuessAddress(text string) string {
	for _, line := range strings.Split(text, "\n") {
		for _, re := range labeledAddressRes {
			if m := re.FindStringSubmatch(line); m != nil {
				if addr := tidyAddress(m[1]); addr != "" {
					return addr
				}
			}
		}
	}
	if m := freeAddressRe.FindStringSubmatch(text); m != nil {
		return tidyAddress(m[1])
	}
	return ""
}

// tidyAddress collapses whitespace and trims trailing punctuation from a
// captured address fragment.
func tidyAddress(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".,;")
}

// ClassifyStage maps notice text onto a distress stage by keyword. Sale
// language outranks default-notice language since a scheduled sale is the
// later event.
func ClassifyStage(text string) records.Stage {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "trustee's sale") || strings.Contains(t, "trustee sale") ||
		strings.Contains(t, "notice of sale") || strings.Contains(t, "sheriff"):
		return records.StageForeclosureSale
	case strings.Contains(t, "notice of default") || strings.Contains(t, "lis pendens") ||
		strings.Contains(t, "breach"):
		return records.StagePreForeclosure
	case strings.Contains(t, "bank owned") || strings.Contains(t, "reo"):
		return records.StageREO
	default:
		return records.StageOther
	}
}

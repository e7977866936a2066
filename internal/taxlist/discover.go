// Package taxlist locates the county's delinquent-parcel PDF, extracts its
// parcel numbers and turns them into placeholder tax-delinquency records.
package taxlist

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/parcelwatch/internal/fetch"
)

// ListPageURL is the county page that links each year's delinquent parcel
// list.
const ListPageURL = "https://www.humboldtcountynv.gov/213/Parcel-List"

// FallbackPDFURL is the last known good document, used when the listing
// page yields no candidate.
const FallbackPDFURL = "https://www.humboldtcountynv.gov/DocumentCenter/View/8026/2025-Delinquent-Sale-Parcel-List"

// DiscoverPDFURL scrapes the county listing page for the anchor most likely
// to be the current delinquent-parcel PDF. Candidates must end in .pdf and
// are scored by keyword: "parcel" and "delinquent" count double, "sale"
// single; a link needs a score of at least 2 to win. When nothing scores,
// the fallback URL is returned with a nil error.
func DiscoverPDFURL(ctx context.Context, pageURL string) (string, error) {
	res, err := fetch.URL(ctx, pageURL, nil)
	if err != nil {
		return FallbackPDFURL, fmt.Errorf("failed to fetch parcel list page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML()))
	if err != nil {
		return FallbackPDFURL, fmt.Errorf("failed to parse parcel list page: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return FallbackPDFURL, fmt.Errorf("invalid parcel list page URL: %w", err)
	}

	best := ""
	bestScore := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		score := scoreCandidate(href, sel.Text())
		if score > bestScore {
			bestScore = score
			best = href
		}
	})

	if bestScore < 2 {
		log.Printf("[taxlist] no PDF candidate on %s, using fallback", pageURL)
		return FallbackPDFURL, nil
	}

	ref, err := url.Parse(best)
	if err != nil {
		return FallbackPDFURL, nil
	}
	return base.ResolveReference(ref).String(), nil
}

// scoreCandidate rates one anchor. Non-PDF hrefs always score zero.
func scoreCandidate(href, text string) int {
	h := strings.ToLower(href)
	if !strings.HasSuffix(strings.Split(h, "?")[0], ".pdf") && !strings.Contains(h, "documentcenter") {
		return 0
	}
	blob := h + " " + strings.ToLower(text)
	score := 0
	if strings.Contains(blob, "parcel") {
		score += 2
	}
	if strings.Contains(blob, "delinquent") {
		score += 2
	}
	if strings.Contains(blob, "sale") {
		score++
	}
	return score
}

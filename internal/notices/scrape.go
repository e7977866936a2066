package notices

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/jonathan/parcelwatch/internal/fetch"
	"github.com/jonathan/parcelwatch/internal/records"
)

// DefaultSearchURL is the state public notice search, pre-filtered to
// Humboldt County foreclosure notices.
const DefaultSearchURL = "https://notice.nv.gov/Search?county=Humboldt&keyword=foreclosure"

// MaxNotices caps how many detail pages one crawl will follow.
const MaxNotices = 50

// browserTimeout bounds one headless render of the search page.
const browserTimeout = 60 * time.Second

// Scraper crawls the notice search and its detail pages.
type Scraper struct {
	searchURL string
	city      string
	state     string
	verbose   bool
}

// NewScraper returns a Scraper for searchURL, defaulting detail records to
// the given city and state when the notice text gives no address.
func NewScraper(searchURL, city, state string, verbose bool) *Scraper {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Scraper{searchURL: searchURL, city: city, state: state, verbose: verbose}
}

// Scrape renders the search page, follows each detail link and returns one
// record per notice. The search page needs a browser because its results
// arrive via script after load; detail pages are plain HTML. Individual
// detail page failures are logged and skipped.
func (s *Scraper) Scrape(ctx context.Context) ([]records.Record, error) {
	html, err := fetch.WithBrowser(ctx, s.searchURL, browserTimeout, s.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to render notice search: %w", err)
	}

	links, err := detailLinks(html, s.searchURL)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("notice search at %s yielded no detail links", s.searchURL)
	}
	if len(links) > MaxNotices {
		links = links[:MaxNotices]
	}

	var out []records.Record
	for _, link := range links {
		rec, err := s.scrapeDetail(ctx, link)
		if err != nil {
			log.Printf("[notices] skipping %s: %v", link, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// scrapeDetail fetches one notice detail page and builds a record from its
// text.
func (s *Scraper) scrapeDetail(ctx context.Context, detailURL string) (records.Record, error) {
	res, err := fetch.URL(ctx, detailURL, nil)
	if err != nil {
		return records.Record{}, err
	}
	text, err := fetch.ExtractText(res.HTML())
	if err != nil {
		return records.Record{}, err
	}

	rec := records.Record{
		ID:         uuid.New(),
		Stage:      ClassifyStage(text),
		City:       s.city,
		State:      s.state,
		DocType:    "Public Notice",
		SourceURL:  detailURL,
		RecordDate: time.Now().Format("2006-01-02"),
	}
	if addr := GuessAddress(text); addr != "" {
		rec.Address = addr
	} else {
		rec.Address = records.PlaceholderAddress
	}
	return rec, nil
}

// detailLinks extracts deduplicated absolute detail page URLs from the
// rendered search HTML.
func detailLinks(html, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse notice search results: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid notice search URL: %w", err)
	}

	seen := make(map[string]struct{})
	var out []string
	doc.Find("a[href*='Detail'], a[href*='detail'], a[href*='NoticeID']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	})
	return out, nil
}

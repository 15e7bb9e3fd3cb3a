package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/civic-reps/internal/httpx"
	"github.com/baxromumarov/civic-reps/internal/observability"
	"github.com/baxromumarov/civic-reps/internal/urlutil"
)

const (
	DefaultHouseLookupURL = "https://ziplook.house.gov/htbin/findrep_house"
	houseMemberDomain     = "house.gov"
)

// HouseScraper submits a ZIP to the House "find your representative" form.
type HouseScraper struct {
	fetcher *httpx.CollyFetcher
	url     string
}

func NewHouseScraper(fetcher *httpx.CollyFetcher, lookupURL string) *HouseScraper {
	if lookupURL == "" {
		lookupURL = DefaultHouseLookupURL
	}
	return &HouseScraper{fetcher: fetcher, url: lookupURL}
}

func (h *HouseScraper) Name() string {
	return "house_lookup"
}

func (h *HouseScraper) Extract(ctx context.Context, q Query) []Representative {
	reps, err := h.lookup(ctx, q.ZIP)
	if err != nil {
		observability.IncError(observability.ClassifyScrapeError(err), h.Name())
		slog.Warn("house lookup failed", "zip", q.ZIP, "error", err)
		return nil
	}
	observability.AddRepsExtracted(h.Name(), len(reps))
	slog.Info("found house representatives", "zip", q.ZIP, "count", len(reps))
	return reps
}

func (h *HouseScraper) lookup(ctx context.Context, zip string) ([]Representative, error) {
	body, _, err := h.fetcher.PostForm(ctx, h.url, url.Values{"ZIP": {zip}})
	if err != nil {
		return nil, fmt.Errorf("house fetch failed: %w", err)
	}
	observability.IncPagesFetched(h.Name())

	base, _ := url.Parse(h.url)
	return ParseHouseLookup(bytes.NewReader(body), base)
}

// ParseHouseLookup collects member-site landing links (name.house.gov) from a lookup
// response. Link text is the name; repeated names are kept once, first seen.
func ParseHouseLookup(r io.Reader, base *url.URL) ([]Representative, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("house parse failed: %w", err)
	}

	var exclude []string
	if base != nil {
		exclude = append(exclude, base.Hostname())
	}

	seen := make(map[string]struct{})
	var reps []Representative
	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		target := urlutil.Resolve(base, href)
		// Member sites link to their own subpages; only landing links carry names.
		if !urlutil.IsSubdomainOf(target, houseMemberDomain, exclude...) || !urlutil.IsSiteRoot(target) {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		reps = append(reps, Representative{
			Name:   name,
			Title:  houseRep.Title,
			Branch: houseRep.Branch,
			Level:  houseRep.Level,
		})
	})
	return reps, nil
}

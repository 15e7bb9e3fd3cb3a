package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/civic-reps/internal/httpx"
	"github.com/baxromumarov/civic-reps/internal/observability"
)

const DefaultSenateDirectoryURL = "https://www.senate.gov/senators/senators-contact.htm"

var ErrNoListing = errors.New("senate contact listing not found")

// SenateScraper reads the Senate contact directory and keeps one state's members.
type SenateScraper struct {
	fetcher *httpx.CollyFetcher
	url     string
}

func NewSenateScraper(fetcher *httpx.CollyFetcher, directoryURL string) *SenateScraper {
	if directoryURL == "" {
		directoryURL = DefaultSenateDirectoryURL
	}
	return &SenateScraper{fetcher: fetcher, url: directoryURL}
}

func (s *SenateScraper) Name() string {
	return "senate_directory"
}

func (s *SenateScraper) Extract(ctx context.Context, q Query) []Representative {
	reps, err := s.lookup(ctx, q.State)
	if err != nil {
		observability.IncError(observability.ClassifyScrapeError(err), s.Name())
		slog.Warn("senate directory failed", "zip", q.ZIP, "state", q.State, "error", err)
		return nil
	}
	observability.AddRepsExtracted(s.Name(), len(reps))
	slog.Info("found senators", "zip", q.ZIP, "state", q.State, "count", len(reps))
	return reps
}

func (s *SenateScraper) lookup(ctx context.Context, state string) ([]Representative, error) {
	body, _, err := s.fetcher.FetchBytes(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("senate fetch failed: %w", err)
	}
	observability.IncPagesFetched(s.Name())
	return ParseSenateDirectory(bytes.NewReader(body), state)
}

// ParseSenateDirectory returns the senators whose state code equals state exactly.
func ParseSenateDirectory(r io.Reader, state string) ([]Representative, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("senate parse failed: %w", err)
	}

	listing := doc.Find("div.contact-listing").First()
	if listing.Length() == 0 {
		return nil, ErrNoListing
	}

	var reps []Representative
	listing.Find("div.senator-item").Each(func(_ int, item *goquery.Selection) {
		nameEl := item.Find("h2").First()
		stateEl := item.Find("span.contact-state").First()
		if nameEl.Length() == 0 || stateEl.Length() == 0 {
			return
		}
		if strings.TrimSpace(stateEl.Text()) != state {
			return
		}
		name := strings.TrimSpace(nameEl.Text())
		if name == "" {
			return
		}
		reps = append(reps, Representative{
			Name:   name,
			Title:  usSenator.Title,
			Branch: usSenator.Branch,
			Level:  usSenator.Level,
		})
	})
	return reps, nil
}

package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/civic-reps/internal/httpx"
)

const senateDirectory = `<html><body>
<div class="contact-listing">
  <div class="senator-item"><h2>Schumer, Charles E.</h2><span class="contact-state">NY</span></div>
  <div class="senator-item"><h2>Booker, Cory A.</h2><span class="contact-state">NJ</span></div>
  <div class="senator-item"><h2>Gillibrand, Kirsten E.</h2><span class="contact-state"> NY </span></div>
  <div class="senator-item"><h2>No State</h2></div>
  <div class="senator-item"><h2>Lowercase</h2><span class="contact-state">ny</span></div>
</div>
</body></html>`

func TestParseSenateDirectory(t *testing.T) {
	reps, err := ParseSenateDirectory(strings.NewReader(senateDirectory), "NY")
	require.NoError(t, err)
	require.Equal(t, []Representative{
		{Name: "Schumer, Charles E.", Title: "U.S. Senator", Branch: BranchFederal, Level: "federal"},
		{Name: "Gillibrand, Kirsten E.", Title: "U.S. Senator", Branch: BranchFederal, Level: "federal"},
	}, reps)

	reps, err = ParseSenateDirectory(strings.NewReader(senateDirectory), "Unknown")
	require.NoError(t, err)
	require.Empty(t, reps)
}

func TestParseSenateDirectoryNoListing(t *testing.T) {
	_, err := ParseSenateDirectory(strings.NewReader(`<html><body><p>maintenance</p></body></html>`), "NY")
	require.ErrorIs(t, err, ErrNoListing)
}

func TestSenateScraperExtract(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/senators/senators-contact.htm", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(senateDirectory))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewSenateScraper(httpx.NewCollyFetcher(""), srv.URL+"/senators/senators-contact.htm")
	reps := s.Extract(context.Background(), Query{ZIP: "11354", State: "NJ"})
	require.Len(t, reps, 1)
	require.Equal(t, "Booker, Cory A.", reps[0].Name)
}

func TestSenateScraperMissingListingIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	s := NewSenateScraper(httpx.NewCollyFetcher(""), srv.URL)
	require.Empty(t, s.Extract(context.Background(), Query{ZIP: "11354", State: "NY"}))
}

package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/civic-reps/internal/httpx"
)

const houseResponse = `<html><body>
<a href="https://www.house.gov/">House Home</a>
<a href="/htbin/findrep_house?help">Help</a>
<div id="PossibleReps">
  <a href="https://meng.house.gov">Grace Meng</a>
  <a href="https://meng.house.gov/contact">Grace Meng</a>
  <a href="https://meng.house.gov/contact">Contact</a>
  <a href="https://suozzi.house.gov/media/press-releases">Press Releases</a>
  <a href="https://suozzi.house.gov/">Thomas R. Suozzi</a>
  <a href="https://suozzi.house.gov/"> </a>
</div>
</body></html>`

func TestParseHouseLookup(t *testing.T) {
	base, err := url.Parse(DefaultHouseLookupURL)
	require.NoError(t, err)

	reps, err := ParseHouseLookup(strings.NewReader(houseResponse), base)
	require.NoError(t, err)
	require.Equal(t, []Representative{
		{Name: "Grace Meng", Title: "U.S. House Rep", Branch: BranchFederal, Level: "federal"},
		{Name: "Thomas R. Suozzi", Title: "U.S. House Rep", Branch: BranchFederal, Level: "federal"},
	}, reps)
}

func TestParseHouseLookupSkipsMemberSubpages(t *testing.T) {
	base, err := url.Parse(DefaultHouseLookupURL)
	require.NoError(t, err)

	page := `<a href="https://meng.house.gov/contact">Contact</a>
<a href="//meng.house.gov/about?tab=bio">Biography</a>
<a href="https://meng.house.gov/">Grace Meng</a>`
	reps, err := ParseHouseLookup(strings.NewReader(page), base)
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.Equal(t, "Grace Meng", reps[0].Name)
}

func TestHouseScraperExtract(t *testing.T) {
	var gotZIP string
	mux := http.NewServeMux()
	mux.HandleFunc("/htbin/findrep_house", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		gotZIP = r.PostFormValue("ZIP")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(houseResponse))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	h := NewHouseScraper(httpx.NewCollyFetcher(""), srv.URL+"/htbin/findrep_house")
	reps := h.Extract(context.Background(), Query{ZIP: "11354"})

	require.Equal(t, "11354", gotZIP)
	require.Len(t, reps, 2)
	require.Equal(t, "Grace Meng", reps[0].Name)
}

func TestHouseScraperFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := NewHouseScraper(httpx.NewCollyFetcher(""), srv.URL+"/htbin/findrep_house")
	require.Empty(t, h.Extract(context.Background(), Query{ZIP: "11354"}))
}

package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/civic-reps/internal/httpx"
)

const officialsPage = `<html><body>
<div class="header"><h2>NYC Council</h2><ul><li>Not In Content</li></ul></div>
<div class="about-description">
  <p>Elected officials serving Community Board 4. Governor Kathy Hochul visited in May.</p>
  <h2>U.S. Senate</h2>
  <ul>
    <li><a href="https://www.schumer.senate.gov">Charles E. Schumer</a> 780 Third Avenue</li>
    <li><a href="https://www.gillibrand.senate.gov">Kirsten Gillibrand</a></li>
  </ul>
  <p><strong>House of Representatives</strong></p>
  <div class="spacer"></div>
  <ul>
    <li><strong>Grace Meng</strong> 40-13 159th Street</li>
  </ul>
  <h3>NYS Senate District 11</h3>
  <ul>
    <li>John Liu<br>38-50 Bell Boulevard</li>
    <li>Al</li>
  </ul>
  <h3>NYS Assembly</h3>
  <p>See the assembly website.</p>
  <ul>
    <li>Should Not Be Assembly</li>
  </ul>
  <h3>City Council</h3>
  <ul>
    <li><span>Sandra Ung – District 20</span></li>
    <li>Vickie Paladino: District 19</li>
  </ul>
</div>
</body></html>`

func parseFixture(t *testing.T, page string) OfficialsPage {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	result, err := ParseOfficialsPage(doc, DefaultSectionRules, DefaultGovernors)
	require.NoError(t, err)
	return result
}

func TestParseOfficialsPage(t *testing.T) {
	result := parseFixture(t, officialsPage)
	require.True(t, result.SectionsMatched)

	want := []Representative{
		{Name: "Charles E. Schumer", Title: "U.S. Senator", Branch: BranchFederal, Level: "federal"},
		{Name: "Kirsten Gillibrand", Title: "U.S. Senator", Branch: BranchFederal, Level: "federal"},
		{Name: "Grace Meng", Title: "U.S. House Rep", Branch: BranchFederal, Level: "federal"},
		{Name: "John Liu", Title: "NYS Senator", Branch: BranchState, Level: "state"},
		{Name: "Sandra Ung", Title: "NYC Council Member", Branch: BranchLocal, Level: "local"},
		{Name: "Vickie Paladino", Title: "NYC Council Member", Branch: BranchLocal, Level: "local"},
		{Name: "Kathy Hochul", Title: "Governor, New York", Branch: BranchState, Level: "state"},
	}
	if diff := cmp.Diff(want, result.Representatives); diff != "" {
		t.Fatalf("representatives mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOfficialsPageIsDeterministic(t *testing.T) {
	first := parseFixture(t, officialsPage)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, parseFixture(t, officialsPage)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestParseOfficialsPageHeadingStopsSearch(t *testing.T) {
	page := `<html><body><div class="about-description">
<h3>NYS Assembly</h3>
<p>No list here.</p>
<ul><li>Later Person</li></ul>
</div></body></html>`

	result := parseFixture(t, page)
	require.False(t, result.SectionsMatched)
	require.Empty(t, result.Representatives)
}

func TestParseOfficialsPageNestedHeadingCountsOnce(t *testing.T) {
	page := `<html><body><article>
<p><b>U.S. House</b></p>
<ul><li><a href="#">Grace Meng</a></li></ul>
</article></body></html>`

	result := parseFixture(t, page)
	require.Equal(t, []Representative{
		{Name: "Grace Meng", Title: "U.S. House Rep", Branch: BranchFederal, Level: "federal"},
	}, result.Representatives)
}

func TestParseOfficialsPageFallsBackToBody(t *testing.T) {
	page := `<html><body><h2>US Senate</h2><ul><li>Kirsten Gillibrand</li></ul></body></html>`

	result := parseFixture(t, page)
	require.True(t, result.SectionsMatched)
	require.Len(t, result.Representatives, 1)
}

type fakeRenderer struct {
	page string
	err  error
}

func (f fakeRenderer) Render(_ context.Context, _, _ string) (string, error) {
	return f.page, f.err
}

func TestOfficialsScraperDumpsUnmatchedPage(t *testing.T) {
	dir := t.TempDir()
	page := `<html><body><div class="about-description"><p>Under construction</p></div></body></html>`
	s := NewOfficialsScraper(fakeRenderer{page: page}, OfficialsOptions{DebugDir: dir})

	reps := s.Extract(context.Background(), Query{ZIP: "11354"})
	require.Empty(t, reps)

	dumped, err := os.ReadFile(filepath.Join(dir, debugPageFile))
	require.NoError(t, err)
	require.Equal(t, page, string(dumped))
}

func TestOfficialsScraperSelectorTimeout(t *testing.T) {
	dir := t.TempDir()
	page := `<html><body>loading...</body></html>`
	renderErr := fmt.Errorf("li: %w", httpx.ErrSelectorTimeout)
	s := NewOfficialsScraper(fakeRenderer{page: page, err: renderErr}, OfficialsOptions{DebugDir: dir})

	require.Empty(t, s.Extract(context.Background(), Query{ZIP: "11354"}))
	_, err := os.Stat(filepath.Join(dir, debugPageFile))
	require.NoError(t, err)
}

func TestOfficialsScraperExtract(t *testing.T) {
	dir := t.TempDir()
	s := NewOfficialsScraper(fakeRenderer{page: officialsPage}, OfficialsOptions{DebugDir: dir})

	reps := s.Extract(context.Background(), Query{ZIP: "11354"})
	require.Len(t, reps, 7)

	_, err := os.Stat(filepath.Join(dir, debugPageFile))
	require.True(t, os.IsNotExist(err))
}

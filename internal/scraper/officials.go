package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"

	"github.com/baxromumarov/civic-reps/internal/httpx"
	"github.com/baxromumarov/civic-reps/internal/observability"
)

const (
	DefaultOfficialsURL          = "https://www.nyc.gov/site/queenscb4/about/elected-officials.page"
	DefaultOfficialsWaitSelector = ".about-description li"
)

var ErrNoContentRoot = errors.New("content root not found")

// Tried in order; body is the last resort.
var contentRootSelectors = []string{
	"div.about-description",
	"div.main-content",
	"article",
	"body",
}

var headingTags = map[string]struct{}{
	"p":      {},
	"h2":     {},
	"h3":     {},
	"strong": {},
	"b":      {},
}

var listTags = map[string]struct{}{
	"ul": {},
	"ol": {},
}

// OfficialsPage is the result of parsing one elected-officials page.
type OfficialsPage struct {
	Representatives []Representative
	// SectionsMatched is false when no heading classified, which usually
	// means the page layout changed.
	SectionsMatched bool
}

// ParseOfficialsPage walks a single content region of mixed headings and lists
// and returns representatives in document order. Each list is attributed to at
// most one heading.
func ParseOfficialsPage(doc *goquery.Document, rules []SectionRule, governors GovernorTable) (OfficialsPage, error) {
	var page OfficialsPage

	root := findContentRoot(doc)
	if root == nil {
		return page, ErrNoContentRoot
	}

	used := make(map[*html.Node]struct{})
	for _, heading := range collectHeadings(root) {
		section, ok := Classify(joinedText(heading, " "), rules)
		if !ok {
			continue
		}
		list := followingList(heading, root)
		if list == nil {
			continue
		}
		if _, seen := used[list]; seen {
			continue
		}
		used[list] = struct{}{}
		page.SectionsMatched = true
		page.Representatives = append(page.Representatives, listRepresentatives(list, section)...)
	}

	page.Representatives = append(page.Representatives, mentionedGovernors(joinedText(root, " "), governors)...)
	return page, nil
}

func findContentRoot(doc *goquery.Document) *html.Node {
	for _, sel := range contentRootSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found.Get(0)
		}
	}
	return nil
}

func collectHeadings(root *html.Node) []*html.Node {
	var out []*html.Node
	for n := nextInOrder(root, root); n != nil; n = nextInOrder(n, root) {
		if isElement(n, headingTags) {
			out = append(out, n)
		}
	}
	return out
}

// followingList finds the list a heading introduces: its immediate sibling if
// that is a list, otherwise the first list reached before any other heading.
func followingList(heading, root *html.Node) *html.Node {
	if sib := nextElementSibling(heading); isElement(sib, listTags) {
		return sib
	}
	for n := nextAfter(heading, root); n != nil; n = nextInOrder(n, root) {
		if isElement(n, headingTags) {
			return nil
		}
		if isElement(n, listTags) {
			return n
		}
	}
	return nil
}

func listRepresentatives(list *html.Node, section Section) []Representative {
	var reps []Representative
	goquery.NewDocumentFromNode(list).Find("li").Each(func(_ int, li *goquery.Selection) {
		name := CleanName(nameCandidate(li))
		if !ValidName(name) {
			return
		}
		reps = append(reps, Representative{
			Name:   name,
			Title:  section.Title,
			Branch: section.Branch,
			Level:  section.Level,
		})
	})
	return reps
}

// nameCandidate prefers link text, then emphasised text, then the first line.
func nameCandidate(li *goquery.Selection) string {
	if text := selectionText(li.Find("a").First(), " "); text != "" {
		return text
	}
	if text := selectionText(li.Find("strong, b, span").First(), " "); text != "" {
		return text
	}
	first, _, _ := strings.Cut(selectionText(li, "\n"), "\n")
	return strings.TrimSpace(first)
}

func mentionedGovernors(pageText string, governors GovernorTable) []Representative {
	fold := cases.Fold()
	folded := fold.String(pageText)

	var reps []Representative
	for _, state := range governors.States() {
		g := governors[state]
		if g.Name == "" || !strings.Contains(folded, fold.String(g.Name)) {
			continue
		}
		reps = append(reps, Representative{
			Name:   g.Name,
			Title:  GovernorTitle(state),
			Branch: BranchState,
			Level:  string(BranchState),
		})
	}
	return reps
}

// OfficialsScraper is the rich single-page source: one rendered page listing
// federal, state and local officials for a district.
type OfficialsScraper struct {
	renderer     httpx.Renderer
	url          string
	waitSelector string
	rules        []SectionRule
	governors    GovernorTable
	debug        DebugDumper
}

type OfficialsOptions struct {
	URL          string
	WaitSelector string
	Rules        []SectionRule
	Governors    GovernorTable
	DebugDir     string
}

func NewOfficialsScraper(renderer httpx.Renderer, opts OfficialsOptions) *OfficialsScraper {
	if opts.URL == "" {
		opts.URL = DefaultOfficialsURL
	}
	if opts.WaitSelector == "" {
		opts.WaitSelector = DefaultOfficialsWaitSelector
	}
	if opts.Rules == nil {
		opts.Rules = DefaultSectionRules
	}
	if opts.Governors == nil {
		opts.Governors = DefaultGovernors
	}
	return &OfficialsScraper{
		renderer:     renderer,
		url:          opts.URL,
		waitSelector: opts.WaitSelector,
		rules:        opts.Rules,
		governors:    opts.Governors,
		debug:        DebugDumper{Dir: opts.DebugDir},
	}
}

func (s *OfficialsScraper) Name() string {
	return "officials_page"
}

func (s *OfficialsScraper) Extract(ctx context.Context, q Query) []Representative {
	logger := slog.With("source", s.Name(), "zip", q.ZIP)

	page, err := s.renderer.Render(ctx, s.url, s.waitSelector)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), s.Name())
		if errors.Is(err, httpx.ErrSelectorTimeout) {
			logger.Error("page content did not load in time", "url", s.url, "fatal", true, "error", err)
			s.dump(logger, page)
			return nil
		}
		logger.Error("page load failed", "url", s.url, "error", err)
		return nil
	}
	observability.IncPagesFetched(s.Name())

	result, err := s.parse(page)
	if err != nil {
		observability.IncError(observability.ErrorParsing, s.Name())
		logger.Error("could not find any content area on the page", "error", err)
		return result.Representatives
	}
	observability.AddRepsExtracted(s.Name(), len(result.Representatives))
	if !result.SectionsMatched {
		logger.Warn("no sections matched known headings")
		s.dump(logger, page)
	}

	logger.Info("scraped officials page", "count", len(result.Representatives))
	for _, rep := range result.Representatives {
		logger.Debug("found representative", "name", rep.Name, "title", rep.Title)
	}
	return result.Representatives
}

func (s *OfficialsScraper) parse(page string) (OfficialsPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return OfficialsPage{}, fmt.Errorf("officials parse failed: %w", err)
	}
	return ParseOfficialsPage(doc, s.rules, s.governors)
}

func (s *OfficialsScraper) dump(logger *slog.Logger, page string) {
	if page == "" {
		return
	}
	path, err := s.debug.DumpHTML(page)
	if err != nil {
		logger.Warn("debug dump failed", "error", err)
		return
	}
	logger.Info("wrote page for inspection", "path", path)
}

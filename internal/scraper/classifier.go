package scraper

import "strings"

// Section is what a heading tells us about the list that follows it.
type Section struct {
	Title  string
	Branch Branch
	Level  string
}

type SectionRule struct {
	Keyword string
	Section Section
}

var (
	nysSenator    = Section{Title: "NYS Senator", Branch: BranchState, Level: string(BranchState)}
	nysAssembly   = Section{Title: "NYS Assembly Member", Branch: BranchState, Level: string(BranchState)}
	houseRep      = Section{Title: "U.S. House Rep", Branch: BranchFederal, Level: string(BranchFederal)}
	usSenator     = Section{Title: "U.S. Senator", Branch: BranchFederal, Level: string(BranchFederal)}
	councilMember = Section{Title: "NYC Council Member", Branch: BranchLocal, Level: string(BranchLocal)}
)

// DefaultSectionRules is ordered specific-to-generic: the state chambers come
// before anything that mentions a bare "senate" or "assembly".
var DefaultSectionRules = []SectionRule{
	{Keyword: "nys senate", Section: nysSenator},
	{Keyword: "state senate", Section: nysSenator},
	{Keyword: "nys assembly", Section: nysAssembly},
	{Keyword: "state assembly", Section: nysAssembly},
	{Keyword: "house of representatives", Section: houseRep},
	{Keyword: "u.s. house", Section: houseRep},
	{Keyword: "u.s. senate", Section: usSenator},
	{Keyword: "us senate", Section: usSenator},
	{Keyword: "nyc council", Section: councilMember},
	{Keyword: "city council", Section: councilMember},
}

// Classify returns the section of the first rule whose keyword occurs in the
// heading. Rules are tried in slice order.
func Classify(heading string, rules []SectionRule) (Section, bool) {
	text := strings.ToLower(heading)
	for _, rule := range rules {
		if strings.Contains(text, rule.Keyword) {
			return rule.Section, true
		}
	}
	return Section{}, false
}

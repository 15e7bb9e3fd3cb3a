package scraper

import (
	"sort"
)

type Governor struct {
	Name  string
	Party string
}

// GovernorLookup answers "who is the governor of this state", if known.
type GovernorLookup interface {
	Governor(state string) (Governor, bool)
}

// GovernorTable is a fixed state code -> governor mapping.
type GovernorTable map[string]Governor

// DefaultGovernors only covers New York. Other states get no governor entry.
var DefaultGovernors = GovernorTable{
	"NY": {Name: "Kathy Hochul", Party: "D"},
}

func (t GovernorTable) Governor(state string) (Governor, bool) {
	g, ok := t[state]
	return g, ok
}

// States returns the covered state codes in sorted order.
func (t GovernorTable) States() []string {
	states := make([]string, 0, len(t))
	for code := range t {
		states = append(states, code)
	}
	sort.Strings(states)
	return states
}

func GovernorTitle(state string) string {
	return "Governor, " + StateName(state)
}

// GovernorFor builds the governor record for a state from the lookup.
func GovernorFor(lookup GovernorLookup, state string) (Representative, bool) {
	if lookup == nil {
		return Representative{}, false
	}
	g, ok := lookup.Governor(state)
	if !ok {
		return Representative{}, false
	}
	return Representative{
		Name:   g.Name,
		Title:  GovernorTitle(state),
		Branch: BranchState,
		Level:  string(BranchState),
		Office: "State",
		Party:  g.Party,
	}, true
}

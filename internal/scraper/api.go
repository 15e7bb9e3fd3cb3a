package scraper

import (
	"context"
)

type Branch string

const (
	BranchFederal Branch = "federal"
	BranchState   Branch = "state"
	BranchLocal   Branch = "local"
)

// Representative is one office holder found by an extractor. It is not a
// database row yet; identity is settled by the store on merge.
type Representative struct {
	Name   string
	Title  string
	Branch Branch
	Level  string
	Office string
	Party  string
}

// Query carries what the different sources key their lookups on.
type Query struct {
	ZIP   string
	State string
}

// Extractor is one source of representatives. Extract never fails: network and
// parse problems are logged and counted, and whatever was collected is returned.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, q Query) []Representative
}

package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/baxromumarov/civic-reps/internal/geo"
	"github.com/baxromumarov/civic-reps/internal/observability"
	"github.com/baxromumarov/civic-reps/internal/scraper"
	"github.com/baxromumarov/civic-reps/internal/store"
)

// State is where a run stopped.
type State string

const (
	StateStart                    State = "start"
	StateLocationResolved         State = "location_resolved"
	StateRepresentativesCollected State = "representatives_collected"
	StatePersisted                State = "persisted"
	StateSkipped                  State = "skipped"
)

const DefaultRichZIP = "11354"

type LocationResolver interface {
	Resolve(ctx context.Context, zip string) geo.Location
}

type Merger interface {
	MergeRepresentatives(ctx context.Context, zip, city, state string, reps []store.Representative) (store.MergeResult, error)
}

// RunResult describes one ZIP run. Err is set only when the merge failed and
// was rolled back.
type RunResult struct {
	ZIP             string
	State           State
	Location        geo.Location
	Representatives []scraper.Representative
	Merge           store.MergeResult
	Err             error
}

type Pipeline struct {
	resolver  LocationResolver
	rich      scraper.Extractor
	house     scraper.Extractor
	senate    scraper.Extractor
	governors scraper.GovernorLookup
	merger    Merger
	richZIP   string
	richState string
}

type PipelineOptions struct {
	Resolver  LocationResolver
	Rich      scraper.Extractor
	House     scraper.Extractor
	Senate    scraper.Extractor
	Governors scraper.GovernorLookup
	Merger    Merger
	// RichZIP is the one ZIP the rich page covers; RichState is the state
	// whose governor is added to it.
	RichZIP   string
	RichState string
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.RichZIP == "" {
		opts.RichZIP = DefaultRichZIP
	}
	if opts.RichState == "" {
		opts.RichState = "NY"
	}
	if opts.Governors == nil {
		opts.Governors = scraper.DefaultGovernors
	}
	return &Pipeline{
		resolver:  opts.Resolver,
		rich:      opts.Rich,
		house:     opts.House,
		senate:    opts.Senate,
		governors: opts.Governors,
		merger:    opts.Merger,
		richZIP:   opts.RichZIP,
		richState: opts.RichState,
	}
}

// Process runs one ZIP start to finish: resolve, extract, persist. Nothing is
// written when no representative was found.
func (p *Pipeline) Process(ctx context.Context, zip string) RunResult {
	started := time.Now()
	defer func() {
		observability.ObserveRunDuration(time.Since(started).Seconds())
	}()

	logger := slog.With("zip", zip)
	logger.Info("starting to process zip code")
	run := RunResult{ZIP: zip, State: StateStart}

	run.Location = p.resolver.Resolve(ctx, zip)
	run.State = StateLocationResolved

	run.Representatives = p.collect(ctx, zip, run.Location)
	run.State = StateRepresentativesCollected

	if len(run.Representatives) == 0 {
		run.State = StateSkipped
		observability.IncZipSkipped()
		logger.Warn("no representatives found")
		return run
	}

	run.State = StatePersisted
	merge, err := p.merger.MergeRepresentatives(ctx, zip, run.Location.City, run.Location.State, toStoreRepresentatives(run.Representatives))
	if err != nil {
		run.Err = err
		observability.IncError(observability.ErrorPersistence, "store")
		logger.Error("database merge rolled back", "error", err)
		return run
	}
	run.Merge = merge
	observability.IncZipPersisted()
	logger.Info("inserted representatives",
		"count", len(run.Representatives),
		"created", merge.Created,
		"reused", merge.Reused,
		"city", run.Location.City,
		"state", run.Location.State,
	)
	return run
}

// collect builds the run's accumulator. The rich page is used for its one ZIP;
// everywhere else the national House and Senate sources plus the governor
// table are combined.
func (p *Pipeline) collect(ctx context.Context, zip string, loc geo.Location) []scraper.Representative {
	q := scraper.Query{ZIP: zip, State: loc.State}
	var acc []scraper.Representative

	if zip == p.richZIP && p.rich != nil {
		acc = append(acc, p.rich.Extract(ctx, q)...)
		if loc.State == p.richState {
			acc = p.appendGovernor(acc, loc.State)
		}
		return acc
	}

	for _, ex := range []scraper.Extractor{p.house, p.senate} {
		if ex == nil {
			continue
		}
		acc = append(acc, ex.Extract(ctx, q)...)
	}
	return p.appendGovernor(acc, loc.State)
}

func (p *Pipeline) appendGovernor(acc []scraper.Representative, state string) []scraper.Representative {
	if gov, ok := scraper.GovernorFor(p.governors, state); ok {
		acc = append(acc, gov)
	}
	return acc
}

func toStoreRepresentatives(reps []scraper.Representative) []store.Representative {
	out := make([]store.Representative, 0, len(reps))
	for _, r := range reps {
		out = append(out, store.Representative{
			Name:   r.Name,
			Title:  r.Title,
			Office: r.Office,
			Party:  r.Party,
			Branch: string(r.Branch),
			Level:  r.Level,
		})
	}
	return out
}

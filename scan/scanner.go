// Package scan orchestrates a full discovery run: sports listing, per-sport
// match listings, and concurrent per-match enrichment with incremental
// crash-safe persistence.
package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/embed"
	"github.com/albinchristo04/streameast/log"
	"github.com/albinchristo04/streameast/match"
	"github.com/albinchristo04/streameast/output"
	"github.com/albinchristo04/streameast/util"
)

// Options configures one scan run.
type Options struct {
	// Workers bounds the enrichment pool size.
	Workers int

	// RateDelay is the pause inserted before each outbound unit to bound
	// the aggregate request rate.
	RateDelay time.Duration

	// Sports, when set, replaces upstream sport discovery.
	Sports []string

	// Resume loads an existing report and skips matches it already holds.
	Resume bool

	// OutputPath is the report location, flushed after every unit.
	OutputPath string

	// CheckImages enables HEAD probes on discovered asset URLs.
	CheckImages bool
}

// Scanner runs the discovery and enrichment pipeline.
type Scanner struct {
	api      *api.Client
	embed    *embed.Resolver
	enricher *Enricher
	opts     Options
}

// New constructs a Scanner.
func New(apiClient *api.Client, resolver *embed.Resolver, opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Scanner{
		api:   apiClient,
		embed: resolver,
		enricher: &Enricher{
			API:         apiClient,
			Embed:       resolver,
			CheckImages: opts.CheckImages,
		},
		opts: opts,
	}
}

// unit is one match queued for enrichment.
type unit struct {
	sport  string
	record match.Record
}

// result pairs a finished unit with its sport for the coordinator.
type result struct {
	sport    string
	enriched match.Enriched
}

// Run executes the pipeline. Cancelling the context stops scheduling new
// units; in-flight units drain and the report is flushed one final time, so
// an interrupted run loses no completed work. The returned state reflects
// everything processed.
func (s *Scanner) Run(ctx context.Context, baseAPI, embedHost string) (*output.State, error) {
	state := s.loadState(baseAPI, embedHost)

	slugs, err := s.discoverSports(state)
	if err != nil {
		state.Finish()
		_ = output.Flush(state, s.opts.OutputPath)
		return state, err
	}

	units := s.listMatches(ctx, state, slugs)
	log.Infof("processing %s across %s",
		util.Quantify(len(units), "match", "matches"),
		util.Quantify(len(slugs), "sport", "sports"))

	s.enrichAll(ctx, state, units)

	state.Finish()
	if err := output.Flush(state, s.opts.OutputPath); err != nil {
		return state, fmt.Errorf("write report: %w", err)
	}
	return state, nil
}

// loadState resumes from a prior report when asked to, starting fresh when
// the file is missing or unreadable.
func (s *Scanner) loadState(baseAPI, embedHost string) *output.State {
	if s.opts.Resume {
		prior, err := output.Load(s.opts.OutputPath)
		if err != nil {
			log.Warnf("cannot resume from %s: %v", s.opts.OutputPath, err)
		} else if prior != nil {
			log.Infof("resuming from %s", s.opts.OutputPath)
			prior.ScannedAt = time.Now().UTC().Format(time.RFC3339)
			prior.FinishedAt = ""
			return prior
		}
	}
	return output.NewState(baseAPI, embedHost)
}

// discoverSports fills the state's sports listing and returns the slugs to
// scan. Explicitly requested sports bypass discovery entirely.
func (s *Scanner) discoverSports(state *output.State) ([]string, error) {
	if len(s.opts.Sports) > 0 {
		return s.opts.Sports, nil
	}

	probe := s.api.Sports()
	state.SportsProbe = &probe
	if probe.JSON == nil {
		state.AddError("sports", probe)
		return nil, probe.Err()
	}
	state.Sports = probe.JSON

	slugs := api.SportSlugs(probe.JSON)
	log.Infof("discovered %s", util.Quantify(len(slugs), "sport", "sports"))
	return slugs, nil
}

// listMatches fetches each sport's match listing sequentially and queues the
// records that still need processing. Sports whose items survived a resume
// keep them; their already done ids are never queued again.
func (s *Scanner) listMatches(ctx context.Context, state *output.State, slugs []string) []unit {
	done := state.DoneIDs()

	var units []unit
	for _, sport := range slugs {
		if ctx.Err() != nil {
			break
		}
		s.pace()

		probe := s.api.MatchesForSport(sport)
		records, shape := api.Records(probe.JSON)
		log.Debugf("sport %s: shape=%s records=%d path=%s", sport, shape, len(records), probe.AttemptedPath)

		if kept := state.MergeBlock(sport, probe); kept {
			log.Infof("sport %s: keeping %s from prior run",
				sport, util.Quantify(len(state.Matches[sport].Items), "item", "items"))
		}

		for _, record := range records {
			if id := match.Record(record).ID(); id != "" {
				if _, skip := done[id]; skip {
					continue
				}
			}
			units = append(units, unit{sport: sport, record: record})
		}
	}
	return units
}

// enrichAll drives the worker pool. The coordinator goroutine is the only
// writer of state; it appends each finished unit and flushes the report.
func (s *Scanner) enrichAll(ctx context.Context, state *output.State, units []unit) {
	if len(units) == 0 {
		return
	}

	tasks := make(chan unit)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range tasks {
				results <- result{sport: u.sport, enriched: s.process(u.record)}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, u := range units {
			select {
			case <-ctx.Done():
				log.Warn("scan interrupted, draining in-flight matches")
				return
			case tasks <- u:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		state.Append(res.sport, res.enriched)
		completed++
		if err := output.Flush(state, s.opts.OutputPath); err != nil {
			log.Errorf("incremental flush: %v", err)
		}
		log.Debugf("completed %d/%d: %s", completed, len(units), res.enriched.MatchID)
	}
}

// process runs one unit with pacing and panic containment. A panicking unit
// becomes an error-tagged record; the pool itself never dies.
func (s *Scanner) process(record match.Record) (enriched match.Enriched) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic enriching match %s: %v", record.ID(), r)
			enriched = match.Enriched{
				MatchID: record.ID(),
				Basic:   record,
				Streams: []match.StreamResolution{},
				Error:   fmt.Sprint(r),
			}
		}
	}()

	s.pace()
	return s.enricher.Enrich(record)
}

func (s *Scanner) pace() {
	if s.opts.RateDelay > 0 {
		time.Sleep(s.opts.RateDelay)
	}
}

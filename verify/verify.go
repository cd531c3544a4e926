// Package verify confirms that resolved stream URLs are playable HLS
// playlists, either for ad-hoc candidate URLs or for every resolved stream of
// a normalized report.
package verify

import (
	"context"
	"sync"
	"time"

	"github.com/albinchristo04/streameast/log"
	"github.com/albinchristo04/streameast/network"
	"github.com/albinchristo04/streameast/normalize"
	"github.com/albinchristo04/streameast/output"
	"github.com/albinchristo04/streameast/playlist"
	"github.com/albinchristo04/streameast/util"
)

// Entry is the verification outcome of a single candidate URL.
type Entry struct {
	playlist.Report
	Verified []playlist.VerifiedVariant `json:"verifiedVariants,omitempty"`
}

// Result collects the verification of one match's resolved streams.
type Result struct {
	MatchID   string  `json:"matchId,omitempty"`
	Title     string  `json:"title,omitempty"`
	CheckedAt string  `json:"checkedAt"`
	Playlists []Entry `json:"resolvedM3u8"`
}

// Report is the verification output document. The map indexes results by
// match id for resumption; the list preserves completion order.
type Report struct {
	GeneratedAt string            `json:"generatedAt"`
	Input       string            `json:"input,omitempty"`
	MatchesMap  map[string]Result `json:"matchesMap"`
	MatchesList []Result          `json:"matchesList"`
}

// Options configures a verification run.
type Options struct {
	// Workers bounds the pool when verifying a whole report.
	Workers int

	// Deep additionally fetches every discovered variant.
	Deep bool

	// OutputPath, when set, receives incremental flushes of the report.
	OutputPath string

	// Resume skips matches already present in the existing output.
	Resume bool
}

// Verifier runs playlist verification.
type Verifier struct {
	client *network.Client
	opts   Options
}

// New constructs a Verifier.
func New(client *network.Client, opts Options) *Verifier {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Verifier{client: client, opts: opts}
}

// Candidate inspects one URL, optionally probing each discovered variant.
func (v *Verifier) Candidate(candidateURL string) Entry {
	entry := Entry{Report: playlist.Inspect(v.client, candidateURL)}
	if v.opts.Deep && len(entry.Variants) > 0 {
		entry.Verified = playlist.VerifyVariants(v.client, entry.Report)
	}
	return entry
}

// Candidates inspects a list of ad-hoc URLs sequentially.
func (v *Verifier) Candidates(urls []string) []Entry {
	entries := make([]Entry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, v.Candidate(u))
	}
	return entries
}

// Match verifies every resolved stream of one normalized match.
func (v *Verifier) Match(m normalize.Match) Result {
	result := Result{
		MatchID:   m.MatchID,
		Title:     m.Title,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
		Playlists: []Entry{},
	}
	for _, stream := range m.Streams {
		if stream.URL == "" {
			continue
		}
		entry := v.Candidate(stream.URL)
		entry.Label = stream.Label
		result.Playlists = append(result.Playlists, entry)
	}
	return result
}

// Run verifies a whole normalized report concurrently, flushing the output
// after every completed match. Cancelling the context stops scheduling;
// in-flight matches drain into the final flush.
func (v *Verifier) Run(ctx context.Context, matches []normalize.Match, input string) (*Report, error) {
	report := &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Input:       input,
		MatchesMap:  map[string]Result{},
		MatchesList: []Result{},
	}

	done := v.resumeDone()
	var pending []normalize.Match
	for _, m := range matches {
		if m.MatchID != "" {
			if prior, skip := done[m.MatchID]; skip {
				report.MatchesMap[m.MatchID] = prior
				report.MatchesList = append(report.MatchesList, prior)
				continue
			}
		}
		pending = append(pending, m)
	}

	log.Infof("verifying %s (deep=%v)",
		util.Quantify(len(pending), "match", "matches"), v.opts.Deep)

	tasks := make(chan normalize.Match)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < v.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range tasks {
				results <- v.Match(m)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, m := range pending {
			select {
			case <-ctx.Done():
				return
			case tasks <- m:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		key := result.MatchID
		if key == "" {
			key = result.Title
		}
		report.MatchesMap[key] = result
		report.MatchesList = append(report.MatchesList, result)

		if v.opts.OutputPath != "" {
			if err := output.WriteJSON(v.opts.OutputPath, report); err != nil {
				log.Errorf("incremental flush: %v", err)
			}
		}
	}

	if v.opts.OutputPath != "" {
		if err := output.WriteJSON(v.opts.OutputPath, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

// resumeDone loads the already verified matches from a prior output file.
func (v *Verifier) resumeDone() map[string]Result {
	done := map[string]Result{}
	if !v.opts.Resume || v.opts.OutputPath == "" {
		return done
	}

	raw, err := output.ReadJSON[Report](v.opts.OutputPath)
	if err != nil {
		log.Warnf("cannot resume verification from %s: %v", v.opts.OutputPath, err)
		return done
	}
	if raw != nil {
		for key, result := range raw.MatchesMap {
			done[key] = result
		}
	}
	return done
}

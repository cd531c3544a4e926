// Package output persists scan state as a single JSON report with crash-safe
// incremental writes.
//
// The report is flushed after every completed unit of work by marshaling the
// whole state to a sibling temp file and renaming it over the target, so an
// external reader always observes valid JSON. Resume works by loading the
// prior report and skipping matches it already contains.
package output

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/albinchristo04/streameast/filesystem"
	"github.com/albinchristo04/streameast/match"
	"github.com/albinchristo04/streameast/network"
)

// SportBlock holds one sport's listing probe and its processed matches.
type SportBlock struct {
	Probe *network.Probe  `json:"probe,omitempty"`
	Items []match.Enriched `json:"items"`
}

// StageError records a pipeline-stage failure that did not stop the run.
type StageError struct {
	Stage  string `json:"stage"`
	Detail any    `json:"detail"`
}

// State is the complete scan report.
type State struct {
	ScannedAt   string                 `json:"scannedAt"`
	FinishedAt  string                 `json:"finishedAt,omitempty"`
	BaseAPI     string                 `json:"baseApi"`
	EmbedHost   string                 `json:"embedHost"`
	Sports      any                    `json:"sports"`
	SportsProbe *network.Probe         `json:"sportsProbe,omitempty"`
	Matches     map[string]*SportBlock `json:"matches"`
	Errors      []StageError           `json:"errors"`
}

// NewState initializes an empty report for a fresh run.
func NewState(baseAPI, embedHost string) *State {
	return &State{
		ScannedAt: time.Now().UTC().Format(time.RFC3339),
		BaseAPI:   baseAPI,
		EmbedHost: embedHost,
		Matches:   map[string]*SportBlock{},
		Errors:    []StageError{},
	}
}

// Load reads a prior report for resumption. A missing file is not an error;
// it simply means there is nothing to resume from.
func Load(path string) (*State, error) {
	fs := filesystem.API()

	exists, err := fs.Exists(path)
	if err != nil || !exists {
		return nil, err
	}

	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	if state.Matches == nil {
		state.Matches = map[string]*SportBlock{}
	}
	return &state, nil
}

// SetBlock stores a sport's fresh listing probe and items, replacing any
// existing block.
func (s *State) SetBlock(sport string, probe network.Probe, items []match.Enriched) {
	if items == nil {
		items = []match.Enriched{}
	}
	s.Matches[sport] = &SportBlock{Probe: &probe, Items: items}
}

// MergeBlock stores a sport's fresh listing probe but keeps already processed
// items when the block holds any, so a resumed run does not discard work.
// It reports whether existing items were kept.
func (s *State) MergeBlock(sport string, probe network.Probe) bool {
	block, ok := s.Matches[sport]
	if ok && len(block.Items) > 0 {
		block.Probe = &probe
		return true
	}
	s.SetBlock(sport, probe, nil)
	return false
}

// Append records one processed match under its sport.
func (s *State) Append(sport string, enriched match.Enriched) {
	block, ok := s.Matches[sport]
	if !ok {
		block = &SportBlock{Items: []match.Enriched{}}
		s.Matches[sport] = block
	}
	block.Items = append(block.Items, enriched)
}

// AddError records a stage failure.
func (s *State) AddError(stage string, detail any) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Detail: detail})
}

// DoneIDs collects the ids of every match already processed in this report.
// The id is taken from the enriched record itself, falling back to the raw
// record's alias chain for reports written by older versions.
func (s *State) DoneIDs() map[string]struct{} {
	done := map[string]struct{}{}
	for _, block := range s.Matches {
		for _, item := range block.Items {
			id := item.MatchID
			if id == "" {
				id = item.Basic.ID()
			}
			if id != "" {
				done[id] = struct{}{}
			}
		}
	}
	return done
}

// Finish stamps the report's completion time.
func (s *State) Finish() {
	s.FinishedAt = time.Now().UTC().Format(time.RFC3339)
}

// Flush atomically writes the report: marshal to a sibling temp file, then
// rename over the target. Readers never observe a partially written file.
func Flush(state *State, path string) error {
	return WriteJSON(path, state)
}

// ReadJSON loads any JSON document written by WriteJSON. A missing file
// yields nil without an error, mirroring Load.
func ReadJSON[T any](path string) (*T, error) {
	fs := filesystem.API()

	exists, err := fs.Exists(path)
	if err != nil || !exists {
		return nil, err
	}

	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var document T
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

// WriteJSON atomically writes any document with the same temp-then-rename
// scheme as Flush. Shared by the normalize and verify reports.
func WriteJSON(path string, document any) error {
	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return err
	}

	fs := filesystem.API()
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := tempPath(path)
	if err := fs.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return fs.Rename(tmp, path)
}

// tempPath derives the sibling temp file name, swapping the extension so the
// partial file sorts next to its target.
func tempPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".partial.json"
}

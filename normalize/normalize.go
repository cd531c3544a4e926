// Package normalize flattens a scan report into compact match records fit for
// downstream consumers: stable field names, ISO-8601 kickoff times, and a
// deduplicated list of resolved stream URLs per match.
package normalize

import (
	"time"

	"github.com/albinchristo04/streameast/match"
	"github.com/albinchristo04/streameast/output"
	"github.com/albinchristo04/streameast/util"
)

// Team is one side of a match in compact form.
type Team struct {
	Name    string `json:"name,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Score carries the current score when the detail document exposes one.
// Upstream emits scores as numbers or strings, so the fields stay untyped.
type Score struct {
	Home any `json:"home,omitempty"`
	Away any `json:"away,omitempty"`
}

// Stream is one playable URL in compact form.
type Stream struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// Match is the compact form of one enriched match.
type Match struct {
	MatchID   string          `json:"matchId,omitempty"`
	Title     string          `json:"title,omitempty"`
	League    string          `json:"league,omitempty"`
	StartTime string          `json:"startTime,omitempty"`
	Teams     map[string]Team `json:"teams"`
	Score     *Score          `json:"score,omitempty"`
	PosterURL string          `json:"posterUrl,omitempty"`
	Streams   []Stream        `json:"resolvedStreams"`
}

// Report is the normalized output document.
type Report struct {
	GeneratedAt string  `json:"generatedAt"`
	Count       int     `json:"count"`
	Matches     []Match `json:"matches"`
}

// Options selects which matches survive normalization.
type Options struct {
	OnlyLive     bool
	OnlyUpcoming bool
}

// Build normalizes every match of a scan report, applying the live/upcoming
// filters when requested.
func Build(state *output.State, opts Options) Report {
	report := Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Matches:     []Match{},
	}
	now := time.Now().UTC()

	for _, block := range state.Matches {
		for _, enriched := range block.Items {
			if opts.OnlyLive && !IsLive(enriched) {
				continue
			}
			if opts.OnlyUpcoming && !IsUpcoming(enriched, now) {
				continue
			}
			report.Matches = append(report.Matches, One(enriched))
		}
	}
	report.Count = len(report.Matches)
	return report
}

// One flattens a single enriched match.
func One(enriched match.Enriched) Match {
	basic := enriched.Basic
	detail := detailObject(enriched)

	id := enriched.MatchID
	if id == "" {
		id = basic.ID()
	}

	out := Match{
		MatchID:   id,
		Title:     firstOf(basic, detail, "title", "name", "matchTitle"),
		League:    firstOf(basic, detail, "league", "competition", "tournament"),
		StartTime: ToISO(startValue(basic, detail)),
		Teams:     teams(basic, detail),
		Score:     score(detail),
		PosterURL: posterURL(enriched, basic, detail),
		Streams:   collectStreams(enriched, basic, detail),
	}
	return out
}

// IsLive applies the liveness heuristic: a current minute marker, a status
// containing "live", or an explicit event flag, in the listing record or the
// detail document.
func IsLive(enriched match.Enriched) bool {
	for _, candidate := range []map[string]any{enriched.Basic, detailObject(enriched)} {
		if candidate == nil {
			continue
		}
		if util.PickString(candidate, "currentMinute", "minute") != "" {
			return true
		}
		if isEvent, ok := candidate["isEvent"].(bool); ok && isEvent {
			return true
		}
		if status := util.PickString(candidate, "status", "state"); status != "" &&
			containsFold(status, "live") {
			return true
		}
	}
	return false
}

// IsUpcoming reports whether the first parsable kickoff time lies in the
// future. A match without any usable time field is never upcoming.
func IsUpcoming(enriched match.Enriched, now time.Time) bool {
	for _, candidate := range []map[string]any{enriched.Basic, detailObject(enriched)} {
		if candidate == nil {
			continue
		}
		for _, k := range []string{"timestamp", "startTimestamp", "start", "date", "time", "start_time"} {
			v, present := candidate[k]
			if !present || v == nil {
				continue
			}
			iso := ToISO(v)
			if iso == "" {
				continue
			}
			parsed, err := time.Parse(time.RFC3339, iso)
			if err != nil {
				continue
			}
			return parsed.After(now)
		}
	}
	return false
}

func detailObject(enriched match.Enriched) map[string]any {
	if enriched.Detail == nil {
		return nil
	}
	return enriched.Detail.Object()
}

func firstOf(basic match.Record, detail map[string]any, keys ...string) string {
	if v := util.PickString(basic, keys...); v != "" {
		return v
	}
	return util.PickString(detail, keys...)
}

func startValue(basic match.Record, detail map[string]any) any {
	if v, ok := util.Pick(basic, "timestamp", "date", "start", "startTimestamp", "start_time").Get(); ok {
		return v
	}
	if v, ok := util.Pick(detail, "timestamp").Get(); ok {
		return v
	}
	return nil
}

// teams builds the home/away pair from the structured teams object, falling
// back to loose homeTeam/awayTeam fields that some listing shapes use.
func teams(basic match.Record, detail map[string]any) map[string]Team {
	out := map[string]Team{}

	structured := basic.Teams()
	if structured == nil {
		structured = match.Record(detail).Teams()
	}
	if structured != nil {
		for _, side := range []string{"home", "away"} {
			team, _ := structured[side].(map[string]any)
			out[side] = Team{
				Name:    util.PickString(team, "name", "title", "teamName"),
				LogoURL: util.PickString(team, "logoUrl", "logo", "logo_url"),
			}
		}
		return out
	}

	out["home"] = Team{Name: looseTeamName(basic, "homeTeam", "team_home", "home")}
	out["away"] = Team{Name: looseTeamName(basic, "awayTeam", "team_away", "away")}
	return out
}

func looseTeamName(basic match.Record, keys ...string) string {
	v, ok := util.Pick(basic, keys...).Get()
	if !ok {
		return ""
	}
	if obj, isObj := v.(map[string]any); isObj {
		return util.PickString(obj, "name")
	}
	return util.Stringify(v)
}

func score(detail map[string]any) *Score {
	if detail == nil {
		return nil
	}

	home, _ := util.Pick(detail, "homeScore", "home_score", "scoreHome", "score_home").Get()
	away, _ := util.Pick(detail, "awayScore", "away_score", "scoreAway", "score_away").Get()
	if home == nil && away == nil {
		if nested := util.PickMap(detail, "score"); nested != nil {
			home = nested["home"]
			away = nested["away"]
		}
	}
	if home == nil && away == nil {
		return nil
	}
	return &Score{Home: home, Away: away}
}

func posterURL(enriched match.Enriched, basic match.Record, detail map[string]any) string {
	if enriched.Poster != nil && enriched.Poster.URL != "" {
		return enriched.Poster.URL
	}
	if v := util.PickString(basic, "poster", "posterUrl", "poster_url", "thumbnail"); v != "" {
		return v
	}
	return util.PickString(detail, "poster")
}

// collectStreams gathers playable URLs from every place the scan may have put
// them: embed resolutions first, then the detail document, then the listing
// record. Duplicate URLs keep their first occurrence.
func collectStreams(enriched match.Enriched, basic match.Record, detail map[string]any) []Stream {
	var streams []Stream

	for _, resolution := range enriched.Streams {
		for _, discovered := range resolution.Resolution.Streams {
			if discovered.URL == "" {
				continue
			}
			label := discovered.Label
			if label == "" {
				label = "resolved"
			}
			streams = append(streams, Stream{Label: label, URL: discovered.URL})
		}
	}

	for _, key := range []string{"streams", "sources", "videos"} {
		for _, entry := range util.PickSlice(detail, key) {
			streams = appendEntry(streams, entry)
		}
	}

	for _, entry := range util.PickSlice(basic, "streams", "sources") {
		streams = appendEntry(streams, entry)
	}

	seen := map[string]struct{}{}
	deduped := []Stream{}
	for _, s := range streams {
		if _, dup := seen[s.URL]; dup {
			continue
		}
		seen[s.URL] = struct{}{}
		deduped = append(deduped, s)
	}
	return deduped
}

func appendEntry(streams []Stream, entry any) []Stream {
	switch v := entry.(type) {
	case string:
		if v != "" {
			streams = append(streams, Stream{URL: v})
		}
	case map[string]any:
		u := util.PickString(v, "url", "resolvedUrl", "src", "source")
		if u != "" {
			streams = append(streams, Stream{
				Label: util.PickString(v, "label", "quality", "language"),
				URL:   u,
			})
		}
	}
	return streams
}

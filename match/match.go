// Package match defines the domain model of the scan pipeline: raw upstream
// match records and the enriched form the scanner produces from them.
package match

import (
	"github.com/albinchristo04/streameast/embed"
	"github.com/albinchristo04/streameast/network"
	"github.com/albinchristo04/streameast/util"
)

// Record is a raw match object exactly as the upstream delivered it. The
// upstream renames fields freely, so access goes through prioritized key
// lookups instead of a fixed struct.
type Record map[string]any

// ID returns the match identifier, trying the known aliases in order.
func (r Record) ID() string {
	return util.PickString(r, "matchId", "id", "match_id")
}

// Title returns a human-readable match title when one is present.
func (r Record) Title() string {
	return util.PickString(r, "title", "name", "matchTitle")
}

// PosterID returns the poster asset identifier when one is present.
func (r Record) PosterID() string {
	return util.PickString(r, "poster", "posterId", "poster_id")
}

// LeagueLogoID returns the league logo asset identifier when one is present.
func (r Record) LeagueLogoID() string {
	return util.PickString(r, "leagueLogoId", "league_logo_id", "leagueLogo")
}

// Teams returns the home/away team objects when present.
func (r Record) Teams() map[string]any {
	return util.PickMap(r, "teams")
}

// TeamLogoID extracts the logo asset identifier of one team object.
func TeamLogoID(team map[string]any) string {
	return util.PickString(team, "logoId", "logo_id", "logo")
}

// StreamRefs collects this record's stream reference entries, preferring the
// detail document over the listing record.
func (r Record) StreamRefs(detail map[string]any) []any {
	if refs := util.PickSlice(detail, "streams", "sources"); refs != nil {
		return refs
	}
	return util.PickSlice(r, "streams")
}

// StreamURL extracts the reference URL of one stream entry, which upstream
// delivers either as a bare string or as an object.
func StreamURL(entry any) string {
	switch v := entry.(type) {
	case string:
		return v
	case map[string]any:
		return util.PickString(v, "url", "resolvedUrl", "source")
	}
	return ""
}

// ImageProbe pairs an asset URL with its optional existence check.
type ImageProbe struct {
	URL  string         `json:"url"`
	Head *network.Probe `json:"head,omitempty"`
}

// StreamResolution pairs a stream entry with its embed resolution outcome.
type StreamResolution struct {
	Meta       any              `json:"streamMeta"`
	Resolution embed.Resolution `json:"resolution"`
}

// Enriched is the fully processed form of one match: the original record plus
// every probe and resolution gathered for it. A failed unit still produces an
// Enriched value with Error set; the pipeline never drops a match silently.
type Enriched struct {
	MatchID    string                 `json:"matchId,omitempty"`
	Basic      Record                 `json:"basic"`
	Detail     *network.Probe         `json:"matchProbe,omitempty"`
	Poster     *ImageProbe            `json:"posterProbe,omitempty"`
	TeamLogos  map[string]*ImageProbe `json:"teamLogos,omitempty"`
	LeagueLogo *ImageProbe            `json:"leagueLogo,omitempty"`
	Streams    []StreamResolution     `json:"embedResolutions"`
	Error      string                 `json:"error,omitempty"`
}

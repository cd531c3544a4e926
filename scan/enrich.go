package scan

import (
	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/embed"
	"github.com/albinchristo04/streameast/match"
)

// Enricher processes one raw match record into its enriched form: detail
// fetch, image discovery, optional HEAD checks, and embed resolution for
// every stream reference.
type Enricher struct {
	API   *api.Client
	Embed *embed.Resolver

	// CheckImages enables HEAD probes against discovered asset URLs.
	CheckImages bool
}

// Enrich runs the full enrichment of one match. Every failure is recorded on
// the returned value; a record without an identifier is tagged and returned
// untouched.
func (e *Enricher) Enrich(basic match.Record) match.Enriched {
	enriched := match.Enriched{
		MatchID: basic.ID(),
		Basic:   basic,
		Streams: []match.StreamResolution{},
	}
	if enriched.MatchID == "" {
		enriched.Error = "missing_match_id"
		return enriched
	}

	detailProbe := e.API.MatchDetail(enriched.MatchID)
	enriched.Detail = &detailProbe
	detail := detailProbe.Object()

	e.discoverImages(&enriched, basic, detail)

	for _, entry := range basic.StreamRefs(detail) {
		reference := match.StreamURL(entry)
		if reference == "" {
			continue
		}
		enriched.Streams = append(enriched.Streams, match.StreamResolution{
			Meta:       entry,
			Resolution: e.Embed.Resolve(reference),
		})
	}
	return enriched
}

// discoverImages locates poster, team logo and league logo assets, preferring
// identifiers on the listing record over the detail document.
func (e *Enricher) discoverImages(enriched *match.Enriched, basic match.Record, detail map[string]any) {
	posterID := basic.PosterID()
	if posterID == "" {
		posterID = match.Record(detail).PosterID()
	}
	if posterID != "" {
		enriched.Poster = e.imageProbe(e.API.PosterURL(posterID))
	}

	teams := basic.Teams()
	if teams == nil {
		teams = match.Record(detail).Teams()
	}
	for _, side := range []string{"home", "away"} {
		team, ok := teams[side].(map[string]any)
		if !ok {
			continue
		}
		logoID := match.TeamLogoID(team)
		if logoID == "" {
			continue
		}
		if enriched.TeamLogos == nil {
			enriched.TeamLogos = map[string]*match.ImageProbe{}
		}
		enriched.TeamLogos[side] = e.imageProbe(e.API.TeamLogoURL(logoID))
	}

	leagueID := basic.LeagueLogoID()
	if leagueID == "" {
		leagueID = match.Record(detail).LeagueLogoID()
	}
	if leagueID != "" {
		enriched.LeagueLogo = e.imageProbe(e.API.LeagueLogoURL(leagueID))
	}
}

func (e *Enricher) imageProbe(assetURL string) *match.ImageProbe {
	probe := &match.ImageProbe{URL: assetURL}
	if e.CheckImages {
		head := e.API.Head(assetURL)
		probe.Head = &head
	}
	return probe
}

// Package embed resolves opaque stream references through the embed provider's
// token exchange endpoint.
//
// Most references are not direct media URLs but provider pages carrying a
// token. The resolver exchanges the token for playable URLs, trying a small
// matrix of hosts and id candidates. Exhaustion is a normal outcome.
package embed

import (
	"net/url"
	"strings"

	"github.com/albinchristo04/streameast/network"
)

// directMarkers short-circuit resolution: a reference containing one of these
// is already playable and needs no exchange.
var directMarkers = []string{".m3u8", ".mp4", ".m3u", "videoplayback"}

// Stream is one playable URL discovered during resolution.
type Stream struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Resolution records the outcome of resolving one stream reference.
type Resolution struct {
	OriginalURL string         `json:"originalUrl"`
	Resolved    bool           `json:"resolved"`
	Streams     []Stream       `json:"discoveredStreams"`
	APIProbe    *network.Probe `json:"apiProbe,omitempty"`
}

// Resolver exchanges embed references for playable stream URLs.
type Resolver struct {
	net *network.Client

	// Host is the configured fallback embed provider origin.
	Host string

	// Referer is attached to every exchange request; the provider rejects
	// requests without it.
	Referer string
}

// NewResolver constructs a Resolver against the given provider host.
func NewResolver(net *network.Client, host, referer string) *Resolver {
	return &Resolver{net: net, Host: strings.TrimRight(host, "/"), Referer: referer}
}

// Resolve turns one stream reference into playable URLs.
//
// Direct media references return immediately without touching the network.
// Otherwise the resolver walks host candidates (the reference's own origin
// when it looks like an embed provider, then the configured fallback) and for
// each host tries every id candidate against /api/get?id=, then the raw
// reference against /api/get?url=. The first JSON body yielding streams wins.
// When everything is exhausted the result simply reports Resolved=false.
func (r *Resolver) Resolve(reference string) Resolution {
	res := Resolution{OriginalURL: reference}
	if reference == "" {
		return res
	}

	if isDirect(reference) {
		res.Resolved = true
		res.Streams = []Stream{{Label: "direct", URL: reference}}
		return res
	}

	parsed, err := url.Parse(reference)
	if err != nil {
		return res
	}

	headers := map[string]string{}
	if r.Referer != "" {
		headers["Referer"] = r.Referer
	}

	for _, host := range r.hostCandidates(parsed) {
		apiGet := host + "/api/get"

		for _, id := range idCandidates(parsed) {
			probe := r.net.Get(apiGet+"?id="+url.QueryEscape(id), headers)
			res.APIProbe = &probe
			if streams := exchangedStreams(probe); len(streams) > 0 {
				res.Resolved = true
				res.Streams = streams
				return res
			}
		}

		probe := r.net.Get(apiGet+"?url="+url.QueryEscape(reference), headers)
		res.APIProbe = &probe
		if streams := exchangedStreams(probe); len(streams) > 0 {
			res.Resolved = true
			res.Streams = streams
			return res
		}
	}
	return res
}

func isDirect(reference string) bool {
	low := strings.ToLower(reference)
	for _, marker := range directMarkers {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}

// hostCandidates orders the origins worth asking: the reference's own origin
// when its hostname looks like an embed provider, then the configured fallback.
func (r *Resolver) hostCandidates(parsed *url.URL) []string {
	var hosts []string
	if parsed.Host != "" && strings.Contains(parsed.Host, "spider") {
		hosts = append(hosts, parsed.Scheme+"://"+parsed.Host)
	}
	if r.Host != "" && (len(hosts) == 0 || hosts[0] != r.Host) {
		hosts = append(hosts, r.Host)
	}
	return hosts
}

// idCandidates orders the token guesses extracted from a reference: the id
// query parameter, then token, then the last path segment.
func idCandidates(parsed *url.URL) []string {
	var ids []string
	q := parsed.Query()
	ids = append(ids, q["id"]...)
	ids = append(ids, q["token"]...)

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if last := parts[len(parts)-1]; last != "" {
		ids = append(ids, last)
	}
	return ids
}

// exchangedStreams extracts playable URLs from an exchange response. The
// provider answers in one of three shapes: a streams array, a resolvedUrl
// field, or a bare url field.
func exchangedStreams(probe network.Probe) []Stream {
	if probe.StatusCode != 200 || probe.JSON == nil {
		return nil
	}
	obj := probe.Object()
	if obj == nil {
		return nil
	}

	if raw, ok := obj["streams"].([]any); ok {
		var streams []Stream
		for _, item := range raw {
			entry, isObj := item.(map[string]any)
			if !isObj {
				continue
			}
			u, _ := entry["url"].(string)
			if u == "" {
				continue
			}
			label, _ := entry["label"].(string)
			streams = append(streams, Stream{Label: label, URL: u})
		}
		return streams
	}

	for _, key := range []string{"resolvedUrl", "url"} {
		if u, ok := obj[key].(string); ok && u != "" {
			return []Stream{{Label: "resolved", URL: u}}
		}
	}
	return nil
}

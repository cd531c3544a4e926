// Package playlist implements a pure parser for HLS (m3u8) manifests.
//
// The grammar is small and line-oriented, but the attribute encoding has to be
// handled exactly: downstream players reject playlists whose variant metadata
// was mis-parsed. No I/O happens here.
package playlist

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	tagHeader    = "#EXTM3U"
	tagStreamInf = "#EXT-X-STREAM-INF:"
)

// Variant is one quality option of a master playlist, or the playlist itself
// when it is already a media playlist.
type Variant struct {
	Bandwidth  *int   `json:"bandwidth"`
	Resolution string `json:"resolution,omitempty"`
	Label      string `json:"label,omitempty"`
	URL        string `json:"url"`
}

// IsPlaylist reports whether the text is an HLS playlist of any kind.
func IsPlaylist(text string) bool {
	return strings.Contains(text, tagHeader)
}

// IsMaster reports whether the text is a master playlist referencing variant streams.
func IsMaster(text string) bool {
	return IsPlaylist(text) && strings.Contains(text, "#EXT-X-STREAM-INF")
}

// ParseMaster extracts the variants of a master playlist in file order.
// Relative URIs are resolved against baseURL; absolute URIs pass through.
// A URI with no preceding #EXT-X-STREAM-INF line yields a variant without
// metadata, tolerating simplified or malformed playlists. The pending
// attribute context is cleared after each URI so a stray line cannot inherit
// a stale header.
func ParseMaster(text, baseURL string) []Variant {
	var variants []Variant
	var pending map[string]string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, tagStreamInf) {
			pending = parseAttributes(strings.TrimPrefix(line, tagStreamInf))
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		v := Variant{URL: resolveURL(baseURL, line)}
		if pending != nil {
			if raw, ok := pending["BANDWIDTH"]; ok {
				if bw, err := strconv.Atoi(raw); err == nil {
					v.Bandwidth = &bw
				}
			}
			v.Resolution = pending["RESOLUTION"]
			v.Label = pending["NAME"]
		}
		variants = append(variants, v)
		pending = nil
	}

	return variants
}

// MediaSegments returns all non-comment lines of a media playlist.
func MediaSegments(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// parseAttributes splits a comma-separated KEY=VALUE attribute list, stripping
// optional quotes around values.
func parseAttributes(list string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(list, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		attrs[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return attrs
}

// resolveURL joins a possibly relative reference against base.
func resolveURL(base, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() || base == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

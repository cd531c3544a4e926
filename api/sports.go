package api

import (
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"

	"github.com/albinchristo04/streameast/filesystem"
	"github.com/albinchristo04/streameast/util"
	"github.com/albinchristo04/streameast/where"
)

// sportsCacher persists the sport slug list so repeated invocations do not
// hammer the upstream discovery endpoint.
var sportsCacher = gache.New[[]string](&gache.Options{
	Path:       where.SportsCache(),
	Lifetime:   time.Hour * 6,
	FileSystem: &filesystem.GacheFs{},
})

// SportSlugs extracts sport identifiers from a decoded sports payload.
// Entries may be plain strings or objects carrying a slug-like field.
func SportSlugs(payload any) []string {
	items, ok := payload.([]any)
	if !ok {
		if obj, isObj := payload.(map[string]any); isObj {
			items = util.PickSlice(obj, "sports", "items", "data")
		}
	}

	var slugs []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				slugs = append(slugs, v)
			}
		case map[string]any:
			if slug := util.PickString(v, "slug", "id", "name", "key"); slug != "" {
				slugs = append(slugs, slug)
			}
		}
	}
	return lo.Uniq(slugs)
}

// SportSlugsCached resolves the sport list through the disk cache, falling
// back to a live fetch when the cache is cold or expired. Network failures
// surface through the returned probe error field, never as a panic.
func (c *Client) SportSlugsCached() ([]string, error) {
	cached, expired, err := sportsCacher.Get()
	if err == nil && !expired && len(cached) > 0 {
		return cached, nil
	}

	probe := c.Sports()
	if !probe.OK() {
		// Serve a stale cache over nothing when the upstream is down.
		if len(cached) > 0 {
			return cached, nil
		}
		return nil, probe.Err()
	}

	slugs := SportSlugs(probe.JSON)
	if err := sportsCacher.Set(slugs); err != nil {
		return slugs, err
	}
	return slugs, nil
}

// FilterSports narrows slugs to those fuzzy-matching the given patterns.
// With no patterns the full list passes through unchanged.
func FilterSports(slugs, patterns []string) []string {
	if len(patterns) == 0 {
		return slugs
	}
	return lo.Filter(slugs, func(slug string, _ int) bool {
		return lo.SomeBy(patterns, func(pattern string) bool {
			return fuzzy.MatchFold(pattern, slug)
		})
	})
}

package api

import (
	"github.com/samber/mo"

	"github.com/albinchristo04/streameast/util"
)

// Shape tags the recognised layouts of upstream list payloads.
type Shape string

const (
	// ListShape is a bare JSON array of match objects.
	ListShape Shape = "list"
	// ItemsShape nests the array under an "items" key.
	ItemsShape Shape = "items"
	// MatchesShape nests the array under "matches" or "data".
	MatchesShape Shape = "matches"
	// SingleShape is one match object delivered without a wrapping array.
	SingleShape Shape = "single"
	// UnknownShape means no match objects could be located.
	UnknownShape Shape = "unknown"
)

// Records normalizes a decoded payload into a flat slice of match objects,
// reporting which layout was recognised. Unknown payloads yield an empty
// slice rather than an error; the caller decides whether that is fatal.
func Records(payload any) ([]map[string]any, Shape) {
	switch v := payload.(type) {
	case []any:
		return onlyObjects(v), ListShape
	case map[string]any:
		if items := util.PickSlice(v, "items"); items != nil {
			return onlyObjects(items), ItemsShape
		}
		if items := util.PickSlice(v, "matches", "data"); items != nil {
			return onlyObjects(items), MatchesShape
		}
		// Any remaining lone object is a single-match payload. A missing id
		// is the enricher's concern; it tags such records instead of dropping them.
		return []map[string]any{v}, SingleShape
	}
	return nil, UnknownShape
}

// Detail normalizes a match-detail payload, unwrapping single-element
// containers that some endpoint shapes return.
func Detail(payload any) mo.Option[map[string]any] {
	records, shape := Records(payload)
	if shape == UnknownShape || len(records) == 0 {
		return mo.None[map[string]any]()
	}
	return mo.Some(records[0])
}

func onlyObjects(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, obj)
		}
	}
	return records
}

package api

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSportSlugs(t *testing.T) {
	Convey("Given upstream sports payloads of varying shapes", t, func() {
		Convey("A plain string array passes through deduplicated", func() {
			payload := []any{"football", "basketball", "football"}
			So(SportSlugs(payload), ShouldResemble, []string{"football", "basketball"})
		})

		Convey("Object entries contribute their slug-like field", func() {
			payload := []any{
				map[string]any{"slug": "tennis", "name": "Tennis"},
				map[string]any{"id": "darts"},
				map[string]any{"name": "Snooker"},
			}
			So(SportSlugs(payload), ShouldResemble, []string{"tennis", "darts", "Snooker"})
		})

		Convey("A wrapped listing is unwrapped first", func() {
			payload := map[string]any{"sports": []any{"mma", "boxing"}}
			So(SportSlugs(payload), ShouldResemble, []string{"mma", "boxing"})
		})

		Convey("Unusable payloads yield nothing", func() {
			So(SportSlugs("garbage"), ShouldBeEmpty)
			So(SportSlugs(map[string]any{"error": "down"}), ShouldBeEmpty)
			So(SportSlugs([]any{42, true}), ShouldBeEmpty)
		})
	})
}

func TestFilterSports(t *testing.T) {
	slugs := []string{"football", "basketball", "american-football", "tennis"}

	Convey("Given a sport listing and user patterns", t, func() {
		Convey("No patterns means no filtering", func() {
			So(FilterSports(slugs, nil), ShouldResemble, slugs)
		})

		Convey("Patterns fuzzy-match case-insensitively", func() {
			So(FilterSports(slugs, []string{"FOOT"}), ShouldResemble, []string{"football", "american-football"})
			So(FilterSports(slugs, []string{"tns"}), ShouldResemble, []string{"tennis"})
		})

		Convey("Unmatched patterns produce an empty result", func() {
			So(FilterSports(slugs, []string{"cricket"}), ShouldBeEmpty)
		})
	})
}

func TestRecords(t *testing.T) {
	Convey("Given decoded list payloads", t, func() {
		Convey("A bare array is the list shape", func() {
			records, shape := Records([]any{map[string]any{"id": "1"}})
			So(shape, ShouldEqual, ListShape)
			So(records, ShouldHaveLength, 1)
		})

		Convey("items wrapping is recognised", func() {
			records, shape := Records(map[string]any{"items": []any{map[string]any{"id": "1"}, "junk"}})
			So(shape, ShouldEqual, ItemsShape)
			So(records, ShouldHaveLength, 1)
		})

		Convey("matches and data wrapping are recognised", func() {
			_, shape := Records(map[string]any{"matches": []any{}})
			So(shape, ShouldEqual, MatchesShape)

			_, shape = Records(map[string]any{"data": []any{}})
			So(shape, ShouldEqual, MatchesShape)
		})

		Convey("A lone match object is the single shape", func() {
			records, shape := Records(map[string]any{"matchId": "m7", "title": "Final"})
			So(shape, ShouldEqual, SingleShape)
			So(records[0]["title"], ShouldEqual, "Final")
		})

		Convey("A lone object without any id key is still the single shape", func() {
			records, shape := Records(map[string]any{"title": "Derby"})
			So(shape, ShouldEqual, SingleShape)
			So(records, ShouldHaveLength, 1)
			So(records[0]["title"], ShouldEqual, "Derby")
		})

		Convey("Non-object payloads are unknown", func() {
			records, shape := Records("text body")
			So(shape, ShouldEqual, UnknownShape)
			So(records, ShouldBeEmpty)

			_, shape = Records(42.0)
			So(shape, ShouldEqual, UnknownShape)
		})
	})
}

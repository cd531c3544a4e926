package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "match", "matches"), ShouldEqual, "1 match")
		So(Quantify(2, "match", "matches"), ShouldEqual, "2 matches")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}

func TestPick(t *testing.T) {
	Convey("Pick", t, func() {
		m := map[string]any{"match_id": "abc", "id": nil, "poster": map[string]any{"url": "x"}}

		Convey("Should honor candidate priority order", func() {
			v, ok := Pick(m, "matchId", "id", "match_id").Get()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "abc")
		})

		Convey("Should skip nil values", func() {
			So(Pick(m, "id").IsAbsent(), ShouldBeTrue)
		})

		Convey("Should tolerate a nil map", func() {
			So(Pick(nil, "anything").IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestPickString(t *testing.T) {
	Convey("PickString", t, func() {
		Convey("Should coerce numeric identifiers", func() {
			m := map[string]any{"id": float64(42)}
			So(PickString(m, "matchId", "id"), ShouldEqual, "42")
		})

		Convey("Should return empty when nothing matches", func() {
			So(PickString(map[string]any{}, "id"), ShouldEqual, "")
		})
	})
}

func TestPickMapSlice(t *testing.T) {
	Convey("PickMap/PickSlice", t, func() {
		m := map[string]any{
			"teams":   map[string]any{"home": "A"},
			"streams": []any{"one"},
		}
		So(PickMap(m, "teams"), ShouldContainKey, "home")
		So(PickMap(m, "missing"), ShouldBeNil)
		So(PickSlice(m, "streams"), ShouldHaveLength, 1)
		So(PickSlice(m, "teams"), ShouldBeNil)
	})
}

func TestStringify(t *testing.T) {
	Convey("Stringify", t, func() {
		So(Stringify("x"), ShouldEqual, "x")
		So(Stringify(float64(7)), ShouldEqual, "7")
		So(Stringify(7.5), ShouldEqual, "7.5")
		So(Stringify(true), ShouldEqual, "true")
		So(Stringify(nil), ShouldEqual, "")
	})
}

package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albinchristo04/streameast/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given a sport scan history", t, func() {
		Convey("When remembering scanned sports", func() {
			So(Remember("football", 1), ShouldBeNil)
			So(Remember("basketball", 10), ShouldBeNil)

			Convey("Suggestions come back sorted by scan count", func() {
				suggestionCache = make(map[string][]*queryRecord)

				s := SuggestMany("basket")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "basketball")
			})

			Convey("The best suggestion is exposed as an option", func() {
				suggestionCache = make(map[string][]*queryRecord)

				So(Suggest("foot").MustGet(), ShouldEqual, "football")
				So(Suggest("cricket").IsAbsent(), ShouldBeTrue)
			})

			Convey("Input is sanitized before lookup", func() {
				So(sanitize("  FOOTBALL  "), ShouldEqual, "football")
			})
		})
	})
}

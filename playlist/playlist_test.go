package playlist

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const masterText = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1280000,RESOLUTION=1920x1080,NAME="HD"
chunk.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=640000,RESOLUTION=1280x720
https://cdn.example.com/sd/chunk.m3u8
`

func TestIsPlaylist(t *testing.T) {
	Convey("IsPlaylist", t, func() {
		So(IsPlaylist("#EXTM3U\n#EXT-X-VERSION:3"), ShouldBeTrue)
		So(IsPlaylist("   \n#EXTM3U"), ShouldBeTrue)
		So(IsPlaylist("<html>not a playlist</html>"), ShouldBeFalse)
		So(IsPlaylist(""), ShouldBeFalse)
	})
}

func TestIsMaster(t *testing.T) {
	Convey("IsMaster", t, func() {
		So(IsMaster(masterText), ShouldBeTrue)
		So(IsMaster("#EXTM3U\n#EXTINF:10,\nseg0.ts"), ShouldBeFalse)
		So(IsMaster("#EXT-X-STREAM-INF:BANDWIDTH=1"), ShouldBeFalse)
	})
}

func TestParseMaster(t *testing.T) {
	Convey("ParseMaster", t, func() {
		Convey("Should parse attributes and resolve relative URIs", func() {
			variants := ParseMaster(masterText, "https://host/path/")
			So(variants, ShouldHaveLength, 2)

			So(variants[0].Bandwidth, ShouldNotBeNil)
			So(*variants[0].Bandwidth, ShouldEqual, 1280000)
			So(variants[0].Resolution, ShouldEqual, "1920x1080")
			So(variants[0].Label, ShouldEqual, "HD")
			So(variants[0].URL, ShouldEqual, "https://host/path/chunk.m3u8")

			So(*variants[1].Bandwidth, ShouldEqual, 640000)
			So(variants[1].Label, ShouldBeEmpty)
			So(variants[1].URL, ShouldEqual, "https://cdn.example.com/sd/chunk.m3u8")
		})

		Convey("Should preserve file order", func() {
			variants := ParseMaster(masterText, "https://host/")
			So(*variants[0].Bandwidth, ShouldBeGreaterThan, *variants[1].Bandwidth)
		})

		Convey("Should null the bandwidth when it is not numeric", func() {
			text := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=abc\nv.m3u8\n"
			variants := ParseMaster(text, "https://host/")
			So(variants, ShouldHaveLength, 1)
			So(variants[0].Bandwidth, ShouldBeNil)
		})

		Convey("Should tolerate a bare URI without a stream header", func() {
			text := "#EXTM3U\nlone.m3u8\n"
			variants := ParseMaster(text, "https://host/dir/")
			So(variants, ShouldHaveLength, 1)
			So(variants[0].Bandwidth, ShouldBeNil)
			So(variants[0].Resolution, ShouldBeEmpty)
			So(variants[0].URL, ShouldEqual, "https://host/dir/lone.m3u8")
		})

		Convey("Should clear the pending header after each URI", func() {
			text := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=100\nfirst.m3u8\nsecond.m3u8\n"
			variants := ParseMaster(text, "https://host/")
			So(variants, ShouldHaveLength, 2)
			So(variants[0].Bandwidth, ShouldNotBeNil)
			So(variants[1].Bandwidth, ShouldBeNil)
		})

		Convey("Should pass absolute URIs through unchanged", func() {
			text := "#EXTM3U\nhttps://other.example.com/v.m3u8\n"
			variants := ParseMaster(text, "https://host/base/")
			So(variants[0].URL, ShouldEqual, "https://other.example.com/v.m3u8")
		})
	})
}

func TestMediaSegments(t *testing.T) {
	Convey("MediaSegments", t, func() {
		text := "#EXTM3U\n#EXT-X-TARGETDURATION:10\n#EXTINF:9.8,\nseg0.ts\n#EXTINF:9.8,\nseg1.ts\n"
		So(MediaSegments(text), ShouldResemble, []string{"seg0.ts", "seg1.ts"})
	})
}

func TestParseAttributes(t *testing.T) {
	Convey("parseAttributes", t, func() {
		attrs := parseAttributes(`BANDWIDTH=800000,RESOLUTION=640x360,NAME="Low"`)
		So(attrs["BANDWIDTH"], ShouldEqual, "800000")
		So(attrs["RESOLUTION"], ShouldEqual, "640x360")
		So(attrs["NAME"], ShouldEqual, "Low")
	})
}

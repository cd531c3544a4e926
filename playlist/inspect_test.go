package playlist

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/albinchristo04/streameast/network"
	. "github.com/smartystreets/goconvey/convey"
)

func inspectClient() *network.Client {
	return network.New(network.Options{Timeout: 5 * time.Second})
}

func TestInspect(t *testing.T) {
	Convey("Inspect", t, func() {
		Convey("Should classify a master playlist and extract variants", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodHead {
					w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
					return
				}
				_, _ = w.Write([]byte("#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=500000\nlow/index.m3u8\n"))
			}))
			defer srv.Close()

			report := Inspect(inspectClient(), srv.URL+"/master.m3u8")
			So(report.IsHLS, ShouldBeTrue)
			So(report.IsMaster, ShouldBeTrue)
			So(report.MediaPlaylist, ShouldBeFalse)
			So(report.Variants, ShouldHaveLength, 1)
			So(report.Variants[0].URL, ShouldEqual, srv.URL+"/low/index.m3u8")
		})

		Convey("Should record a media playlist as its own single variant", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("#EXTM3U\n#EXTINF:10,\nseg0.ts\n"))
			}))
			defer srv.Close()

			report := Inspect(inspectClient(), srv.URL+"/media.m3u8")
			So(report.IsHLS, ShouldBeTrue)
			So(report.IsMaster, ShouldBeFalse)
			So(report.MediaPlaylist, ShouldBeTrue)
			So(report.Variants, ShouldHaveLength, 1)
		})

		Convey("Should flag non-HLS bodies", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html></html>"))
			}))
			defer srv.Close()

			report := Inspect(inspectClient(), srv.URL)
			So(report.IsHLS, ShouldBeFalse)
			So(report.Note, ShouldEqual, "not_hls")
		})

		Convey("Should flag unreachable candidates", func() {
			c := network.New(network.Options{Timeout: time.Second})
			report := Inspect(c, "http://127.0.0.1:1/nope.m3u8")
			So(report.Note, ShouldEqual, "get_error")
			So(report.Variants, ShouldBeEmpty)
		})
	})
}

func TestVerifyVariants(t *testing.T) {
	Convey("VerifyVariants", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("#EXTM3U\n#EXTINF:10,\nseg0.ts\n"))
		}))
		defer srv.Close()

		report := Report{Variants: []Variant{{URL: srv.URL + "/v.m3u8"}}}
		verified := VerifyVariants(inspectClient(), report)
		So(verified, ShouldHaveLength, 1)
		So(verified[0].ProbeStatus, ShouldEqual, http.StatusOK)
		So(verified[0].ProbeHLS, ShouldBeTrue)
	})
}

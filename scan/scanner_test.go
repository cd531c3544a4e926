package scan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/embed"
	"github.com/albinchristo04/streameast/filesystem"
	"github.com/albinchristo04/streameast/match"
	"github.com/albinchristo04/streameast/network"
	"github.com/albinchristo04/streameast/output"
)

// fakeUpstream serves a minimal but complete upstream: one sport, two
// matches, one resolvable embed token.
func fakeUpstream(detailCalls *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/v1/sports":
			fmt.Fprint(w, `["football"]`)
		case r.URL.Path == "/api/v1/matches/football":
			fmt.Fprint(w, `[
				{"matchId": "m1", "poster": "p1", "streams": ["https://player.page/e/tok1"]},
				{"matchId": "m2"}
			]`)
		case r.URL.Path == "/api/v1/match/m1", r.URL.Path == "/api/v1/match/m2":
			atomic.AddInt64(detailCalls, 1)
			fmt.Fprintf(w, `{"matchId": %q}`, r.URL.Path[len("/api/v1/match/"):])
		case r.URL.Path == "/api/get" && r.URL.Query().Get("id") == "tok1":
			fmt.Fprint(w, `{"url": "https://cdn.example.com/live.m3u8"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newScanner(serverURL string, opts Options) *Scanner {
	net := network.New(network.Options{Retries: 0})
	return New(
		api.NewClient(net, serverURL),
		embed.NewResolver(net, serverURL, "https://ref.example.org"),
		opts,
	)
}

func TestScannerRun(t *testing.T) {
	filesystem.SetMemMapFs()

	var detailCalls int64
	server := fakeUpstream(&detailCalls)
	defer server.Close()

	Convey("Given a full scan over the fake upstream", t, func() {
		scanner := newScanner(server.URL, Options{
			Workers:    2,
			OutputPath: "scan.json",
		})

		state, err := scanner.Run(context.Background(), server.URL, server.URL)
		So(err, ShouldBeNil)

		Convey("Every listed match is enriched exactly once", func() {
			So(state.Matches["football"].Items, ShouldHaveLength, 2)
			So(state.DoneIDs(), ShouldHaveLength, 2)
			So(atomic.LoadInt64(&detailCalls), ShouldEqual, 2)
		})

		Convey("The resolvable stream reference resolved through the embed exchange", func() {
			var m1 *match.Enriched
			for i := range state.Matches["football"].Items {
				if state.Matches["football"].Items[i].MatchID == "m1" {
					m1 = &state.Matches["football"].Items[i]
				}
			}
			So(m1, ShouldNotBeNil)
			So(m1.Streams, ShouldHaveLength, 1)
			So(m1.Streams[0].Resolution.Resolved, ShouldBeTrue)
			So(m1.Streams[0].Resolution.Streams[0].URL, ShouldEqual, "https://cdn.example.com/live.m3u8")
			So(m1.Poster, ShouldNotBeNil)
		})

		Convey("The report on disk is complete and loadable", func() {
			loaded, err := output.Load("scan.json")
			So(err, ShouldBeNil)
			So(loaded, ShouldNotBeNil)
			So(loaded.FinishedAt, ShouldNotBeEmpty)
			So(loaded.Matches["football"].Items, ShouldHaveLength, 2)
		})

		Convey("A resumed second run reprocesses nothing", func() {
			before := atomic.LoadInt64(&detailCalls)

			resumed := newScanner(server.URL, Options{
				Workers:    2,
				OutputPath: "scan.json",
				Resume:     true,
			})
			again, err := resumed.Run(context.Background(), server.URL, server.URL)
			So(err, ShouldBeNil)

			So(atomic.LoadInt64(&detailCalls), ShouldEqual, before)
			So(again.Matches["football"].Items, ShouldHaveLength, 2)
			So(again.DoneIDs(), ShouldResemble, state.DoneIDs())
		})
	})
}

func TestScannerExplicitSports(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Given explicitly requested sports", t, func() {
		var sportsCalled bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/sports" {
				sportsCalled = true
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		scanner := newScanner(server.URL, Options{
			Workers:    1,
			Sports:     []string{"tennis"},
			OutputPath: "explicit.json",
		})

		state, err := scanner.Run(context.Background(), server.URL, server.URL)
		So(err, ShouldBeNil)

		Convey("Discovery is skipped and the empty listing is still recorded", func() {
			So(sportsCalled, ShouldBeFalse)
			So(state.Matches["tennis"].Items, ShouldBeEmpty)
			So(state.Matches["tennis"].Probe, ShouldNotBeNil)
		})
	})
}

func TestScannerSingleObjectListing(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Given a matches endpoint answering with one bare object lacking an id", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/v1/matches/darts":
				fmt.Fprint(w, `{"title": "Derby"}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		scanner := newScanner(server.URL, Options{
			Workers:    1,
			Sports:     []string{"darts"},
			OutputPath: "single.json",
		})

		state, err := scanner.Run(context.Background(), server.URL, server.URL)
		So(err, ShouldBeNil)

		Convey("The record survives as an error-tagged item instead of vanishing", func() {
			So(state.Matches["darts"].Items, ShouldHaveLength, 1)
			item := state.Matches["darts"].Items[0]
			So(item.Error, ShouldEqual, "missing_match_id")
			So(item.Basic["title"], ShouldEqual, "Derby")
		})
	})
}

func TestScannerCancellation(t *testing.T) {
	filesystem.SetMemMapFs()

	var detailCalls int64
	server := fakeUpstream(&detailCalls)
	defer server.Close()

	Convey("Given a context cancelled before the run starts", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scanner := newScanner(server.URL, Options{
			Workers:    2,
			OutputPath: "cancelled.json",
		})

		state, err := scanner.Run(ctx, server.URL, server.URL)
		So(err, ShouldBeNil)

		Convey("No units were scheduled but the report was still written", func() {
			So(atomic.LoadInt64(&detailCalls), ShouldEqual, 0)
			So(state.FinishedAt, ShouldNotBeEmpty)

			loaded, err := output.Load("cancelled.json")
			So(err, ShouldBeNil)
			So(loaded, ShouldNotBeNil)
		})
	})
}

func TestProcessPanicContainment(t *testing.T) {
	Convey("Given an enrichment unit that panics", t, func() {
		// A scanner without clients makes every enrichment dereference nil.
		scanner := New(nil, nil, Options{Workers: 1})

		enriched := scanner.process(match.Record{"matchId": "m9"})

		Convey("The panic is contained as an error-tagged record", func() {
			So(enriched.MatchID, ShouldEqual, "m9")
			So(enriched.Error, ShouldNotBeEmpty)
			So(enriched.Streams, ShouldBeEmpty)
		})
	})
}

package network

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/albinchristo04/streameast/constant"
)

func testClient() *Client {
	return New(Options{Timeout: 5 * time.Second, Retries: 2})
}

func TestGet(t *testing.T) {
	Convey("Client.Get", t, func() {
		Convey("Should decode JSON bodies opportunistically", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"items":[1,2]}`))
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(p.OK(), ShouldBeTrue)
			So(p.Error, ShouldBeEmpty)
			So(p.Object(), ShouldContainKey, "items")
			So(p.BodyText, ShouldBeEmpty)
		})

		Convey("Should sniff JSON from the body prefix without a content type", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte(`  [{"id":"m1"}]`))
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(p.JSON, ShouldNotBeNil)
		})

		Convey("Should record a decode failure as data, keeping the raw body", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"broken`))
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(p.Error, ShouldStartWith, "json decode")
			So(p.BodyText, ShouldEqual, `{"broken`)
			So(p.OK(), ShouldBeTrue)
		})

		Convey("Should keep plain text bodies as text", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("#EXTM3U\n"))
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(p.BodyText, ShouldContainSubstring, "#EXTM3U")
			So(p.JSON, ShouldBeNil)
		})

		Convey("Should bound the body read at MaxBodyBytes", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
			}))
			defer srv.Close()

			c := New(Options{Timeout: 5 * time.Second, MaxBodyBytes: 128})
			p := c.Get(srv.URL, nil)
			So(len(p.BodyText), ShouldEqual, 128)
		})

		Convey("Should attach the bearer token and custom headers", func() {
			var gotAuth, gotReferer, gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotReferer = r.Header.Get("Referer")
				gotUA = r.Header.Get("User-Agent")
			}))
			defer srv.Close()

			c := New(Options{Timeout: 5 * time.Second, BearerToken: "secret"})
			_ = c.Get(srv.URL, map[string]string{"Referer": "https://example.org"})
			So(gotAuth, ShouldEqual, "Bearer secret")
			So(gotReferer, ShouldEqual, "https://example.org")
			So(gotUA, ShouldEqual, constant.UserAgent)
		})

		Convey("Should retry transient statuses and succeed", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte("ok"))
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(atomic.LoadInt32(&calls), ShouldEqual, 3)
			So(p.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("Should surface the last status after exhausting retries", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(atomic.LoadInt32(&calls), ShouldEqual, 3)
			So(p.StatusCode, ShouldEqual, http.StatusTooManyRequests)
			So(p.OK(), ShouldBeFalse)
			So(p.Error, ShouldEqual, "retries exhausted")
			So(p.TransportFailed(), ShouldBeFalse)
		})

		Convey("Should not retry non-transient statuses", func() {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusNotFound)
			}))
			defer srv.Close()

			p := testClient().Get(srv.URL, nil)
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
			So(p.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Should capture connection failures as probe errors", func() {
			c := New(Options{Timeout: time.Second, Retries: 0})
			p := c.Get("http://127.0.0.1:1", nil)
			So(p.TransportFailed(), ShouldBeTrue)
			So(p.Error, ShouldNotBeEmpty)
		})
	})
}

func TestHead(t *testing.T) {
	Convey("Client.Head", t, func(c C) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.Method, ShouldEqual, http.MethodHead)
			w.Header().Set("Content-Type", "image/png")
		}))
		defer srv.Close()

		p := testClient().Head(srv.URL)
		So(p.StatusCode, ShouldEqual, http.StatusOK)
		So(p.Headers["Content-Type"], ShouldEqual, "image/png")
		So(p.HasBody(), ShouldBeFalse)
	})
}

func TestUserAgent(t *testing.T) {
	Convey("Client user agent", t, func() {
		Convey("Should advertise the extractor agent by default", func() {
			c := New(Options{Timeout: time.Second})
			So(c.userAgent(), ShouldEqual, constant.UserAgent)
		})

		Convey("Should advertise a browser agent with the spoofed transport", func() {
			c := New(Options{Timeout: time.Second, SpoofTLS: true})
			So(c.userAgent(), ShouldEqual, constant.BrowserUserAgent)
		})
	})
}

func TestBackoffPolicy(t *testing.T) {
	Convey("backoffPolicy", t, func() {
		b := backoffPolicy{factor: 0.3, cap: 2 * time.Second}

		Convey("Should grow exponentially", func() {
			So(b.delay(1), ShouldEqual, 300*time.Millisecond)
			So(b.delay(2), ShouldEqual, 600*time.Millisecond)
			So(b.delay(3), ShouldEqual, 1200*time.Millisecond)
		})

		Convey("Should respect the cap", func() {
			So(b.delay(10), ShouldEqual, 2*time.Second)
		})

		Convey("Should be zero for a non-positive factor", func() {
			So(backoffPolicy{}.delay(3), ShouldEqual, time.Duration(0))
		})
	})
}

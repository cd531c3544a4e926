package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Embed hosts sit behind anti-bot challenges that reject the default Go TLS
// Client Hello. The spoofed transport emulates Chrome's fingerprint via uTLS,
// preferring HTTP/2 and falling back to HTTP/1.1 when the handshake or the
// request fails.

const dialTimeout = 30 * time.Second

var (
	h2Once      sync.Once
	h2Transport *http2.Transport
)

// spoofedTransport returns a RoundTripper that dials with a Chrome fingerprint.
func spoofedTransport() http.RoundTripper {
	return &fallbackTransport{primary: getH2Transport(), fallback: h1Transport}
}

// fallbackTransport retries a failed HTTP/2 round trip on the HTTP/1.1 transport.
// Only bodyless (GET/HEAD) requests pass through here, so replaying is safe.
type fallbackTransport struct {
	primary  http.RoundTripper
	fallback http.RoundTripper
}

func (t *fallbackTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.primary.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	return t.fallback.RoundTrip(req.Clone(req.Context()))
}

func getH2Transport() *http2.Transport {
	h2Once.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialChrome(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport forces HTTP/1.1 while keeping the Chrome Client Hello.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialChrome(ctx, network, addr, []string{"http/1.1"})
	},
}

// dialChrome establishes a TLS connection mimicking Chrome 120's Client Hello.
// A nil protos list advertises both h2 and http/1.1, matching real browser traffic.
func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

package network

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/albinchristo04/streameast/constant"
)

// DefaultMaxBodyBytes bounds streamed body reads when Options leaves it unset.
// Playlist classification only ever needs the head of a manifest.
const DefaultMaxBodyBytes = 100 * 1024

// Options carries the explicit configuration of a Client. No ambient state.
type Options struct {
	// Timeout applies per request, covering connection and body read.
	Timeout time.Duration

	// Retries is the number of additional attempts for transient failures.
	Retries int

	// BackoffFactor scales the capped exponential delay between retries, in seconds.
	BackoffFactor float64

	// MaxBodyBytes bounds streamed GET bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// BearerToken, when set, is attached as an Authorization header.
	BearerToken string

	// SpoofTLS routes HTTPS through a Chrome-fingerprint uTLS transport.
	SpoofTLS bool
}

// Client is an explicitly constructed HTTP session: fixed identifying headers,
// automatic retry with backoff for idempotent requests, and bounded body reads.
// It is safe for concurrent use by the worker pool.
type Client struct {
	http    *http.Client
	opts    Options
	backoff backoffPolicy
}

// New constructs a Client from Options, substituting safe defaults for zero values.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	transport := newTransport()
	if opts.SpoofTLS {
		transport = spoofedTransport()
	}

	return &Client{
		http:    &http.Client{Transport: transport},
		opts:    opts,
		backoff: backoffPolicy{factor: opts.BackoffFactor, cap: 10 * time.Second},
	}
}

// WithTimeout returns a shallow copy of the client using a different per-request timeout.
// The underlying transport and its connection pool are shared.
func (c *Client) WithTimeout(d time.Duration) *Client {
	clone := *c
	clone.opts.Timeout = d
	return &clone
}

// Timeout returns the client's per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.opts.Timeout
}

// userAgent keeps the advertised client consistent with the transport: a
// Chrome TLS handshake must carry a Chrome user agent.
func (c *Client) userAgent() string {
	if c.opts.SpoofTLS {
		return constant.BrowserUserAgent
	}
	return constant.UserAgent
}

// newTransport initializes a tuned http.Transport with pool parameters sized
// for concurrent scraping workloads.
func newTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// Get performs a GET request and returns its Probe. Extra headers override defaults.
// The body is streamed and truncated at MaxBodyBytes; JSON decoding happens only
// when the content type or the raw body prefix suggests it.
func (c *Client) Get(rawURL string, headers map[string]string) Probe {
	return c.do(http.MethodGet, rawURL, headers)
}

// Head performs a HEAD request and returns its Probe (status and headers only).
func (c *Client) Head(rawURL string) Probe {
	return c.do(http.MethodHead, rawURL, nil)
}

// do runs one logical request: up to 1+Retries physical attempts for transient
// failures, backing off between attempts. Only idempotent methods reach here.
func (c *Client) do(method, rawURL string, headers map[string]string) Probe {
	probe := newProbe(rawURL)

	for attempt := 0; ; attempt++ {
		retryable := c.attempt(&probe, method, rawURL, headers)
		if !retryable {
			return probe
		}
		if attempt >= c.opts.Retries {
			if probe.Error == "" {
				probe.Error = "retries exhausted"
			}
			return probe
		}
		time.Sleep(c.backoff.delay(attempt + 1))
		probe = newProbe(rawURL)
	}
}

// attempt performs one physical request, filling the probe. It reports whether
// the outcome is worth retrying.
func (c *Client) attempt(probe *Probe, method, rawURL string, headers map[string]string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		probe.Error = err.Error()
		return false
	}

	req.Header.Set("User-Agent", c.userAgent())
	if c.opts.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.BearerToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		probe.Error = err.Error()
		return true
	}
	defer resp.Body.Close()

	probe.StatusCode = resp.StatusCode
	probe.EffectiveURL = resp.Request.URL.String()
	probe.Headers = flattenHeaders(resp.Header)

	if retryStatuses[resp.StatusCode] {
		return true
	}

	if method != http.MethodHead {
		c.readBody(probe, resp)
	}
	return false
}

// readBody streams at most MaxBodyBytes of the response and opportunistically
// decodes JSON. A decode failure is recorded, never raised.
func (c *Client) readBody(probe *Probe, resp *http.Response) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		probe.Error = "read body: " + err.Error()
		return
	}

	text := string(raw)
	if resp.StatusCode != http.StatusOK || !looksLikeJSON(resp.Header.Get("Content-Type"), text) {
		probe.BodyText = text
		return
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		probe.Error = "json decode: " + err.Error()
		probe.BodyText = text
		return
	}
	probe.JSON = decoded
}

// looksLikeJSON applies the same sniffing the upstream tolerates: declared
// content type, or a body starting with an object/array opener.
func looksLikeJSON(contentType, body string) bool {
	if strings.Contains(contentType, "application/json") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

// Package network provides the resilient HTTP access layer shared by every upstream component.
//
// All outcomes, including transport failures and malformed bodies, are captured
// as data on a Probe. Callers branch on Probe state instead of handling errors;
// the unreliable upstreams make failed requests an ordinary result, not an
// exceptional one.
package network

import (
	"fmt"
	"time"
)

// Probe is the immutable record of one physical HTTP request.
type Probe struct {
	RequestedURL string            `json:"requestedUrl"`
	EffectiveURL string            `json:"effectiveUrl,omitempty"`
	StatusCode   int               `json:"statusCode,omitempty"`
	Headers      map[string]string `json:"responseHeaders,omitempty"`

	// BodyText holds the bounded raw body when the response was not decoded as JSON
	// (or when decoding failed).
	BodyText string `json:"responseText,omitempty"`

	// JSON holds the opportunistically decoded body when the content type or the
	// raw shape suggested JSON.
	JSON any `json:"responseJson,omitempty"`

	// AttemptedPath annotates which candidate endpoint template produced this probe.
	AttemptedPath string `json:"attemptedPath,omitempty"`

	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// OK reports whether the probe completed with HTTP 200 and no recorded transport error.
func (p Probe) OK() bool {
	return p.StatusCode == 200 && p.TransportFailed() == false
}

// TransportFailed reports whether the request never yielded a response.
func (p Probe) TransportFailed() bool {
	return p.StatusCode == 0 && p.Error != ""
}

// Object returns the decoded JSON body as an object, or nil.
func (p Probe) Object() map[string]any {
	m, _ := p.JSON.(map[string]any)
	return m
}

// Err lifts the probe's failure state into a conventional error for callers
// that bridge into error-returning APIs. Successful probes yield nil.
func (p Probe) Err() error {
	if p.Error != "" {
		return fmt.Errorf("%s: %s", p.RequestedURL, p.Error)
	}
	if p.StatusCode != 200 {
		return fmt.Errorf("%s: unexpected status %d", p.RequestedURL, p.StatusCode)
	}
	return nil
}

// HasBody reports whether the probe carries any decoded or raw payload.
func (p Probe) HasBody() bool {
	return p.JSON != nil || p.BodyText != ""
}

func newProbe(requestedURL string) Probe {
	return Probe{
		RequestedURL: requestedURL,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
}

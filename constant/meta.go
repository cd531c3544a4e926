// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// StreamEast is the canonical application identifier used for filesystem paths and CLI branding.
	StreamEast = "streameast"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent identifies outbound requests to the sports API and embed providers.
	UserAgent = "streameast-extractor/1.2 (+https://github.com/albinchristo04/streameast)"

	// BrowserUserAgent mimics a real browser for hosts that reject non-browser clients.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, injected at link time via -ldflags.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

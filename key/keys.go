// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Upstream Endpoints - these keys identify the sports-data API and the embed resolution provider.
const (
	APIBase      = "api.base"
	APIEmbedHost = "api.embed_host"
	APIReferer   = "api.referer"
)

// Scan Pipeline - these keys tune the enrichment run: concurrency, pacing, and I/O resilience.
const (
	ScanWorkers      = "scan.workers"
	ScanRateDelay    = "scan.rate_delay"
	ScanTimeout      = "scan.timeout"
	ScanRetries      = "scan.retries"
	ScanBackoff      = "scan.backoff"
	ScanMaxBodyBytes = "scan.max_body_bytes"
	ScanCheckImages  = "scan.check_images"
	ScanResume       = "scan.resume"
	ScanSports       = "scan.sports"
)

// Network Transport - these keys govern the shared HTTP client behavior.
const (
	NetworkTLSSpoof = "network.tls_spoof"
)

// Output Persistence - these keys configure the scan report location.
const (
	OutputPath = "output.path"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern general CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

package normalize

import (
	"strconv"
	"strings"
	"time"
)

// millisThreshold separates unix-second from unix-millisecond timestamps;
// anything above it cannot plausibly be a seconds value.
const millisThreshold = int64(1e12)

// ToISO coerces the timestamp shapes upstream emits into an ISO-8601 UTC
// string: unix seconds, unix milliseconds, numeric strings, or ISO strings.
// Unconvertible values yield the empty string; an ISO-looking string that
// fails to parse passes through unchanged.
func ToISO(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(t)
		if strings.Contains(trimmed, "T") {
			parsed, err := time.Parse(time.RFC3339, trimmed)
			if err != nil {
				return trimmed
			}
			return parsed.UTC().Format(time.RFC3339)
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return ""
		}
		return unixISO(n)
	case float64:
		return unixISO(int64(t))
	case int:
		return unixISO(int64(t))
	case int64:
		return unixISO(t)
	}
	return ""
}

func unixISO(n int64) string {
	if n > millisThreshold {
		return time.UnixMilli(n).UTC().Format(time.RFC3339)
	}
	return time.Unix(n, 0).UTC().Format(time.RFC3339)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/constant"
	"github.com/albinchristo04/streameast/key"
	"github.com/albinchristo04/streameast/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.StreamEast + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.APIBase, "https://api.watchfooty.st", "Base host of the sports-data API")
	register(key.APIEmbedHost, "https://spiderembed.top", "Fallback host of the embed resolution provider")
	register(key.APIReferer, "https://www.watchfooty.st", "Referer header attached to embed resolution requests")
	register(key.ScanWorkers, 8, "Number of concurrent workers enriching match records")
	register(key.ScanRateDelay, 0.4, "Delay in seconds applied before outbound requests inside a task.\nBounds the aggregate request rate independent of the worker count")
	register(key.ScanTimeout, 15, "Per-request timeout in seconds")
	register(key.ScanRetries, 2, "Retry attempts for transient upstream errors (429, 5xx, connection failures)")
	register(key.ScanBackoff, 0.3, "Backoff factor for retry delays")
	register(key.ScanMaxBodyBytes, 100*1024, "Upper bound in bytes for streamed response bodies.\nPlaylist classification never needs a full manifest transfer")
	register(key.ScanCheckImages, false, "Issue HEAD existence checks for poster and logo URLs")
	register(key.ScanResume, false, "Resume from an existing scan report, skipping processed matches")
	register(key.ScanSports, []string{}, "Sport slugs to scan.\nEmpty means every sport the upstream lists")
	register(key.NetworkTLSSpoof, false, "Use a Chrome TLS fingerprint for outbound HTTPS.\nHelps against anti-bot challenges on embed hosts")
	register(key.OutputPath, "", "Scan report path.\nEmpty means \""+constant.StreamEast+"_scan.json\" in the working directory")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"purple": style.Fg(color.Purple),
	"blue":   style.Fg(color.Blue),
	"value":  func(k string) any { return viper.Get(k) },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}`))

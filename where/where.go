// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/albinchristo04/streameast/constant"
	"github.com/albinchristo04/streameast/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "STREAMEAST_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It follows the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths elsewhere.
// The path can be explicitly overridden via the STREAMEAST_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.StreamEast))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.StreamEast))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Report resolves the default path of the scan report written by the enrichment pipeline.
func Report() string {
	return filepath.Join(".", constant.StreamEast+"_scan.json")
}

// SportsCache resolves the path of the cached sports-list file.
func SportsCache() string {
	return filepath.Join(Cache(), "sports.json")
}

// VersionCache resolves the path of the cached latest-release lookup.
func VersionCache() string {
	return filepath.Join(Cache(), "version.json")
}

// Queries resolves the path of the sport query history file.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.StreamEast))
}

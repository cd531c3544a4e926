// Package version tracks the application version and discovers newer releases.
package version

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/metafates/gache"

	"github.com/albinchristo04/streameast/filesystem"
	"github.com/albinchristo04/streameast/util"
	"github.com/albinchristo04/streameast/where"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       where.VersionCache(),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest retrieves the most recent stable release identifier, querying the
// GitHub Releases API and caching the result to stay clear of rate limits.
func Latest() (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := http.Get("https://api.github.com/repos/albinchristo04/streameast/releases/latest")
	if err != nil {
		return
	}

	defer util.Ignore(resp.Body.Close)

	var release struct {
		TagName string `json:"tag_name"`
	}

	err = json.NewDecoder(resp.Body).Decode(&release)
	if err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = release.TagName[1:]
	_ = versionCacher.Set(version)
	return
}

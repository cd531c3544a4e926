// Package api implements the client for the upstream sports-data API.
//
// The upstream's path shapes are not stable, so list lookups walk an ordered
// set of plausible endpoint templates and settle on the first usable response.
package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/albinchristo04/streameast/network"
	"github.com/albinchristo04/streameast/util"
)

// matchCandidates is the fixed priority order of endpoint shapes tried when
// listing matches for a sport. Every attempt is recorded for diagnostics even
// though only the first success is used.
var matchCandidates = []string{
	"/api/v1/matches/%s",
	"/api/v1/matches?sport=%s",
	"/api/v1/sports/%s/matches",
	"/api/v1/matches?league=%s",
}

// headTimeout caps asset existence checks; a slow image host must not stall
// a scan unit for the full request timeout.
const headTimeout = 6 * time.Second

// Client wraps the network session with the sports API's endpoint layout.
type Client struct {
	net  *network.Client
	head *network.Client
	base string
}

// NewClient constructs a client for the API rooted at base.
func NewClient(net *network.Client, base string) *Client {
	return &Client{
		net:  net,
		head: net.WithTimeout(util.Min(headTimeout, net.Timeout())),
		base: strings.TrimRight(base, "/"),
	}
}

// BuildURL joins a path against the API base. Absolute references pass through.
func (c *Client) BuildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// Sports fetches the list of available sports.
func (c *Client) Sports() network.Probe {
	return c.net.Get(c.BuildURL("/api/v1/sports"), nil)
}

// MatchesForSport resolves the match list of a sport by trying each candidate
// endpoint shape in priority order. It stops at the first HTTP 200 response
// carrying any body and returns that probe annotated with the winning path.
// When every shape fails, the last probe is returned marked exhausted.
func (c *Client) MatchesForSport(sport string) network.Probe {
	var last network.Probe
	for _, template := range matchCandidates {
		path := fmt.Sprintf(template, url.PathEscape(sport))
		probe := c.net.Get(c.BuildURL(path), nil)
		probe.AttemptedPath = path
		if probe.StatusCode == 200 && probe.HasBody() {
			return probe
		}
		last = probe
	}
	if last.Error == "" {
		last.Error = "endpoint candidates exhausted"
	} else {
		last.Error += "; endpoint candidates exhausted"
	}
	return last
}

// MatchDetail fetches the detail document for a single match id.
func (c *Client) MatchDetail(id string) network.Probe {
	return c.net.Get(c.BuildURL("/api/v1/match/"+url.PathEscape(id)), nil)
}

// Asset URL builders. These endpoints serve images directly; callers only
// need the URL, optionally confirmed with a HEAD probe.

func (c *Client) PosterURL(id string) string {
	return c.BuildURL("/api/v1/poster/" + url.PathEscape(id))
}

func (c *Client) TeamLogoURL(id string) string {
	return c.BuildURL("/api/v1/team-logo/" + url.PathEscape(id))
}

func (c *Client) LeagueLogoURL(id string) string {
	return c.BuildURL("/api/v1/league-logo/" + url.PathEscape(id))
}

// Head issues an existence check for an asset URL with a short timeout.
func (c *Client) Head(assetURL string) network.Probe {
	return c.head.Head(assetURL)
}

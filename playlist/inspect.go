package playlist

import (
	"github.com/albinchristo04/streameast/network"
)

// Report is the outcome of probing one candidate URL and classifying its body.
type Report struct {
	OriginalURL string `json:"originalUrl"`
	Label       string `json:"sourceLabel,omitempty"`

	IsHLS         bool `json:"isHls"`
	IsMaster      bool `json:"isMaster"`
	MediaPlaylist bool `json:"mediaPlaylist"`

	Variants []Variant `json:"variants"`

	HeadProbe *network.Probe `json:"headProbe,omitempty"`
	GetProbe  *network.Probe `json:"getProbe,omitempty"`

	Note string `json:"note,omitempty"`
}

// Inspect fetches a bounded slice of the candidate URL and classifies it.
// A master playlist yields its parsed variants; a media playlist yields itself
// as the single variant. This is the shared verification surface used by both
// the embed resolver and the verify command.
func Inspect(client *network.Client, candidateURL string) Report {
	report := Report{OriginalURL: candidateURL}

	head := client.Head(candidateURL)
	report.HeadProbe = &head

	get := client.Get(candidateURL, nil)
	report.GetProbe = &get
	if get.TransportFailed() {
		report.Note = "get_error"
		return report
	}

	text := get.BodyText
	if !IsPlaylist(text) {
		report.Note = "not_hls"
		return report
	}

	report.IsHLS = true
	base := get.EffectiveURL
	if base == "" {
		base = candidateURL
	}

	if IsMaster(text) {
		report.IsMaster = true
		report.Variants = ParseMaster(text, base)
		return report
	}

	report.MediaPlaylist = true
	report.Variants = []Variant{{URL: base}}
	return report
}

// VerifiedVariant augments a variant with the outcome of fetching it directly.
type VerifiedVariant struct {
	Variant
	ProbeStatus int    `json:"probeStatus,omitempty"`
	ProbeHLS    bool   `json:"probeHls"`
	ProbeError  string `json:"probeError,omitempty"`
}

// VerifyVariants fetches every variant of a report to confirm playability.
func VerifyVariants(client *network.Client, report Report) []VerifiedVariant {
	verified := make([]VerifiedVariant, 0, len(report.Variants))
	for _, v := range report.Variants {
		vv := VerifiedVariant{Variant: v}
		probe := client.Get(v.URL, nil)
		vv.ProbeStatus = probe.StatusCode
		vv.ProbeHLS = IsPlaylist(probe.BodyText)
		vv.ProbeError = probe.Error
		verified = append(verified, vv)
	}
	return verified
}

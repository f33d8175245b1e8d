// package formats resolves quality preferences into ordered fallback plans
//
// Resolution is pure planning logic: the same preference always yields the
// same ordered plan, and no I/O happens here. The fetch coordinator consumes
// plans tier by tier, stopping at the first spec the backend accepts.
package formats

import (
	"fmt"

	"github.com/desertthunder/ytarc/internal/models"
)

// CapabilitySnapshot carries optional prior knowledge about what the upstream
// item can serve, used to avoid planning tiers known to be unavailable.
type CapabilitySnapshot struct {
	// MaxHeight is the tallest known available vertical resolution, 0 when unknown.
	MaxHeight int
}

// Resolver builds fallback format plans from user preferences.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve produces an ordered list of format specs to attempt, most preferred
// first.
//
// Video plans carry three tiers: the exact requested quality as a pre-merged
// stream, the requested quality with separately-best audio merged in, and a
// final best-available tier so quality unavailability alone never fails an
// item. Audio plans try direct extraction at the requested bitrate and format,
// then fall back to best-available audio in the default format.
func (r *Resolver) Resolve(pref models.FormatPreference, caps *CapabilitySnapshot) models.FormatPlan {
	if pref.MediaType == models.Audio {
		return r.audioPlan(pref)
	}
	return r.videoPlan(pref, caps)
}

func (r *Resolver) videoPlan(pref models.FormatPreference, caps *CapabilitySnapshot) models.FormatPlan {
	height := pref.VideoQuality.Height()
	if caps != nil && caps.MaxHeight > 0 && caps.MaxHeight < height {
		height = caps.MaxHeight
	}

	return models.FormatPlan{
		{
			Label:    fmt.Sprintf("combined %dp", height),
			Selector: fmt.Sprintf("best[height<=%d]", height),
		},
		{
			Label:    fmt.Sprintf("merged %dp", height),
			Selector: fmt.Sprintf("bestvideo[height<=%d]+bestaudio", height),
		},
		{
			Label:    "best available",
			Selector: "best",
		},
	}
}

func (r *Resolver) audioPlan(pref models.FormatPreference) models.FormatPlan {
	return models.FormatPlan{
		{
			Label:        fmt.Sprintf("%s %dkbps", pref.AudioFormat, pref.AudioBitrateKbps),
			Selector:     "bestaudio",
			ExtractAudio: true,
			AudioCodec:   pref.AudioFormat.String(),
			AudioBitrate: pref.AudioBitrateKbps,
		},
		// The requested exact bitrate may be unavailable upstream; the plan
		// always ends with a generic best-audio tier in the default format.
		{
			Label:        "best available audio",
			Selector:     "bestaudio/best",
			ExtractAudio: true,
			AudioCodec:   models.MP3.String(),
		},
	}
}

// package models defines the data model for the download orchestration engine
package models

import (
	"fmt"
	"time"
)

// ItemKind identifies how a downloadable item was discovered.
type ItemKind int

const (
	Single ItemKind = iota
	PlaylistEntry
	ChannelEntry
)

func (k ItemKind) String() string {
	switch k {
	case Single:
		return "single"
	case PlaylistEntry:
		return "playlist_entry"
	case ChannelEntry:
		return "channel_entry"
	default:
		return ""
	}
}

// CollectionKind identifies the type of an ordered group of items.
type CollectionKind int

const (
	Playlist CollectionKind = iota
	Channel
)

func (k CollectionKind) String() string {
	switch k {
	case Playlist:
		return "playlist"
	case Channel:
		return "channel"
	default:
		return ""
	}
}

// ItemReference identifies a single downloadable unit.
//
// CanonicalID is derived only from the identifying portion of the source URL
// (tracking parameters stripped), so two URLs referring to the same item carry
// the same CanonicalID. References are recomputed on each invocation and never
// persisted.
type ItemReference struct {
	CanonicalID string
	Kind        ItemKind
	SourceURL   string
	ParentID    string // collection the item was enumerated from, if any
	Title       string // upstream title when known, for display only
}

// CollectionReference is a playlist or channel with its enumerated entries in
// upstream order.
type CollectionReference struct {
	CanonicalID string
	Kind        CollectionKind
	Title       string
	Entries     []ItemReference
}

// MediaType selects between video and audio-extraction downloads.
type MediaType int

const (
	Video MediaType = iota
	Audio
)

func (m MediaType) String() string {
	switch m {
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return ""
	}
}

// ParseMediaType converts a user-supplied type string ("video" or "audio").
func ParseMediaType(s string) (MediaType, error) {
	switch s {
	case "video":
		return Video, nil
	case "audio":
		return Audio, nil
	default:
		return Video, fmt.Errorf("unknown media type %q (want video or audio)", s)
	}
}

// VideoQuality enumerates the supported vertical resolutions.
type VideoQuality int

const (
	P240 VideoQuality = iota
	P360
	P480
	P720
	P1080
	P1440
	P2160
)

var qualityHeights = map[VideoQuality]int{
	P240:  240,
	P360:  360,
	P480:  480,
	P720:  720,
	P1080: 1080,
	P1440: 1440,
	P2160: 2160,
}

// Height returns the vertical resolution in pixels.
func (q VideoQuality) Height() int {
	return qualityHeights[q]
}

func (q VideoQuality) String() string {
	return fmt.Sprintf("%dp", qualityHeights[q])
}

// ParseVideoQuality converts a quality string like "720p" or "1080".
func ParseVideoQuality(s string) (VideoQuality, error) {
	for q, h := range qualityHeights {
		if s == fmt.Sprintf("%dp", h) || s == fmt.Sprintf("%d", h) {
			return q, nil
		}
	}
	return P720, fmt.Errorf("unknown video quality %q", s)
}

// AudioFormat enumerates the supported audio extraction containers.
type AudioFormat int

const (
	MP3 AudioFormat = iota
	FLAC
	WAV
	AAC
)

func (f AudioFormat) String() string {
	switch f {
	case MP3:
		return "mp3"
	case FLAC:
		return "flac"
	case WAV:
		return "wav"
	case AAC:
		return "aac"
	default:
		return ""
	}
}

// ParseAudioFormat converts a format string like "mp3".
func ParseAudioFormat(s string) (AudioFormat, error) {
	switch s {
	case "mp3":
		return MP3, nil
	case "flac":
		return FLAC, nil
	case "wav":
		return WAV, nil
	case "aac":
		return AAC, nil
	default:
		return MP3, fmt.Errorf("unknown audio format %q", s)
	}
}

// AudioBitrates lists the accepted extraction bitrates in kbps.
var AudioBitrates = []int{128, 192, 256, 320}

// FormatPreference captures the caller's desired quality and format.
//
// Unset fields are resolved from configuration defaults at the CLI boundary
// before the preference reaches the resolver.
type FormatPreference struct {
	MediaType        MediaType
	VideoQuality     VideoQuality
	AudioBitrateKbps int
	AudioFormat      AudioFormat
}

// Validate checks enumerated fields against their allowed values.
func (p FormatPreference) Validate() error {
	if p.MediaType != Video && p.MediaType != Audio {
		return fmt.Errorf("invalid media type %d", p.MediaType)
	}
	if _, ok := qualityHeights[p.VideoQuality]; !ok {
		return fmt.Errorf("invalid video quality %d", p.VideoQuality)
	}
	if p.MediaType == Audio {
		valid := false
		for _, b := range AudioBitrates {
			if p.AudioBitrateKbps == b {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid audio bitrate %d kbps (want one of %v)", p.AudioBitrateKbps, AudioBitrates)
		}
		if p.AudioFormat.String() == "" {
			return fmt.Errorf("invalid audio format %d", p.AudioFormat)
		}
	}
	return nil
}

// FormatSpec is one candidate format specification in a fallback plan.
//
// Selector is a backend format expression; the remaining fields describe
// audio extraction post-processing. The coordinator treats specs as opaque
// beyond passing them to the fetch backend.
type FormatSpec struct {
	Label        string // tier name for progress and error reporting
	Selector     string
	ExtractAudio bool
	AudioCodec   string // target codec when ExtractAudio is set
	AudioBitrate int    // target bitrate in kbps when ExtractAudio is set
}

// FormatPlan is an ordered sequence of format specs, most preferred first.
type FormatPlan []FormatSpec

// AttemptStatus describes the ledger's knowledge of an item.
type AttemptStatus int

const (
	StatusUnknown AttemptStatus = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s AttemptStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// ParseAttemptStatus converts a persisted status string back to its enum.
func ParseAttemptStatus(s string) (AttemptStatus, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "succeeded":
		return StatusSucceeded, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown attempt status %q", s)
	}
}

// AttemptRecord is the persisted outcome of the most recent attempt for an
// item. Records are owned by the resume ledger, mutated only through its
// Record operation, and superseded rather than deleted.
type AttemptRecord struct {
	ItemID      string
	Status      AttemptStatus
	LastError   string
	AttemptedAt time.Time
	OutputPath  string
}

// ItemFailure pairs a failed item with its last observed error.
type ItemFailure struct {
	ItemID string
	Err    error
}

// BatchResult aggregates per-item outcomes of a coordinator run.
//
// All three lists preserve the input ordering of the targets regardless of
// completion order during concurrent execution. RunID identifies the run in
// logs and reports.
type BatchResult struct {
	RunID     string
	Succeeded []string
	Failed    []ItemFailure
	Skipped   []string
}

// Total returns the number of items the batch accounted for.
func (r *BatchResult) Total() int {
	return len(r.Succeeded) + len(r.Failed) + len(r.Skipped)
}

// package classify parses raw input URLs into typed references
//
// Classification is pure string work: no network access, deterministic for a
// given input. Tracking parameters are stripped before identity is derived so
// two URLs pointing at the same item always normalize to the same canonical ID.
package classify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/ytarc/internal/models"
)

// RefKind is the classified shape of an input URL.
type RefKind int

const (
	KindVideo RefKind = iota
	KindPlaylist
	KindChannel
)

func (k RefKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindPlaylist:
		return "playlist"
	case KindChannel:
		return "channel"
	default:
		return ""
	}
}

// Ref is a classified reference to an item or collection.
type Ref struct {
	Kind        RefKind
	CanonicalID string
	CleanURL    string // source URL with tracking parameters removed
}

var (
	// ErrNotRecognized indicates the host or path matched no known URL shape.
	ErrNotRecognized = errors.New("URL not recognized")
	// ErrAmbiguousCommand indicates a collection URL reached a single-item operation.
	ErrAmbiguousCommand = errors.New("collection URL passed to a single-item command")
)

// AmbiguousCommandError reports a collection URL used with a single-item
// operation, naming the command the caller should retry with.
type AmbiguousCommandError struct {
	URL     string
	Command string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("%s looks like a %s URL; retry with the %q command", e.URL, e.Command, e.Command)
}

func (e *AmbiguousCommandError) Is(target error) bool {
	return target == ErrAmbiguousCommand
}

// trackingParams are query parameters that carry no identity: share tokens,
// referral tags, list-position markers, and timestamps.
var trackingParams = map[string]bool{
	"si":          true,
	"feature":     true,
	"pp":          true,
	"index":       true,
	"start_radio": true,
	"t":           true,
	"ab_channel":  true,
}

func isTracking(key string) bool {
	return trackingParams[key] || strings.HasPrefix(key, "utm_")
}

// knownHosts maps recognized hosts of the primary site and its audio-focused
// variant. youtu.be is the short-link host.
var knownHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
	"www.youtu.be":      true,
}

// Classify parses a raw input string into a typed reference.
//
// Recognized shapes: watch links (canonical and short), playlist links, channel
// links (handle, channel-ID, legacy username, and custom forms), and
// music.youtube.com album/browse pages (treated as playlists). A watch URL
// carrying a list parameter classifies as a playlist.
func Classify(raw string) (*Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrNotRecognized)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRecognized, err)
	}

	u.Host = strings.ToLower(u.Host)
	if !knownHosts[u.Host] {
		return nil, fmt.Errorf("%w: unknown host %q", ErrNotRecognized, u.Host)
	}

	stripTracking(u)

	if u.Host == "youtu.be" || u.Host == "www.youtu.be" {
		return classifyShortLink(u)
	}

	return classifySite(u)
}

// stripTracking removes tracking query parameters in place.
func stripTracking(u *url.URL) {
	q := u.Query()
	for key := range q {
		if isTracking(key) {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
}

// classifyShortLink handles youtu.be/<id> watch links.
func classifyShortLink(u *url.URL) (*Ref, error) {
	id := strings.Trim(u.Path, "/")
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: malformed short link %q", ErrNotRecognized, u.String())
	}

	if list := u.Query().Get("list"); list != "" {
		return &Ref{Kind: KindPlaylist, CanonicalID: list, CleanURL: u.String()}, nil
	}

	return &Ref{Kind: KindVideo, CanonicalID: id, CleanURL: u.String()}, nil
}

// classifySite handles youtube.com and music.youtube.com path shapes.
func classifySite(u *url.URL) (*Ref, error) {
	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")
	query := u.Query()

	switch segments[0] {
	case "watch":
		// list wins over v: a watch link inside a playlist names the playlist
		if list := query.Get("list"); list != "" {
			return &Ref{Kind: KindPlaylist, CanonicalID: list, CleanURL: u.String()}, nil
		}
		if v := query.Get("v"); v != "" {
			return &Ref{Kind: KindVideo, CanonicalID: v, CleanURL: u.String()}, nil
		}
		return nil, fmt.Errorf("%w: watch link without video id", ErrNotRecognized)

	case "playlist":
		if list := query.Get("list"); list != "" {
			return &Ref{Kind: KindPlaylist, CanonicalID: list, CleanURL: u.String()}, nil
		}
		return nil, fmt.Errorf("%w: playlist link without list id", ErrNotRecognized)

	case "shorts", "embed":
		if len(segments) == 2 && segments[1] != "" {
			return &Ref{Kind: KindVideo, CanonicalID: segments[1], CleanURL: u.String()}, nil
		}

	case "channel", "user", "c":
		if len(segments) >= 2 && segments[1] != "" {
			return &Ref{Kind: KindChannel, CanonicalID: segments[1], CleanURL: u.String()}, nil
		}

	case "browse":
		// music.youtube.com album pages enumerate like playlists
		if u.Host == "music.youtube.com" && len(segments) == 2 && segments[1] != "" {
			return &Ref{Kind: KindPlaylist, CanonicalID: segments[1], CleanURL: u.String()}, nil
		}
	}

	if strings.HasPrefix(segments[0], "@") && segments[0] != "@" {
		return &Ref{Kind: KindChannel, CanonicalID: segments[0], CleanURL: u.String()}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized path %q", ErrNotRecognized, u.Path)
}

// RequireSingle returns an error when the reference is a collection, naming
// the command the caller should retry with.
func (r *Ref) RequireSingle() error {
	switch r.Kind {
	case KindPlaylist:
		return &AmbiguousCommandError{URL: r.CleanURL, Command: "playlist"}
	case KindChannel:
		return &AmbiguousCommandError{URL: r.CleanURL, Command: "channel"}
	default:
		return nil
	}
}

// Item converts a single-item reference into its domain form.
func (r *Ref) Item() models.ItemReference {
	return models.ItemReference{
		CanonicalID: r.CanonicalID,
		Kind:        models.Single,
		SourceURL:   r.CleanURL,
	}
}

// CollectionKind maps a collection reference to its domain kind.
func (r *Ref) CollectionKind() models.CollectionKind {
	if r.Kind == KindChannel {
		return models.Channel
	}
	return models.Playlist
}

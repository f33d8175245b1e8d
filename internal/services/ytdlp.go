// yt-dlp backed [Fetcher] and [Enumerator] implementation
//
// Wraps the yt-dlp binary via the go-ytdlp flag builder. Backend failures are
// sniffed from yt-dlp's error output and mapped onto the fetch error taxonomy
// so the coordinator never has to parse backend output itself.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lrstanley/go-ytdlp"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
)

const outputTemplate = "%(title)s [%(id)s].%(ext)s"

// reOutputPath matches the file path printed by after_move:filepath.
var reOutputPath = regexp.MustCompile(`(?i)^[^\{\[\n].*\.[a-z0-9]{1,6}$`)

// YTDLPService implements Fetcher and Enumerator on top of yt-dlp.
type YTDLPService struct {
	logger *log.Logger
}

// NewYTDLPService creates a yt-dlp backed service.
func NewYTDLPService(logger *log.Logger) *YTDLPService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &YTDLPService{logger: logger}
}

// Install downloads the yt-dlp binary when it is not already present.
func (s *YTDLPService) Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}

// Fetch downloads one item with one format spec.
func (s *YTDLPService) Fetch(ctx context.Context, item models.ItemReference, spec models.FormatSpec, destDir string) (string, error) {
	cmd := ytdlp.New().
		Format(spec.Selector).
		NoPlaylist().
		NoWarnings().
		Print("after_move:filepath").
		Output(filepath.Join(destDir, outputTemplate))

	if spec.ExtractAudio {
		cmd = cmd.ExtractAudio().AudioFormat(spec.AudioCodec)
		if spec.AudioBitrate > 0 {
			cmd = cmd.AudioQuality(fmt.Sprintf("%dK", spec.AudioBitrate))
		}
	}

	s.logger.Debug("invoking fetch backend", "item", item.CanonicalID, "tier", spec.Label)

	result, err := cmd.Run(ctx, item.SourceURL)
	if err != nil {
		return "", s.classifyError(ctx, err, result)
	}

	path := lastOutputPath(result.Stdout)
	if path == "" {
		return "", fmt.Errorf("%w: backend reported no output file", ErrNetworkFailure)
	}

	return path, nil
}

// classifyError maps a yt-dlp failure onto the fetch error taxonomy.
func (s *YTDLPService) classifyError(ctx context.Context, err error, result *ytdlp.Result) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrFetchTimeout, err)
	}

	output := err.Error()
	if result != nil {
		output += "\n" + result.Stderr
	}
	lowered := strings.ToLower(output)

	switch {
	case strings.Contains(lowered, "requested format is not available"),
		strings.Contains(lowered, "no video formats found"):
		return fmt.Errorf("%w: %v", ErrFormatUnavailable, err)
	case strings.Contains(lowered, "sign in"),
		strings.Contains(lowered, "private video"),
		strings.Contains(lowered, "members-only"),
		strings.Contains(lowered, "403"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
}

// lastOutputPath extracts the final file path printed by yt-dlp.
func lastOutputPath(stdout string) string {
	var path string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && reOutputPath.MatchString(line) {
			path = line
		}
	}
	return path
}

// playlistJSON is the flat-playlist dump shape yt-dlp emits for collections.
type playlistJSON struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Enumerate lists a playlist or channel without downloading anything.
func (s *YTDLPService) Enumerate(ctx context.Context, ref *classify.Ref) (*models.CollectionReference, error) {
	cmd := ytdlp.New().
		FlatPlaylist().
		IgnoreErrors().
		NoWarnings().
		DumpSingleJSON()

	result, runErr := cmd.Run(ctx, enumerationURL(ref))
	if runErr != nil && (result == nil || result.Stdout == "") {
		return nil, fmt.Errorf("%w: %v", shared.ErrEnumerationFailed, runErr)
	}

	var dump playlistJSON
	if err := json.Unmarshal([]byte(result.Stdout), &dump); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEnumerationFailed, err)
	}

	collection := &models.CollectionReference{
		CanonicalID: ref.CanonicalID,
		Kind:        ref.CollectionKind(),
		Title:       dump.Title,
	}

	entryKind := models.PlaylistEntry
	if collection.Kind == models.Channel {
		entryKind = models.ChannelEntry
	}

	for _, entry := range dump.Entries {
		if entry.ID == "" {
			continue
		}
		sourceURL := entry.URL
		if sourceURL == "" {
			sourceURL = "https://www.youtube.com/watch?v=" + entry.ID
		}
		collection.Entries = append(collection.Entries, models.ItemReference{
			CanonicalID: entry.ID,
			Kind:        entryKind,
			SourceURL:   sourceURL,
			ParentID:    ref.CanonicalID,
			Title:       entry.Title,
		})
	}

	// A run error alongside parseable entries means the upstream listing was
	// cut short; surface the distinct warning instead of truncating silently.
	if runErr != nil {
		return collection, fmt.Errorf("%w: %v", shared.ErrPartialEnumeration, runErr)
	}

	return collection, nil
}

// enumerationURL builds the listing URL for a collection reference. Channel
// references enumerate the uploads tab.
func enumerationURL(ref *classify.Ref) string {
	if ref.Kind == classify.KindChannel && !strings.HasSuffix(ref.CleanURL, "/videos") {
		return ref.CleanURL + "/videos"
	}
	return ref.CleanURL
}

// package services defines the external collaborator interfaces consumed by
// the download engine
//
// Fetch backend and collection enumerator (yt-dlp)
package services

import (
	"context"
	"errors"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
)

// Fetcher retrieves one item with one concrete format spec.
type Fetcher interface {
	// Fetch invokes the backend once for the given item and format spec,
	// writing into destDir. Returns the output file path on success. Failures
	// carry one of the fetch error sentinels so the coordinator can decide
	// whether to advance fallback tiers.
	Fetch(ctx context.Context, item models.ItemReference, spec models.FormatSpec, destDir string) (string, error)
}

// Enumerator expands a collection reference into its ordered entries.
type Enumerator interface {
	// Enumerate lists a collection's items in upstream order. On upstream
	// error it may return a non-nil partial collection together with
	// [shared.ErrPartialEnumeration] wrapped in the returned error, never a
	// silently truncated result.
	Enumerate(ctx context.Context, ref *classify.Ref) (*models.CollectionReference, error)
}

// Fetch error taxonomy. The coordinator advances fallback tiers on
// ErrFormatUnavailable and, on non-final tiers, on the other reasons too.
var (
	ErrFormatUnavailable = errors.New("requested format unavailable")
	ErrNetworkFailure    = errors.New("network failure")
	ErrAccessDenied      = errors.New("access denied")
	ErrFetchTimeout      = errors.New("fetch timed out")
)

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/formatter"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
)

// DownloadVideo downloads a single link as video.
func (r *Runner) DownloadVideo(ctx context.Context, cmd *cli.Command) error {
	pref, err := r.videoPreference(cmd)
	if err != nil {
		return err
	}
	return r.downloadSingle(ctx, cmd, pref)
}

// DownloadAudio downloads a single link as extracted audio.
func (r *Runner) DownloadAudio(ctx context.Context, cmd *cli.Command) error {
	pref, err := r.audioPreference(cmd)
	if err != nil {
		return err
	}
	return r.downloadSingle(ctx, cmd, pref)
}

func (r *Runner) downloadSingle(ctx context.Context, cmd *cli.Command, pref models.FormatPreference) error {
	ref, err := r.classifySingle(cmd.StringArg("url"))
	if err != nil {
		return err
	}

	engine, _, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	// single-item downloads always run strictly sequentially
	opts := r.runOpts(cmd, pref)
	opts.Concurrency = 1

	progress, stop := r.streamProgress()
	result, runErr := engine.Run(ctx, []models.ItemReference{ref.Item()}, opts, progress)
	stop()

	if runErr != nil {
		return runErr
	}
	return r.reportResult(cmd, result)
}

// classifySingle classifies a URL and rejects collection links with a hint
// toward the right command.
func (r *Runner) classifySingle(url string) (*classify.Ref, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	ref, err := classify.Classify(url)
	if err != nil {
		return nil, err
	}

	if err := ref.RequireSingle(); err != nil {
		var ambiguous *classify.AmbiguousCommandError
		if errors.As(err, &ambiguous) {
			r.writePlain("This link is a %s; try the '%s' command.\n", ambiguous.Command, ambiguous.Command)
		}
		return nil, err
	}

	return ref, nil
}

// reportResult prints a batch result as text or JSON depending on flags. Any
// failed item makes the command exit non-zero.
func (r *Runner) reportResult(cmd *cli.Command, result *models.BatchResult) error {
	if cmd.Bool("json") {
		data, err := formatter.ReportJSON(result)
		if err != nil {
			return err
		}
		if err := r.writePlain("%s\n", data); err != nil {
			return err
		}
	} else {
		r.writePlainHeader("Download Summary")
		if err := r.writePlain("%s", formatter.ReportText(result)); err != nil {
			return err
		}
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%w: %d of %d item(s) failed", shared.ErrFetchFailed, len(result.Failed), result.Total())
	}
	return nil
}

// Info classifies a link, printing its kind and canonical ID. Collection
// links are enumerated and their entries listed without downloading.
func (r *Runner) Info(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	ref, err := classify.Classify(url)
	if err != nil {
		return err
	}

	if ref.Kind == classify.KindVideo {
		if cmd.Bool("json") {
			return r.writeJSON(map[string]string{
				"kind":      ref.Kind.String(),
				"id":        ref.CanonicalID,
				"clean_url": ref.CleanURL,
			}, true)
		}
		r.writePlain("Kind: %s\nID: %s\nURL: %s\n", ref.Kind, ref.CanonicalID, ref.CleanURL)
		return nil
	}

	if r.enumerator == nil {
		return fmt.Errorf("%w: enumerator not initialized", shared.ErrEnumerationFailed)
	}

	collection, err := r.enumerator.Enumerate(ctx, ref)
	partial := false
	if err != nil {
		if collection == nil || !errors.Is(err, shared.ErrPartialEnumeration) {
			return err
		}
		partial = true
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"kind":    ref.Kind.String(),
			"id":      ref.CanonicalID,
			"title":   collection.Title,
			"partial": partial,
			"entries": collection.Entries,
		}, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s: %s", ref.Kind, collection.Title))
	if partial {
		r.writePlain("(listing was cut short upstream)\n")
	}
	for i, entry := range collection.Entries {
		title := entry.Title
		if title == "" {
			title = entry.CanonicalID
		}
		r.writePlain("%3d. %s\n", i+1, title)
	}
	r.writePlain("\n%d entries\n", len(collection.Entries))
	return nil
}

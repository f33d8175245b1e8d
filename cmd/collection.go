package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/shared"
)

// DownloadPlaylist downloads a playlist, optionally narrowed by --select.
func (r *Runner) DownloadPlaylist(ctx context.Context, cmd *cli.Command) error {
	return r.downloadCollection(ctx, cmd, classify.KindPlaylist)
}

// DownloadChannel downloads a channel's uploads, optionally narrowed by --select.
func (r *Runner) DownloadChannel(ctx context.Context, cmd *cli.Command) error {
	return r.downloadCollection(ctx, cmd, classify.KindChannel)
}

func (r *Runner) downloadCollection(ctx context.Context, cmd *cli.Command, want classify.RefKind) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	ref, err := classify.Classify(url)
	if err != nil {
		return err
	}
	if ref.Kind != want {
		return fmt.Errorf("%w: %s is a %s link, not a %s", shared.ErrInvalidInput, ref.CanonicalID, ref.Kind, want)
	}

	pref, err := r.preference(cmd)
	if err != nil {
		return err
	}

	engine, _, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	progress, stop := r.streamProgress()
	defer stop()

	entries, partial, err := engine.ExpandCollection(ctx, ref, cmd.String("select"), progress)
	if err != nil {
		return err
	}
	if partial {
		r.logger.Warn("upstream listing was cut short; downloading the entries that arrived", "collection", ref.CanonicalID)
	}

	result, runErr := engine.Run(ctx, entries, r.runOpts(cmd, pref), progress)
	stop()

	if runErr != nil {
		return runErr
	}
	return r.reportResult(cmd, result)
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/formatter"
	"github.com/desertthunder/ytarc/internal/models"
)

// FailedList prints the ledger's failed records.
func (r *Runner) FailedList(ctx context.Context, cmd *cli.Command) error {
	_, ldg, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	failed, err := ldg.Failed()
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(failed, true)
	case cmd.Bool("csv"):
		data, err := formatter.RecordsToCSV(failed)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if len(failed) == 0 {
		r.writePlain("No failed downloads.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("%d failed download(s)", len(failed)))
	for _, record := range failed {
		r.writePlain("%s\t%s\t%s\n", record.ItemID, record.AttemptedAt.Format("2006-01-02 15:04"), record.LastError)
	}
	return nil
}

// FailedRetry re-runs every failed item. A success supersedes the failed
// record; another failure refreshes it.
func (r *Runner) FailedRetry(ctx context.Context, cmd *cli.Command) error {
	pref, err := r.preference(cmd)
	if err != nil {
		return err
	}

	engine, ldg, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	failed, err := ldg.Failed()
	if err != nil {
		return err
	}
	if len(failed) == 0 {
		r.writePlain("No failed downloads to retry.\n")
		return nil
	}

	items := make([]models.ItemReference, 0, len(failed))
	for _, record := range failed {
		items = append(items, models.ItemReference{
			CanonicalID: record.ItemID,
			Kind:        models.Single,
			SourceURL:   "https://www.youtube.com/watch?v=" + record.ItemID,
		})
	}

	progress, stop := r.streamProgress()
	result, runErr := engine.Run(ctx, items, r.runOpts(cmd, pref), progress)
	stop()

	if runErr != nil {
		return runErr
	}
	return r.reportResult(cmd, result)
}

// FailedClear removes failed records from the ledger.
func (r *Runner) FailedClear(ctx context.Context, cmd *cli.Command) error {
	_, ldg, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	cleared, err := ldg.ClearFailed()
	if err != nil {
		return err
	}

	r.writePlain("Cleared %d failed record(s).\n", cleared)
	return nil
}

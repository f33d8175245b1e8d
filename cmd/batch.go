package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/formatter"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
	"github.com/desertthunder/ytarc/internal/tasks"
)

// DownloadBatch downloads every link listed in a file. Lines hold one URL
// each; blank lines and lines starting with # are ignored. Collection links
// are expanded in place, preserving file order.
func (r *Runner) DownloadBatch(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	urls, err := readBatchFile(path)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("%w: %s lists no links", shared.ErrInvalidInput, path)
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

	items, rejected := r.expandBatch(ctx, engine, urls, progress)

	result, runErr := engine.Run(ctx, items, r.runOpts(cmd, pref), progress)
	stop()

	if runErr != nil {
		return runErr
	}

	result.Failed = append(result.Failed, rejected...)

	if reportPath := cmd.String("report"); reportPath != "" {
		written, err := formatter.WriteBatchReport(result, cmd.String("report-format"), reportPath)
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", written)
	}

	return r.reportResult(cmd, result)
}

// expandBatch classifies each URL, expanding collections in place. A line
// that fails to classify or expand is reported and set aside; the remaining
// lines still download.
func (r *Runner) expandBatch(ctx context.Context, engine *tasks.Engine, urls []string, progress chan tasks.ProgressUpdate) ([]models.ItemReference, []models.ItemFailure) {
	var items []models.ItemReference
	var rejected []models.ItemFailure
	seen := make(map[string]bool)

	for _, url := range urls {
		ref, err := classify.Classify(url)
		if err != nil {
			r.logger.Warn("skipping malformed batch line", "line", url, "err", err)
			rejected = append(rejected, models.ItemFailure{ItemID: url, Err: err})
			continue
		}

		if ref.Kind == classify.KindVideo {
			if !seen[ref.CanonicalID] {
				seen[ref.CanonicalID] = true
				items = append(items, ref.Item())
			}
			continue
		}

		entries, partial, err := engine.ExpandCollection(ctx, ref, "", progress)
		if err != nil {
			r.logger.Warn("skipping unexpandable batch line", "line", url, "err", err)
			rejected = append(rejected, models.ItemFailure{ItemID: url, Err: err})
			continue
		}
		if partial {
			r.logger.Warn("upstream listing was cut short", "collection", ref.CanonicalID)
		}
		for _, entry := range entries {
			if !seen[entry.CanonicalID] {
				seen[entry.CanonicalID] = true
				items = append(items, entry)
			}
		}
	}

	return items, rejected
}

// readBatchFile reads a batch file into its URL lines.
func readBatchFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return urls, nil
}

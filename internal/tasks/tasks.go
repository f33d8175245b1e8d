package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/formats"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/selection"
	"github.com/desertthunder/ytarc/internal/services"
	"github.com/desertthunder/ytarc/internal/shared"
)

// RunOpts contains configuration for a batch download run.
type RunOpts struct {
	Pref        models.FormatPreference // Desired media type, quality, and audio settings
	DestDir     string                  // Directory downloads are written into
	Concurrency int                     // Concurrent workers (default 3, max 10)
	RateLimit   float64                 // Fetch starts per second (default 2)
	Timeout     time.Duration           // Per-attempt timeout (default 5 minutes)
}

// Ledger is the subset of the resume ledger the engine depends on. The
// sqlite-backed ledger satisfies it.
type Ledger interface {
	StatusOf(itemID string) (models.AttemptStatus, error)
	Record(record models.AttemptRecord) error
}

// Engine coordinates batch downloads: ledger-aware skipping, tiered format
// fallback per item, a bounded worker pool, and durable outcome recording.
type Engine struct {
	fetcher    services.Fetcher
	enumerator services.Enumerator
	ledger     Ledger
	resolver   *formats.Resolver
	logger     *log.Logger
}

// NewEngine creates an Engine with the provided collaborators.
func NewEngine(fetcher services.Fetcher, enumerator services.Enumerator, ldg Ledger, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		fetcher:    fetcher,
		enumerator: enumerator,
		ledger:     ldg,
		resolver:   formats.NewResolver(),
		logger:     logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ExpandCollection enumerates a playlist or channel reference into its items,
// optionally narrowed by a selection expression ("1,3,5-7", 1-based against
// the enumerated order).
//
// The returned bool reports a partial enumeration: the upstream listing was
// cut short but the entries that did arrive are still usable.
func (e *Engine) ExpandCollection(ctx context.Context, ref *classify.Ref, selectionExpr string, progress chan<- ProgressUpdate) ([]models.ItemReference, bool, error) {
	if e.enumerator == nil {
		return nil, false, fmt.Errorf("%w: enumerator not initialized", shared.ErrEnumerationFailed)
	}

	e.sendProgress(progress, enumerateUpdate(ref))

	collection, err := e.enumerator.Enumerate(ctx, ref)
	partial := false
	if err != nil {
		if collection == nil || !errors.Is(err, shared.ErrPartialEnumeration) {
			return nil, false, err
		}
		partial = true
		e.logger.Warn("enumeration returned a partial listing", "collection", ref.CanonicalID, "err", err)
	}

	entries := collection.Entries
	if len(entries) == 0 {
		return nil, partial, fmt.Errorf("%w: %s has no entries", shared.ErrEnumerationFailed, ref.CanonicalID)
	}

	if selectionExpr != "" {
		picked, err := selection.Parse(selectionExpr, len(entries))
		if err != nil {
			return nil, partial, err
		}
		selected := make([]models.ItemReference, 0, len(picked))
		for _, idx := range picked {
			selected = append(selected, entries[idx-1])
		}
		entries = selected
	}

	return entries, partial, nil
}

type itemJob struct {
	index int
	item  models.ItemReference
}

type itemOutcome struct {
	index      int
	item       models.ItemReference
	skipped    bool
	aborted    bool
	outputPath string
	err        error
	fatal      error
}

// Run downloads the given items with tiered format fallback and returns the
// batch result in input order.
//
// Items the ledger already marks succeeded are skipped without a fetch. Every
// terminal outcome is committed to the ledger before it is reported. A ledger
// write failure aborts the run: the partial result is returned together with
// the error, since resume guarantees no longer hold.
func (e *Engine) Run(ctx context.Context, items []models.ItemReference, opts RunOpts, progress chan<- ProgressUpdate) (*models.BatchResult, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: fetch backend not initialized", shared.ErrFetchFailed)
	}
	if e.ledger == nil {
		return nil, fmt.Errorf("%w: ledger not initialized", shared.ErrStoreUnavailable)
	}
	if err := opts.Pref.Validate(); err != nil {
		return nil, err
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.Concurrency > 10 {
		opts.Concurrency = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}

	runID := shared.GenerateID()
	e.logger.Info("starting batch run", "run", runID, "items", len(items))

	plan := e.resolver.Resolve(opts.Pref, nil)
	total := len(items)
	e.sendProgress(progress, planUpdate(total, plan))

	outcomes := make([]itemOutcome, total)
	jobs := make(chan itemJob, total)

	for i, item := range items {
		status, err := e.ledger.StatusOf(item.CanonicalID)
		if err != nil {
			return nil, err
		}
		if status == models.StatusSucceeded {
			outcomes[i] = itemOutcome{index: i, item: item, skipped: true}
			e.sendProgress(progress, itemSkippedUpdate(i+1, total, item))
			continue
		}
		jobs <- itemJob{index: i, item: item}
	}
	close(jobs)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	results := make(chan itemOutcome, total)

	var wg sync.WaitGroup
	for range opts.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if runCtx.Err() != nil {
					results <- itemOutcome{index: job.index, item: job.item, aborted: true}
					continue
				}
				if err := limiter.Wait(runCtx); err != nil {
					results <- itemOutcome{index: job.index, item: job.item, aborted: true}
					continue
				}
				results <- e.runItem(runCtx, job, plan, opts, progress, total)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var fatal error
	for outcome := range results {
		outcomes[outcome.index] = outcome
		if outcome.fatal != nil && fatal == nil {
			fatal = outcome.fatal
			cancel()
		}
	}

	result := &models.BatchResult{RunID: runID}
	for _, outcome := range outcomes {
		switch {
		case outcome.aborted:
			// never attempted, left out of the result entirely
		case outcome.fatal != nil:
			// outcome never became durable, so it is not reported either
		case outcome.skipped:
			result.Skipped = append(result.Skipped, outcome.item.CanonicalID)
		case outcome.err != nil:
			result.Failed = append(result.Failed, models.ItemFailure{ItemID: outcome.item.CanonicalID, Err: outcome.err})
		default:
			result.Succeeded = append(result.Succeeded, outcome.item.CanonicalID)
		}
	}

	e.sendProgress(progress, summaryUpdate(result))

	if fatal != nil {
		return result, fatal
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// runItem walks the fallback plan for one item. The outcome is committed to
// the ledger before the item-level progress update is sent.
func (e *Engine) runItem(ctx context.Context, job itemJob, plan models.FormatPlan, opts RunOpts, progress chan<- ProgressUpdate, total int) itemOutcome {
	outcome := itemOutcome{index: job.index, item: job.item}
	step := job.index + 1

	var lastErr error
	for tier, spec := range plan {
		e.sendProgress(progress, fetchTierUpdate(step, total, job.item, spec, tier+1, len(plan)))

		attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		path, err := e.fetcher.Fetch(attemptCtx, job.item, spec, opts.DestDir)
		cancel()

		if err == nil {
			outcome.outputPath = path
			lastErr = nil
			break
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		e.logger.Debug("fetch tier failed", "item", job.item.CanonicalID, "tier", spec.Label, "err", err)
	}

	record := models.AttemptRecord{
		ItemID:      job.item.CanonicalID,
		AttemptedAt: time.Now(),
	}
	if lastErr == nil {
		record.Status = models.StatusSucceeded
		record.OutputPath = outcome.outputPath
	} else {
		record.Status = models.StatusFailed
		record.LastError = lastErr.Error()
		outcome.err = lastErr
	}

	if err := e.ledger.Record(record); err != nil {
		outcome.fatal = err
		return outcome
	}

	if lastErr == nil {
		e.sendProgress(progress, itemDoneUpdate(step, total, job.item, outcome.outputPath))
	} else {
		e.sendProgress(progress, itemFailedUpdate(step, total, job.item, lastErr))
	}

	return outcome
}

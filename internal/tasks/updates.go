package tasks

import (
	"fmt"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Enumerate Phase = iota
	Plan
	Fetch
	ItemDone
	ItemFailed
	ItemSkipped
	Summary
)

func (p Phase) String() string {
	switch p {
	case Enumerate:
		return "enumerate"
	case Plan:
		return "plan"
	case Fetch:
		return "fetch"
	case ItemDone:
		return "item_done"
	case ItemFailed:
		return "item_failed"
	case ItemSkipped:
		return "item_skipped"
	case Summary:
		return "summary"
	default:
		return ""
	}
}

func enumerateUpdate(ref *classify.Ref) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enumerate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Listing %s %s...", ref.Kind, ref.CanonicalID),
	}
}

func planUpdate(total int, plan models.FormatPlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Plan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Queued %d item(s) with %d-tier fallback", total, len(plan)),
		Data:    plan,
	}
}

func fetchTierUpdate(step, total int, item models.ItemReference, spec models.FormatSpec, tier, tiers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (tier %d/%d: %s)", step, total, itemLabel(item), tier, tiers, spec.Label),
		Data:    spec,
	}
}

func itemDoneUpdate(step, total int, item models.ItemReference, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, itemLabel(item)),
		Data:    path,
	}
}

func itemFailedUpdate(step, total int, item models.ItemReference, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, itemLabel(item), err),
	}
}

func itemSkippedUpdate(step, total int, item models.ItemReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemSkipped,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ↷ %s (already downloaded)", step, total, itemLabel(item)),
	}
}

func summaryUpdate(result *models.BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d succeeded, %d failed, %d skipped", len(result.Succeeded), len(result.Failed), len(result.Skipped)),
		Data:    result,
	}
}

func itemLabel(item models.ItemReference) string {
	if item.Title != "" {
		return item.Title
	}
	return item.CanonicalID
}

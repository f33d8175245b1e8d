package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
)

func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// each in-memory connection is its own database, so pin the pool to one
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	l, err := Open(db)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	return l
}

func TestOpen(t *testing.T) {
	t.Run("MissingTable", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open test database: %v", err)
		}
		defer db.Close()

		if _, err := Open(db); !errors.Is(err, shared.ErrStoreUnavailable) {
			t.Errorf("expected ErrStoreUnavailable without migrations, got %v", err)
		}
	})
}

func TestStatusOf(t *testing.T) {
	l := setupTestLedger(t)

	t.Run("UnseenIsUnknown", func(t *testing.T) {
		status, err := l.StatusOf("never-attempted")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != models.StatusUnknown {
			t.Errorf("expected StatusUnknown, got %v", status)
		}
	})

	t.Run("RecordedStatus", func(t *testing.T) {
		record := models.AttemptRecord{
			ItemID:      "vid001",
			Status:      models.StatusSucceeded,
			AttemptedAt: time.Now(),
			OutputPath:  "/downloads/video/vid001.mp4",
		}
		if err := l.Record(record); err != nil {
			t.Fatalf("record failed: %v", err)
		}

		status, err := l.StatusOf("vid001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != models.StatusSucceeded {
			t.Errorf("expected StatusSucceeded, got %v", status)
		}
	})
}

func TestRecord(t *testing.T) {
	l := setupTestLedger(t)

	t.Run("UpsertSupersedes", func(t *testing.T) {
		first := models.AttemptRecord{
			ItemID:      "vid002",
			Status:      models.StatusFailed,
			LastError:   "network failure",
			AttemptedAt: time.Now().Add(-time.Hour),
		}
		if err := l.Record(first); err != nil {
			t.Fatalf("first record failed: %v", err)
		}

		second := models.AttemptRecord{
			ItemID:      "vid002",
			Status:      models.StatusSucceeded,
			AttemptedAt: time.Now(),
			OutputPath:  "/downloads/video/vid002.mp4",
		}
		if err := l.Record(second); err != nil {
			t.Fatalf("second record failed: %v", err)
		}

		got, err := l.Get("vid002")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a record")
		}
		if got.Status != models.StatusSucceeded {
			t.Errorf("retry should supersede the failure, got %v", got.Status)
		}
		if got.LastError != "" {
			t.Errorf("superseded error should be cleared, got %q", got.LastError)
		}
		if got.OutputPath != "/downloads/video/vid002.mp4" {
			t.Errorf("unexpected output path %q", got.OutputPath)
		}
	})

	t.Run("RejectsEmptyID", func(t *testing.T) {
		err := l.Record(models.AttemptRecord{Status: models.StatusPending, AttemptedAt: time.Now()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		err := l.Record(models.AttemptRecord{ItemID: "vid003", AttemptedAt: time.Now()})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestGet(t *testing.T) {
	l := setupTestLedger(t)

	t.Run("UnseenIsNil", func(t *testing.T) {
		got, err := l.Get("missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for unseen item, got %+v", got)
		}
	})
}

func TestFailed(t *testing.T) {
	l := setupTestLedger(t)

	now := time.Now()
	records := []models.AttemptRecord{
		{ItemID: "ok1", Status: models.StatusSucceeded, AttemptedAt: now.Add(-3 * time.Minute)},
		{ItemID: "bad1", Status: models.StatusFailed, LastError: "access denied", AttemptedAt: now.Add(-2 * time.Minute)},
		{ItemID: "bad2", Status: models.StatusFailed, LastError: "timeout", AttemptedAt: now.Add(-time.Minute)},
		{ItemID: "pending1", Status: models.StatusPending, AttemptedAt: now},
	}
	for _, r := range records {
		if err := l.Record(r); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	t.Run("ListsOnlyFailures", func(t *testing.T) {
		failed, err := l.Failed()
		if err != nil {
			t.Fatalf("failed list errored: %v", err)
		}
		if len(failed) != 2 {
			t.Fatalf("expected 2 failures, got %d", len(failed))
		}
		if failed[0].ItemID != "bad1" || failed[1].ItemID != "bad2" {
			t.Errorf("failures should order by attempt time, got %s then %s", failed[0].ItemID, failed[1].ItemID)
		}
		if failed[0].LastError != "access denied" {
			t.Errorf("expected preserved error text, got %q", failed[0].LastError)
		}
	})

	t.Run("ClearRemovesOnlyFailures", func(t *testing.T) {
		cleared, err := l.ClearFailed()
		if err != nil {
			t.Fatalf("clear errored: %v", err)
		}
		if cleared != 2 {
			t.Errorf("expected 2 cleared, got %d", cleared)
		}

		all, err := l.All()
		if err != nil {
			t.Fatalf("all errored: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 surviving records, got %d", len(all))
		}
		for _, r := range all {
			if r.Status == models.StatusFailed {
				t.Errorf("failed record %s should be gone", r.ItemID)
			}
		}

		status, err := l.StatusOf("bad1")
		if err != nil {
			t.Fatalf("status errored: %v", err)
		}
		if status != models.StatusUnknown {
			t.Errorf("cleared item should read as unknown, got %v", status)
		}
	})
}

func TestConcurrentWrites(t *testing.T) {
	l := setupTestLedger(t)

	const writers = 8
	const perWriter = 10

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)

	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWriter {
				record := models.AttemptRecord{
					ItemID:      fmt.Sprintf("item-%d-%d", w, i),
					Status:      models.StatusSucceeded,
					AttemptedAt: time.Now(),
					OutputPath:  fmt.Sprintf("/downloads/item-%d-%d.mp4", w, i),
				}
				if err := l.Record(record); err != nil {
					errs <- err
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent record failed: %v", err)
	}

	all, err := l.All()
	if err != nil {
		t.Fatalf("all errored: %v", err)
	}
	if len(all) != writers*perWriter {
		t.Errorf("expected %d records, got %d", writers*perWriter, len(all))
	}

	// spot check a few keys landed with the right payload
	for _, id := range []string{"item-0-0", "item-3-5", "item-7-9"} {
		got, err := l.Get(id)
		if err != nil {
			t.Fatalf("get %s errored: %v", id, err)
		}
		if got == nil || got.Status != models.StatusSucceeded {
			t.Errorf("record %s missing or wrong status: %+v", id, got)
		}
	}
}

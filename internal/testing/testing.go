// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
)

// FetchCall records one backend invocation for order and argument assertions.
type FetchCall struct {
	ItemID   string
	Selector string
	Label    string
}

// MockFetcher is a scripted test double for [services.Fetcher].
//
// Outcomes maps an item ID to the error returned by each successive attempt
// for that item; a nil entry means the attempt succeeds. Items without a
// script, or attempts past the end of one, succeed. Safe for concurrent use.
type MockFetcher struct {
	Outcomes map[string][]error
	Delay    time.Duration

	mu       sync.Mutex
	calls    []FetchCall
	attempts map[string]int
}

func (m *MockFetcher) Fetch(ctx context.Context, item models.ItemReference, spec models.FormatSpec, destDir string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attempts == nil {
		m.attempts = make(map[string]int)
	}
	m.calls = append(m.calls, FetchCall{ItemID: item.CanonicalID, Selector: spec.Selector, Label: spec.Label})

	attempt := m.attempts[item.CanonicalID]
	m.attempts[item.CanonicalID] = attempt + 1

	script := m.Outcomes[item.CanonicalID]
	if attempt < len(script) && script[attempt] != nil {
		return "", script[attempt]
	}

	return filepath.Join(destDir, item.CanonicalID+".mp4"), nil
}

// Calls returns a copy of the recorded invocations in arrival order.
func (m *MockFetcher) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// CallsFor returns the recorded invocations for a single item.
func (m *MockFetcher) CallsFor(itemID string) []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []FetchCall
	for _, c := range m.calls {
		if c.ItemID == itemID {
			calls = append(calls, c)
		}
	}
	return calls
}

// MockEnumerator is a test double for [services.Enumerator].
type MockEnumerator struct {
	Collection *models.CollectionReference
	Err        error
}

func (m *MockEnumerator) Enumerate(ctx context.Context, ref *classify.Ref) (*models.CollectionReference, error) {
	return m.Collection, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

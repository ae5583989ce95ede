package wordlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/threadkit/comments/internal/moderation"
)

// fakeLister serves a swappable entry list and can be made to fail.
type fakeLister struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	calls   int
}

func (f *fakeLister) ListActive(context.Context) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeLister) set(entries []Entry, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
	f.err = err
}

func TestCacheRefreshAndLookup(t *testing.T) {
	source := &fakeLister{entries: []Entry{
		{Word: "badword", Severity: moderation.SeverityHigh},
		{Word: "Heck", Severity: moderation.SeverityLow},
	}}
	cache := NewCache(source, time.Minute, nil)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	tests := []struct {
		token string
		want  moderation.Severity
		found bool
	}{
		{"badword", moderation.SeverityHigh, true},
		{"BADWORD", moderation.SeverityHigh, true}, // case-insensitive
		{"heck", moderation.SeverityLow, true},     // stored lowercase
		{"badwords", "", false},                    // exact match only
		{"clean", "", false},
	}

	for _, tt := range tests {
		sev, ok := cache.Lookup(tt.token)
		if ok != tt.found || sev != tt.want {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.token, sev, ok, tt.want, tt.found)
		}
	}

	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestCacheEmptyBeforeLoad(t *testing.T) {
	cache := NewCache(&fakeLister{}, time.Minute, nil)

	if _, ok := cache.Lookup("anything"); ok {
		t.Error("Lookup on unloaded cache returned a hit")
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0", cache.Size())
	}
}

func TestCacheRefreshReplacesSnapshot(t *testing.T) {
	source := &fakeLister{entries: []Entry{{Word: "old", Severity: moderation.SeverityMedium}}}
	cache := NewCache(source, time.Minute, nil)
	ctx := context.Background()

	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	source.set([]Entry{{Word: "new", Severity: moderation.SeverityHigh}}, nil)
	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	if _, ok := cache.Lookup("old"); ok {
		t.Error("deactivated word still present after refresh")
	}
	if _, ok := cache.Lookup("new"); !ok {
		t.Error("new word missing after refresh")
	}
}

func TestCacheRefreshFailureKeepsSnapshot(t *testing.T) {
	source := &fakeLister{entries: []Entry{{Word: "keep", Severity: moderation.SeverityHigh}}}
	cache := NewCache(source, time.Minute, nil)
	ctx := context.Background()

	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	source.set(nil, errors.New("pg down"))
	if err := cache.Refresh(ctx); err == nil {
		t.Fatal("Refresh() succeeded, want error")
	}

	// Previous snapshot keeps serving.
	if _, ok := cache.Lookup("keep"); !ok {
		t.Error("snapshot lost after failed refresh")
	}
}

func TestCacheSkipsInvalidEntries(t *testing.T) {
	source := &fakeLister{entries: []Entry{
		{Word: "valid", Severity: moderation.SeverityLow},
		{Word: "", Severity: moderation.SeverityHigh},
		{Word: "bogus-severity", Severity: "extreme"},
	}}
	cache := NewCache(source, time.Minute, nil)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
	if _, ok := cache.Lookup("bogus-severity"); ok {
		t.Error("entry with unknown severity was cached")
	}
}

func TestCacheStartSchedulesRefresh(t *testing.T) {
	source := &fakeLister{entries: []Entry{{Word: "w", Severity: moderation.SeverityLow}}}
	cache := NewCache(source, time.Second, nil)

	if err := cache.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer cache.Stop()

	// Initial load plus at least one scheduled refresh.
	deadline := time.After(3 * time.Second)
	for {
		source.mu.Lock()
		calls := source.calls
		source.mu.Unlock()
		if calls >= 2 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("scheduled refresh never ran (calls=%d)", calls)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestCacheStartFailsOnInitialLoadError(t *testing.T) {
	source := &fakeLister{err: errors.New("pg down")}
	cache := NewCache(source, time.Minute, nil)

	if err := cache.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded with failing source")
	}
}

func TestCacheConcurrentReadDuringRefresh(t *testing.T) {
	source := &fakeLister{entries: []Entry{{Word: "word", Severity: moderation.SeverityMedium}}}
	cache := NewCache(source, time.Minute, nil)
	ctx := context.Background()

	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			cache.Refresh(ctx)
		}
	}()

	// Readers always see a fully-formed map, old or new.
	for i := 0; i < 1000; i++ {
		if _, ok := cache.Lookup("word"); !ok {
			t.Fatal("reader observed missing word during refresh")
		}
	}
	<-done
}

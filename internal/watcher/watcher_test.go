package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/index"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.cancel()

	fired := make(chan struct{}, 10)
	for i := 0; i < 5; i++ {
		d.trigger(func() { fired <- struct{}{} })
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}

	select {
	case <-fired:
		t.Fatal("debounced function ran more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.trigger(func() { fired <- struct{}{} })
	d.cancel()

	select {
	case <-fired:
		t.Fatal("cancelled function ran")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestWatcherInvalidatesChangedDay(t *testing.T) {
	dataDir := t.TempDir()
	date := time.Date(2025, 10, 11, 0, 0, 0, 0, time.Local)
	txtDir := filepath.Join(dataDir, dates.FolderName(date), "txt")
	if err := os.MkdirAll(txtDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(txtDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("09时00分.txt", "zhihu | 知乎\n1. 早间话题\n")

	now := func() time.Time { return date.Add(12 * time.Hour) }
	store := cache.NewWithClock(now)
	svc := index.NewService(dataDir, corpus.NewParser(nil), store, index.Options{Clock: now})

	// Warm the cache.
	idx, err := svc.GetDayIndex(date, nil)
	if err != nil {
		t.Fatalf("GetDayIndex: %v", err)
	}
	if idx.TitleCount() != 1 {
		t.Fatalf("title count = %d", idx.TitleCount())
	}

	invalidated := make(chan time.Time, 1)
	w, err := New(dataDir, svc, Config{Debounce: 30 * time.Millisecond}, nil,
		func(d time.Time) { invalidated <- d })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	writeFile("10时00分.txt", "zhihu | 知乎\n1. 上午话题\n")

	select {
	case d := <-invalidated:
		if !d.Equal(date) {
			t.Errorf("invalidated %v, want %v", d, date)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("cache was never invalidated")
	}

	// The next read re-merges both files.
	idx, err = svc.GetDayIndex(date, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.TitleCount() != 2 {
		t.Errorf("title count after invalidation = %d, want 2", idx.TitleCount())
	}
}

func TestWatcherPicksUpNewDayFolder(t *testing.T) {
	dataDir := t.TempDir()
	date := time.Date(2025, 10, 11, 0, 0, 0, 0, time.Local)

	now := func() time.Time { return date.Add(12 * time.Hour) }
	svc := index.NewService(dataDir, corpus.NewParser(nil), cache.NewWithClock(now), index.Options{Clock: now})

	invalidated := make(chan time.Time, 1)
	w, err := New(dataDir, svc, Config{Debounce: 30 * time.Millisecond}, nil,
		func(d time.Time) { invalidated <- d })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Crawler creates the folder tree, then writes the first snapshot.
	txtDir := filepath.Join(dataDir, dates.FolderName(date), "txt")
	if err := os.Mkdir(filepath.Dir(txtDir), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.Mkdir(txtDir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(txtDir, "09时00分.txt"),
		[]byte("zhihu | 知乎\n1. 新的一天\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case d := <-invalidated:
		if !d.Equal(date) {
			t.Errorf("invalidated %v, want %v", d, date)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("new day folder was never picked up")
	}
}

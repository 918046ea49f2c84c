package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func writeDay(t *testing.T, dataDir string, date time.Time, files map[string]string) {
	t.Helper()
	dir := filepath.Join(dataDir, dates.FolderName(date), "txt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestService(t *testing.T, clock *fakeClock) (*Service, string) {
	t.Helper()
	dataDir := t.TempDir()
	store := cache.NewWithClock(clock.Now)
	svc := NewService(dataDir, corpus.NewParser(nil), store, Options{Clock: clock.Now})
	return svc, dataDir
}

func TestGetDayIndexCachesPerScope(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)}
	svc, dataDir := newTestService(t, clock)

	date := time.Date(2025, 10, 10, 0, 0, 0, 0, time.Local)
	writeDay(t, dataDir, date, map[string]string{
		"09时00分.txt": "zhihu | 知乎\n1. 话题甲\n\nweibo | 微博\n1. 话题乙\n",
	})

	full, err := svc.GetDayIndex(date, nil)
	if err != nil {
		t.Fatalf("GetDayIndex: %v", err)
	}
	if len(full.TitlesByPlatform) != 2 {
		t.Fatalf("platforms = %d, want 2", len(full.TitlesByPlatform))
	}

	only, err := svc.GetDayIndex(date, []string{"weibo"})
	if err != nil {
		t.Fatalf("filtered GetDayIndex: %v", err)
	}
	if len(only.TitlesByPlatform) != 1 || only.TitlesByPlatform["weibo"] == nil {
		t.Errorf("filter kept %v", only.TitlesByPlatform)
	}
	if _, ok := only.IDToName["zhihu"]; ok {
		t.Error("filtered index leaked zhihu display name")
	}

	// Cached: deleting the files must not affect a fresh historical read.
	if err := os.RemoveAll(filepath.Join(dataDir, dates.FolderName(date))); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetDayIndex(date, nil); err != nil {
		t.Errorf("cached read after file removal: %v", err)
	}

	// A scope never queried before misses and hits the missing folder.
	if _, err := svc.GetDayIndex(date, []string{"zhihu"}); !errors.IsDataNotFound(err) {
		t.Errorf("uncached scope should miss, got %v", err)
	}
}

func TestGetDayIndexTodayWindowIsShort(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)}
	svc, dataDir := newTestService(t, clock)

	today := time.Date(2025, 10, 11, 0, 0, 0, 0, time.Local)
	writeDay(t, dataDir, today, map[string]string{
		"11时00分.txt": "zhihu | 知乎\n1. 早间话题\n",
	})

	if _, err := svc.GetDayIndex(today, nil); err != nil {
		t.Fatalf("GetDayIndex: %v", err)
	}

	// New snapshot lands, cache still fresh: stale view is served.
	writeDay(t, dataDir, today, map[string]string{
		"12时00分.txt": "zhihu | 知乎\n1. 午间话题\n",
	})
	idx, err := svc.GetDayIndex(today, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.TitleCount() != 1 {
		t.Errorf("within window: titles = %d, want cached 1", idx.TitleCount())
	}

	// Past the today window the next read re-merges both files.
	clock.Advance(cache.TodayWindow + time.Second)
	idx, err = svc.GetDayIndex(today, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.TitleCount() != 2 {
		t.Errorf("after window: titles = %d, want 2", idx.TitleCount())
	}
}

func TestInvalidateDay(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)}
	svc, dataDir := newTestService(t, clock)

	today := time.Date(2025, 10, 11, 0, 0, 0, 0, time.Local)
	writeDay(t, dataDir, today, map[string]string{
		"11时00分.txt": "zhihu | 知乎\n1. 早间话题\n",
	})
	if _, err := svc.GetDayIndex(today, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetDayIndex(today, []string{"zhihu"}); err != nil {
		t.Fatal(err)
	}

	if n := svc.InvalidateDay(today); n != 2 {
		t.Errorf("invalidated %d entries, want 2", n)
	}

	writeDay(t, dataDir, today, map[string]string{
		"12时00分.txt": "zhihu | 知乎\n1. 午间话题\n",
	})
	idx, err := svc.GetDayIndex(today, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.TitleCount() != 2 {
		t.Errorf("after invalidation: titles = %d, want 2", idx.TitleCount())
	}
}

func TestScanRangeMissingDaysAreZero(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)}
	svc, dataDir := newTestService(t, clock)

	start := time.Date(2025, 10, 8, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, 10, 10, 0, 0, 0, 0, time.Local)
	writeDay(t, dataDir, start, map[string]string{
		"09时00分.txt": "zhihu | 知乎\n1. 话题\n",
	})
	writeDay(t, dataDir, end, map[string]string{
		"09时00分.txt": "zhihu | 知乎\n1. 话题\n",
	})

	results, err := svc.ScanRange(context.Background(), start, end, nil)
	if err != nil {
		t.Fatalf("ScanRange: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Index == nil || results[2].Index == nil {
		t.Error("populated days returned nil index")
	}
	if results[1].Index != nil {
		t.Error("missing day should yield nil index")
	}

	if _, err := svc.ScanRange(context.Background(), end, start, nil); !errors.IsInvalidParameter(err) {
		t.Errorf("inverted range: got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ScanRange(ctx, start, end, nil); err == nil {
		t.Error("cancelled context should abort the scan")
	}
}

func TestAvailableDateRange(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)}
	svc, dataDir := newTestService(t, clock)

	if _, _, _, err := svc.AvailableDateRange(); !errors.IsDataNotFound(err) {
		t.Errorf("empty data dir: got %v", err)
	}

	for _, d := range []time.Time{
		time.Date(2025, 9, 20, 0, 0, 0, 0, time.Local),
		time.Date(2025, 10, 11, 0, 0, 0, 0, time.Local),
	} {
		writeDay(t, dataDir, d, map[string]string{"09时00分.txt": "a | A\n1. t\n"})
	}
	// Stray non-day folder is ignored.
	if err := os.MkdirAll(filepath.Join(dataDir, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	earliest, latest, count, err := svc.AvailableDateRange()
	if err != nil {
		t.Fatalf("AvailableDateRange: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if dates.FolderName(earliest) != "2025年09月20日" || dates.FolderName(latest) != "2025年10月11日" {
		t.Errorf("range = %s .. %s", dates.FolderName(earliest), dates.FolderName(latest))
	}
}

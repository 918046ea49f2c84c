package export

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
	"github.com/ngxdduong/TrendRadar/internal/index"
)

var testNow = time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)

func day(offset int) time.Time {
	return time.Date(2025, 10, 11+offset, 0, 0, 0, 0, time.Local)
}

func writeDay(t *testing.T, dataDir string, date time.Time, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, dates.FolderName(date), "txt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "09时00分.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dataDir := t.TempDir()
	now := func() time.Time { return testNow }
	svc := index.NewService(dataDir, corpus.NewParser(nil), cache.NewWithClock(now), index.Options{Clock: now})
	return NewExporter(svc, nil), dataDir
}

func TestExportRangeRoundTrip(t *testing.T) {
	e, dataDir := newTestExporter(t)
	writeDay(t, dataDir, day(-1),
		"zhihu | 知乎\n1. 昨日头条 [URL:https://example.com/a]\n2. 昨日次条\n")
	writeDay(t, dataDir, day(0), "weibo | 微博\n1. 今日头条\n")

	outDir := filepath.Join(t.TempDir(), "archive")
	manifest, err := e.ExportRange(context.Background(), day(-2), day(0), nil, outDir)
	if err != nil {
		t.Fatalf("ExportRange: %v", err)
	}

	if manifest.ID == "" {
		t.Error("missing export id")
	}
	if len(manifest.Files) != 2 || manifest.TotalTitles != 3 {
		t.Errorf("manifest = %+v", manifest)
	}
	if len(manifest.DaysMissing) != 1 || manifest.DaysMissing[0] != day(-2).Format("2006-01-02") {
		t.Errorf("missing days = %v", manifest.DaysMissing)
	}
	if _, err := os.Stat(filepath.Join(outDir, "manifest.json")); err != nil {
		t.Errorf("manifest file: %v", err)
	}

	payload, err := ReadDayExport(filepath.Join(outDir, dates.FolderName(day(-1))+".json.gz"))
	if err != nil {
		t.Fatalf("ReadDayExport: %v", err)
	}
	if payload.Date != day(-1).Format("2006-01-02") || payload.TotalTitles != 2 {
		t.Errorf("payload = %+v", payload)
	}
	if payload.Platforms[0].Name != "知乎" {
		t.Errorf("platform = %+v", payload.Platforms[0])
	}
	first := payload.Platforms[0].Titles[0]
	if first.Title != "昨日头条" || first.URL != "https://example.com/a" {
		t.Errorf("title row = %+v", first)
	}
}

func TestExportRangeEmpty(t *testing.T) {
	e, _ := newTestExporter(t)

	_, err := e.ExportRange(context.Background(), day(-2), day(0), nil, t.TempDir())
	if !errors.IsDataNotFound(err) {
		t.Errorf("empty range: %v", err)
	}
}

func TestReadDayExportRejectsPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDayExport(path); !errors.IsParseError(err) {
		t.Errorf("plain file: %v", err)
	}
}

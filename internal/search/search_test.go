package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/index"
)

var testNow = time.Date(2025, 10, 11, 12, 0, 0, 0, time.Local)

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

func newTestEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dataDir := t.TempDir()
	now := func() time.Time { return testNow }
	svc := index.NewService(dataDir, corpus.NewParser(nil), cache.NewWithClock(now), index.Options{Clock: now})
	resolver := dates.NewResolverWithClock(now)
	return NewEngine(svc, resolver, config.DefaultConfig().Weight, nil), dataDir
}

func day(offset int) time.Time {
	return time.Date(2025, 10, 11+offset, 0, 0, 0, 0, time.Local)
}

func TestSearchKeywordMode(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. Tesla宣布全线降价\n2. 新能源汽车销量创新高\n\nweibo | 微博\n3. tesla高管回应降价\n")

	res, err := e.Search(context.Background(), Request{
		Query: "Tesla",
		Start: day(0),
		End:   day(0),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalMatched != 2 || res.Returned != 2 {
		t.Fatalf("total=%d returned=%d, want 2/2", res.TotalMatched, res.Returned)
	}
	for _, m := range res.Matches {
		if m.Score != 1.0 {
			t.Errorf("keyword score = %v, want 1.0", m.Score)
		}
		if m.URL != "" {
			t.Errorf("url included without IncludeURL")
		}
	}
	if res.TimeRange != "today" {
		t.Errorf("time range = %q, want today", res.TimeRange)
	}
}

func TestSearchLimitKeepsTotal(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 降价消息一\n2. 降价消息二\n3. 降价消息三\n")

	res, err := e.Search(context.Background(), Request{
		Query: "降价", Start: day(0), End: day(0), Limit: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatched != 3 {
		t.Errorf("total = %d, want pre-truncation 3", res.TotalMatched)
	}
	if res.Returned != 2 || len(res.Matches) != 2 {
		t.Errorf("returned = %d, want 2", res.Returned)
	}
}

func TestSearchEntityModeIsCaseSensitive(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. Tesla宣布降价\n2. tesla高管回应\n")

	res, err := e.Search(context.Background(), Request{
		Query: "Tesla", Mode: ModeEntity, Start: day(0), End: day(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatched != 1 {
		t.Fatalf("entity matches = %d, want 1", res.TotalMatched)
	}
	if res.Matches[0].Title != "Tesla宣布降价" {
		t.Errorf("matched %q", res.Matches[0].Title)
	}
}

func TestSearchFuzzyThresholdClamped(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 特斯拉降价了\n2. 完全无关的话题\n")

	// 1.1 clamps to 1.0: only exact substring containment can reach it.
	res, err := e.Search(context.Background(), Request{
		Query: "特斯拉降价", Mode: ModeFuzzy, Threshold: 1.1, Start: day(0), End: day(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Threshold != 1.0 {
		t.Errorf("threshold = %v, want clamp to 1.0", res.Threshold)
	}
	if res.TotalMatched != 1 || res.Matches[0].Title != "特斯拉降价了" {
		t.Errorf("matches = %+v, want only substring hit", res.Matches)
	}
}

func TestSearchFuzzyOverlapFallback(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 降价 风波 引发 特斯拉 车主 维权\n")

	// No substring, low alignment similarity, but 2 of 2 query tokens occur.
	res, err := e.Search(context.Background(), Request{
		Query: "特斯拉 降价", Mode: ModeFuzzy, Threshold: 0.9, Start: day(0), End: day(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalMatched != 1 {
		t.Fatalf("matches = %d, want overlap fallback hit", res.TotalMatched)
	}
	if res.Matches[0].Score != 1.0 {
		t.Errorf("overlap score = %v, want 1.0 (2/2 tokens)", res.Matches[0].Score)
	}
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 无关话题\n")

	res, err := e.Search(context.Background(), Request{
		Query: "不存在的词", Start: day(0), End: day(0),
	})
	if err != nil {
		t.Fatalf("zero matches must not error: %v", err)
	}
	if res.TotalMatched != 0 || len(res.Matches) != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Message == "" {
		t.Error("empty result should carry a message")
	}
}

func TestSearchValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Search(ctx, Request{Query: ""}); !errors.IsInvalidParameter(err) {
		t.Errorf("empty query: %v", err)
	}
	if _, err := e.Search(ctx, Request{Query: "x", Mode: "regex"}); !errors.IsInvalidParameter(err) {
		t.Errorf("unknown mode: %v", err)
	}
	if _, err := e.Search(ctx, Request{Query: "x", SortBy: "rank"}); !errors.IsInvalidParameter(err) {
		t.Errorf("unknown sort: %v", err)
	}
}

func TestSearchSortByWeightAndDate(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(-1), "zhihu | 知乎\n9. 降价旧闻\n")
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 降价头条\n")

	byWeight, err := e.Search(context.Background(), Request{
		Query: "降价", SortBy: SortWeight, Start: day(-1), End: day(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if byWeight.Matches[0].Title != "降价头条" {
		t.Errorf("weight sort first = %q", byWeight.Matches[0].Title)
	}

	byDate, err := e.Search(context.Background(), Request{
		Query: "降价", SortBy: SortDate, Start: day(-1), End: day(0),
	})
	if err != nil {
		t.Fatal(err)
	}
	if byDate.Matches[0].Date != day(0).Format("2006-01-02") {
		t.Errorf("date sort first = %q", byDate.Matches[0].Date)
	}
}

func TestRelated(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(-1), "zhihu | 知乎\n1. 特斯拉 降价 引发 关注\n2. 完全无关的消息\n")

	res, err := e.Related(context.Background(), RelatedRequest{
		Reference: "特斯拉 降价 风波",
		Preset:    PresetYesterday,
	})
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if res.TotalMatched != 1 {
		t.Fatalf("related matches = %d, want 1", res.TotalMatched)
	}
	m := res.Matches[0]
	if m.KeywordOverlap == 0 || m.Score < DefaultRelatedThreshold {
		t.Errorf("score breakdown = %+v", m)
	}
	if len(m.CommonKeywords) != 2 {
		t.Errorf("common keywords = %v, want 特斯拉+降价", m.CommonKeywords)
	}
	if res.ByDate[day(-1).Format("2006-01-02")] != 1 {
		t.Errorf("date distribution = %v", res.ByDate)
	}
}

func TestRelatedValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.Related(ctx, RelatedRequest{Reference: "x", Preset: "fortnight"}); !errors.IsInvalidParameter(err) {
		t.Errorf("unknown preset: %v", err)
	}
	if _, err := e.Related(ctx, RelatedRequest{Reference: "x", Preset: PresetCustom}); !errors.IsInvalidParameter(err) {
		t.Errorf("custom without bounds: %v", err)
	}
	if _, err := e.Related(ctx, RelatedRequest{Reference: "的 了 在", Preset: PresetYesterday}); !errors.IsInvalidParameter(err) {
		t.Errorf("stopword-only reference: %v", err)
	}
}

func TestSimilar(t *testing.T) {
	e, dataDir := newTestEngine(t)
	writeDay(t, dataDir, day(0), "zhihu | 知乎\n1. 特斯拉宣布降价\n2. 特斯拉宣布涨价\n3. 毫不相干的话题啊\n")

	res, err := e.Similar(day(0), "特斯拉宣布降价", 0.5, 10, false)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if res.TotalMatched != 1 {
		t.Fatalf("similar matches = %d, want 1", res.TotalMatched)
	}
	if res.Matches[0].Title != "特斯拉宣布涨价" {
		t.Errorf("matched %q", res.Matches[0].Title)
	}

	if _, err := e.Similar(day(0), "特斯拉宣布降价", 0.99, 10, false); !errors.IsDataNotFound(err) {
		t.Errorf("nothing above threshold: %v", err)
	}
	if _, err := e.Similar(day(0), "x", 1.5, 10, false); !errors.IsInvalidParameter(err) {
		t.Errorf("threshold out of range: %v", err)
	}
}

package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// NewsItem is one title row returned by the query operations.
type NewsItem struct {
	Title        string  `json:"title"`
	Platform     string  `json:"platform"`
	PlatformName string  `json:"platform_name"`
	Rank         int     `json:"rank"`
	AvgRank      float64 `json:"avg_rank,omitempty"`
	Count        int     `json:"count,omitempty"`
	Date         string  `json:"date,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	URL          string  `json:"url,omitempty"`
	MobileURL    string  `json:"mobileUrl,omitempty"`
}

// NewsResult is a list of news rows plus the query scope.
type NewsResult struct {
	News      []NewsItem `json:"news"`
	Total     int        `json:"total"`
	Date      string     `json:"date,omitempty"`
	Platforms []string   `json:"platforms,omitempty"`
}

// collectNews flattens a day index into news rows.
func collectNews(idx *corpus.DayIndex, dateStr, stamp string, includeURL bool) []NewsItem {
	var items []NewsItem
	for _, platformID := range sortedPlatforms(idx) {
		titles := idx.TitlesByPlatform[platformID]
		platformName := idx.PlatformName(platformID)
		for _, title := range sortedTitles(titles) {
			rec := titles[title]
			item := NewsItem{
				Title:        title,
				Platform:     platformID,
				PlatformName: platformName,
				Rank:         rec.FirstRank(),
				AvgRank:      round2(rec.AvgRank()),
				Count:        rec.Count(),
				Date:         dateStr,
				Timestamp:    stamp,
			}
			if includeURL {
				item.URL = rec.URL
				item.MobileURL = rec.MobileURL
			}
			items = append(items, item)
		}
	}
	return items
}

// LatestNews returns today's merged news sorted by rank, stamped with the
// newest snapshot file time.
func (e *Engine) LatestNews(platforms []string, limit int, includeURL bool) (*NewsResult, error) {
	if limit <= 0 {
		limit = 50
	}

	today := e.resolver.Today()
	idx, err := e.index.GetDayIndex(today, platforms)
	if err != nil {
		return nil, err
	}

	fetchTime := idx.LatestFileTime()
	if fetchTime.IsZero() {
		fetchTime = today
	}

	items := collectNews(idx, today.Format("2006-01-02"), fetchTime.Format("2006-01-02 15:04:05"), includeURL)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Rank < items[j].Rank })
	if len(items) > limit {
		items = items[:limit]
	}

	return &NewsResult{
		News:      items,
		Total:     len(items),
		Date:      today.Format("2006-01-02"),
		Platforms: platforms,
	}, nil
}

// NewsByDate resolves dateQuery through the natural-language date resolver
// and returns that day's news sorted by rank. An empty query means today.
func (e *Engine) NewsByDate(dateQuery string, platforms []string, limit int, includeURL bool) (*NewsResult, error) {
	if dateQuery == "" {
		dateQuery = "today"
	}
	if limit <= 0 {
		limit = 50
	}

	date, err := e.resolver.Resolve(dateQuery)
	if err != nil {
		return nil, err
	}
	if err := e.resolver.AssertNotFuture(date); err != nil {
		return nil, err
	}
	if err := e.resolver.AssertNotTooOld(date, 0); err != nil {
		return nil, err
	}

	idx, err := e.index.GetDayIndex(date, platforms)
	if err != nil {
		return nil, err
	}

	items := collectNews(idx, date.Format("2006-01-02"), "", includeURL)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Rank < items[j].Rank })
	if len(items) > limit {
		items = items[:limit]
	}

	return &NewsResult{
		News:      items,
		Total:     len(items),
		Date:      date.Format("2006-01-02"),
		Platforms: platforms,
	}, nil
}

// Trending-topic aggregation modes. Current approximates daily: after the
// day merge there is no reliable way to isolate the latest snapshot batch,
// so both modes read the full merged day.
const (
	TrendingModeDaily   = "daily"
	TrendingModeCurrent = "current"
)

// TrendingTopic is one watched keyword with its mention statistics.
type TrendingTopic struct {
	Keyword     string `json:"keyword"`
	Frequency   int    `json:"frequency"`
	MatchedNews int    `json:"matched_news"`
}

// TrendingResult lists watched-keyword frequencies for today.
type TrendingResult struct {
	Topics        []TrendingTopic `json:"topics"`
	Mode          string          `json:"mode"`
	TotalKeywords int             `json:"total_keywords"`
	GeneratedAt   string          `json:"generated_at"`
}

// TrendingTopics counts how often each watched keyword from the word-group
// configuration appears in today's titles, and returns the top N. This
// tracks the reader's own watchlist, not automatically extracted topics.
func (e *Engine) TrendingTopics(wordGroups []config.WordGroup, topN int, mode string, platforms []string) (*TrendingResult, error) {
	if topN <= 0 {
		topN = 10
	}
	switch mode {
	case "":
		mode = TrendingModeCurrent
	case TrendingModeDaily, TrendingModeCurrent:
	default:
		return nil, errors.New(errors.InvalidParameter,
			fmt.Sprintf("unknown trending mode %q", mode),
			"use one of: daily, current")
	}

	idx, err := e.index.GetDayIndex(e.resolver.Today(), platforms)
	if err != nil {
		return nil, err
	}

	frequency := make(map[string]int)
	matched := make(map[string]map[string]bool)
	for _, platformID := range sortedPlatforms(idx) {
		for _, title := range sortedTitles(idx.TitlesByPlatform[platformID]) {
			for _, group := range wordGroups {
				for _, word := range append(append([]string(nil), group.Required...), group.Normal...) {
					if word == "" || !strings.Contains(title, word) {
						continue
					}
					frequency[word]++
					if matched[word] == nil {
						matched[word] = make(map[string]bool)
					}
					matched[word][title] = true
				}
			}
		}
	}

	topics := make([]TrendingTopic, 0, len(frequency))
	for word, freq := range frequency {
		topics = append(topics, TrendingTopic{
			Keyword:     word,
			Frequency:   freq,
			MatchedNews: len(matched[word]),
		})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Frequency != topics[j].Frequency {
			return topics[i].Frequency > topics[j].Frequency
		}
		return topics[i].Keyword < topics[j].Keyword
	})
	total := len(topics)
	if len(topics) > topN {
		topics = topics[:topN]
	}

	return &TrendingResult{
		Topics:        topics,
		Mode:          mode,
		TotalKeywords: total,
		GeneratedAt:   time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

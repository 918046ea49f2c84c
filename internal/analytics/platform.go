package analytics

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/text"
)

// KeywordCount pairs a keyword with its frequency.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PlatformStats aggregates one platform's output over a date range.
type PlatformStats struct {
	Platform      string         `json:"platform"`
	PlatformName  string         `json:"platform_name"`
	TotalNews     int            `json:"total_news"`
	TopicMentions int            `json:"topic_mentions"`
	UniqueTitles  int            `json:"unique_titles"`
	CoverageRate  float64        `json:"coverage_rate"`
	TopKeywords   []KeywordCount `json:"top_keywords"`
}

// CompareResult ranks platforms by attention to a topic, or by overall
// volume when no topic is given.
type CompareResult struct {
	Topic          string          `json:"topic,omitempty"`
	Start          string          `json:"start"`
	End            string          `json:"end"`
	Platforms      []PlatformStats `json:"platform_stats"`
	TotalPlatforms int             `json:"total_platforms"`
}

// ComparePlatforms aggregates per-platform news volume over [start, end] and,
// when topic is non-empty, each platform's coverage rate for it. Zero
// start/end bounds default to today only.
func (e *Engine) ComparePlatforms(ctx context.Context, topic string, start, end time.Time) (*CompareResult, error) {
	if start.IsZero() || end.IsZero() {
		start = e.resolver.Today()
		end = start
	}

	days, err := e.index.ScanRange(ctx, start, end, nil)
	if err != nil {
		return nil, err
	}

	type accum struct {
		name     string
		total    int
		mentions int
		unique   map[string]bool
		keywords map[string]int
	}
	topicLower := strings.ToLower(topic)
	stats := make(map[string]*accum)

	for _, day := range days {
		if day.Index == nil {
			continue
		}
		for _, platformID := range sortedPlatforms(day.Index) {
			a := stats[platformID]
			if a == nil {
				a = &accum{
					name:     day.Index.PlatformName(platformID),
					unique:   make(map[string]bool),
					keywords: make(map[string]int),
				}
				stats[platformID] = a
			}
			for _, title := range sortedTitles(day.Index.TitlesByPlatform[platformID]) {
				a.total++
				a.unique[title] = true
				if topic != "" && strings.Contains(strings.ToLower(title), topicLower) {
					a.mentions++
				}
				for _, kw := range text.Tokenize(title) {
					a.keywords[kw]++
				}
			}
		}
	}

	result := &CompareResult{
		Topic: topic,
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
	for _, platformID := range sortedStatKeys(stats) {
		a := stats[platformID]
		s := PlatformStats{
			Platform:      platformID,
			PlatformName:  a.name,
			TotalNews:     a.total,
			TopicMentions: a.mentions,
			UniqueTitles:  len(a.unique),
			TopKeywords:   topKeywords(a.keywords, 5),
		}
		if a.total > 0 {
			s.CoverageRate = round2(float64(a.mentions) / float64(a.total) * 100)
		}
		result.Platforms = append(result.Platforms, s)
	}
	sort.SliceStable(result.Platforms, func(i, j int) bool {
		if topic != "" && result.Platforms[i].TopicMentions != result.Platforms[j].TopicMentions {
			return result.Platforms[i].TopicMentions > result.Platforms[j].TopicMentions
		}
		return result.Platforms[i].TotalNews > result.Platforms[j].TotalNews
	})
	result.TotalPlatforms = len(result.Platforms)
	return result, nil
}

// snapshotNameRe extracts the hour from snapshot filenames like 09时30分.txt.
var snapshotNameRe = regexp.MustCompile(`^(\d{2})时(\d{2})分\.txt$`)

// HourCount is one hour-of-day bucket of snapshot activity.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// ActivityStats describes one platform's publishing cadence.
type ActivityStats struct {
	Platform        string      `json:"platform"`
	PlatformName    string      `json:"platform_name"`
	TotalUpdates    int         `json:"total_updates"`
	NewsCount       int         `json:"news_count"`
	DaysActive      int         `json:"days_active"`
	AvgNewsPerDay   float64     `json:"avg_news_per_day"`
	MostActiveHours []HourCount `json:"most_active_hours"`
}

// ActivityResult ranks platforms by publishing activity.
type ActivityResult struct {
	Start          string          `json:"start"`
	End            string          `json:"end"`
	Platforms      []ActivityStats `json:"platform_activity"`
	MostActive     string          `json:"most_active_platform,omitempty"`
	TotalPlatforms int             `json:"total_platforms"`
}

// PlatformActivity reports per-platform volume, days active and the busiest
// snapshot hours over [start, end]. Hours come from the snapshot filenames.
func (e *Engine) PlatformActivity(ctx context.Context, start, end time.Time) (*ActivityResult, error) {
	if start.IsZero() || end.IsZero() {
		start = e.resolver.Today()
		end = start
	}

	days, err := e.index.ScanRange(ctx, start, end, nil)
	if err != nil {
		return nil, err
	}

	type accum struct {
		name    string
		updates int
		news    int
		days    map[string]bool
		hours   map[int]int
	}
	stats := make(map[string]*accum)

	for _, day := range days {
		if day.Index == nil {
			continue
		}
		dateStr := day.Date.Format("2006-01-02")
		for _, platformID := range sortedPlatforms(day.Index) {
			a := stats[platformID]
			if a == nil {
				a = &accum{
					name:  day.Index.PlatformName(platformID),
					days:  make(map[string]bool),
					hours: make(map[int]int),
				}
				stats[platformID] = a
			}
			a.news += len(day.Index.TitlesByPlatform[platformID])
			a.days[dateStr] = true
			a.updates += len(day.Index.FileTimestamps)
			for name := range day.Index.FileTimestamps {
				if m := snapshotNameRe.FindStringSubmatch(name); m != nil {
					a.hours[atoi(m[1])]++
				}
			}
		}
	}

	result := &ActivityResult{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
	for _, platformID := range sortedStatKeys(stats) {
		a := stats[platformID]
		s := ActivityStats{
			Platform:        platformID,
			PlatformName:    a.name,
			TotalUpdates:    a.updates,
			NewsCount:       a.news,
			DaysActive:      len(a.days),
			MostActiveHours: topHours(a.hours, 3),
		}
		if len(a.days) > 0 {
			s.AvgNewsPerDay = round2(float64(a.news) / float64(len(a.days)))
		}
		result.Platforms = append(result.Platforms, s)
	}
	sort.SliceStable(result.Platforms, func(i, j int) bool {
		return result.Platforms[i].AvgNewsPerDay > result.Platforms[j].AvgNewsPerDay
	})
	if len(result.Platforms) > 0 {
		result.MostActive = result.Platforms[0].PlatformName
	}
	result.TotalPlatforms = len(result.Platforms)
	return result, nil
}

// CooccurrencePair is two keywords that appear together in titles.
type CooccurrencePair struct {
	Keyword1     string   `json:"keyword1"`
	Keyword2     string   `json:"keyword2"`
	Count        int      `json:"cooccurrence_count"`
	SampleTitles []string `json:"sample_titles,omitempty"`
}

// CooccurrenceResult lists the strongest keyword pairings for one day.
type CooccurrenceResult struct {
	Pairs        []CooccurrencePair `json:"cooccurrence_pairs"`
	TotalPairs   int                `json:"total_pairs"`
	MinFrequency int                `json:"min_frequency"`
}

// Cooccurrence counts keyword pairs appearing in the same title on date,
// keeping pairs seen at least minFrequency times, capped at topN.
func (e *Engine) Cooccurrence(ctx context.Context, date time.Time, minFrequency, topN int, platforms []string) (*CooccurrenceResult, error) {
	if minFrequency <= 0 {
		minFrequency = 3
	}
	if topN <= 0 {
		topN = 20
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = e.resolver.Today()
	}

	idx, err := e.index.GetDayIndex(date, platforms)
	if err != nil {
		return nil, err
	}

	type pairKey struct{ a, b string }
	pairCounts := make(map[pairKey]int)
	pairSamples := make(map[pairKey][]string)

	for _, platformID := range sortedPlatforms(idx) {
		for _, title := range sortedTitles(idx.TitlesByPlatform[platformID]) {
			keywords := text.Tokenize(title)
			for i := 0; i < len(keywords); i++ {
				for j := i + 1; j < len(keywords); j++ {
					a, b := keywords[i], keywords[j]
					if a == b {
						continue
					}
					if a > b {
						a, b = b, a
					}
					key := pairKey{a, b}
					pairCounts[key]++
					if len(pairSamples[key]) < 3 {
						pairSamples[key] = append(pairSamples[key], title)
					}
				}
			}
		}
	}

	var pairs []CooccurrencePair
	for key, count := range pairCounts {
		if count < minFrequency {
			continue
		}
		pairs = append(pairs, CooccurrencePair{
			Keyword1:     key.a,
			Keyword2:     key.b,
			Count:        count,
			SampleTitles: pairSamples[key],
		})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].Keyword1 != pairs[j].Keyword1 {
			return pairs[i].Keyword1 < pairs[j].Keyword1
		}
		return pairs[i].Keyword2 < pairs[j].Keyword2
	})
	if len(pairs) > topN {
		pairs = pairs[:topN]
	}

	return &CooccurrenceResult{
		Pairs:        pairs,
		TotalPairs:   len(pairs),
		MinFrequency: minFrequency,
	}, nil
}

func sortedStatKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func topKeywords(counts map[string]int, n int) []KeywordCount {
	out := make([]KeywordCount, 0, len(counts))
	for kw, c := range counts {
		out = append(out, KeywordCount{Keyword: kw, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topHours(counts map[int]int, n int) []HourCount {
	type hc struct{ hour, count int }
	out := make([]hc, 0, len(counts))
	for h, c := range counts {
		out = append(out, hc{h, c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].hour < out[j].hour
	})
	if len(out) > n {
		out = out[:n]
	}
	hours := make([]HourCount, 0, len(out))
	for _, h := range out {
		hours = append(hours, HourCount{Hour: fmt.Sprintf("%02d:00", h.hour), Count: h.count})
	}
	return hours
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// Package analytics implements time-series and cross-platform analysis over
// day indexes: topic trends, lifecycles, viral detection, prediction,
// platform statistics and summary reports.
package analytics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/logging"
	"github.com/ngxdduong/TrendRadar/internal/text"
)

// DefaultRangeDays is the range analysed when the caller gives no bounds.
const DefaultRangeDays = 7

// Engine runs analytics against the day index service.
type Engine struct {
	index    *index.Service
	resolver *dates.Resolver
	weights  config.WeightConfig
	logger   *logging.Logger
}

// NewEngine returns an analytics Engine.
func NewEngine(idx *index.Service, resolver *dates.Resolver, weights config.WeightConfig, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{index: idx, resolver: resolver, weights: weights, logger: logger}
}

// defaultRange returns the last DefaultRangeDays days ending today.
func (e *Engine) defaultRange() (time.Time, time.Time) {
	end := e.resolver.Today()
	return end.AddDate(0, 0, -(DefaultRangeDays - 1)), end
}

// TrendPoint is one day of a topic's mention series.
type TrendPoint struct {
	Date         string   `json:"date"`
	Count        int      `json:"count"`
	SampleTitles []string `json:"sample_titles,omitempty"`
}

// dailySeries counts per-day titles containing topic, case-insensitively,
// over [start, end]. Missing days contribute zero. Up to three sample titles
// are kept per day.
func (e *Engine) dailySeries(ctx context.Context, topic string, start, end time.Time, platforms []string) ([]TrendPoint, error) {
	days, err := e.index.ScanRange(ctx, start, end, platforms)
	if err != nil {
		return nil, err
	}

	topicLower := strings.ToLower(topic)
	series := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		point := TrendPoint{Date: day.Date.Format("2006-01-02")}
		if day.Index != nil {
			for _, platformID := range sortedPlatforms(day.Index) {
				for _, title := range sortedTitles(day.Index.TitlesByPlatform[platformID]) {
					if !strings.Contains(strings.ToLower(title), topicLower) {
						continue
					}
					point.Count++
					if len(point.SampleTitles) < 3 {
						point.SampleTitles = append(point.SampleTitles, title)
					}
				}
			}
		}
		series = append(series, point)
	}
	return series, nil
}

// keywordCounts tallies token frequencies over every title of one day index
// and keeps up to three sample titles per token.
func keywordCounts(idx *corpus.DayIndex) (map[string]int, map[string][]string) {
	counts := make(map[string]int)
	samples := make(map[string][]string)
	for _, platformID := range sortedPlatforms(idx) {
		for _, title := range sortedTitles(idx.TitlesByPlatform[platformID]) {
			for _, kw := range text.Tokenize(title) {
				counts[kw]++
				if len(samples[kw]) < 3 {
					samples[kw] = append(samples[kw], title)
				}
			}
		}
	}
	return counts, samples
}

func sortedPlatforms(idx *corpus.DayIndex) []string {
	ids := make([]string, 0, len(idx.TitlesByPlatform))
	for id := range idx.TitlesByPlatform {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedTitles(titles map[string]*corpus.TitleRecord) []string {
	keys := make([]string, 0, len(titles))
	for t := range titles {
		keys = append(keys, t)
	}
	sort.Strings(keys)
	return keys
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

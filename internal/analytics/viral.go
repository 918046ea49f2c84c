package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// Viral detection defaults. A keyword absent yesterday must appear at least
// NewTopicMinCount times today to count as viral.
const (
	DefaultViralThreshold = 3.0
	NewTopicMinCount      = 5
)

// Alert levels.
const (
	AlertHigh   = "high"
	AlertMedium = "medium"
)

// ViralTopic is one keyword whose mention count spiked day over day. For
// keywords absent yesterday the growth is unbounded: IsNew is set and
// GrowthRate stays zero.
type ViralTopic struct {
	Keyword       string   `json:"keyword"`
	CurrentCount  int      `json:"current_count"`
	PreviousCount int      `json:"previous_count"`
	GrowthRate    float64  `json:"growth_rate,omitempty"`
	IsNew         bool     `json:"is_new"`
	SampleTitles  []string `json:"sample_titles,omitempty"`
	AlertLevel    string   `json:"alert_level"`
}

// ViralResult lists detected viral keywords, sorted by growth.
type ViralResult struct {
	Topics    []ViralTopic `json:"viral_topics"`
	Total     int          `json:"total_detected"`
	Threshold float64      `json:"threshold"`
	Message   string       `json:"message,omitempty"`
}

// Viral compares today's keyword frequencies against yesterday's and flags
// keywords whose count grew at least threshold-fold, or that are new with a
// significant count. A missing yesterday is treated as an empty baseline.
func (e *Engine) Viral(ctx context.Context, threshold float64, platforms []string) (*ViralResult, error) {
	if threshold == 0 {
		threshold = DefaultViralThreshold
	}
	if threshold < 1.0 {
		return nil, errors.New(errors.InvalidParameter,
			"threshold must be at least 1.0", "values between 2.0 and 5.0 work well")
	}

	today := e.resolver.Today()
	todayIdx, err := e.index.GetDayIndex(today, platforms)
	if err != nil {
		return nil, err
	}
	todayCounts, todaySamples := keywordCounts(todayIdx)

	previousCounts := map[string]int{}
	if yesterdayIdx, err := e.index.GetDayIndex(today.AddDate(0, 0, -1), platforms); err == nil {
		previousCounts, _ = keywordCounts(yesterdayIdx)
	} else if !errors.IsDataNotFound(err) {
		return nil, err
	}

	var topics []ViralTopic
	for kw, current := range todayCounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		previous := previousCounts[kw]

		var t ViralTopic
		if previous == 0 {
			if current < NewTopicMinCount {
				continue
			}
			t = ViralTopic{
				Keyword:      kw,
				CurrentCount: current,
				IsNew:        true,
				AlertLevel:   AlertHigh,
			}
		} else {
			growth := float64(current) / float64(previous)
			if growth < threshold {
				continue
			}
			level := AlertMedium
			if growth > threshold*2 {
				level = AlertHigh
			}
			t = ViralTopic{
				Keyword:       kw,
				CurrentCount:  current,
				PreviousCount: previous,
				GrowthRate:    round2(growth),
				AlertLevel:    level,
			}
		}
		t.SampleTitles = todaySamples[kw]
		topics = append(topics, t)
	}

	// New keywords rank above everything, ordered by volume; the rest by
	// growth rate.
	sort.SliceStable(topics, func(i, j int) bool {
		a, b := topics[i], topics[j]
		if a.IsNew != b.IsNew {
			return a.IsNew
		}
		if a.IsNew {
			return a.CurrentCount > b.CurrentCount
		}
		return a.GrowthRate > b.GrowthRate
	})

	result := &ViralResult{Topics: topics, Total: len(topics), Threshold: threshold}
	if len(topics) == 0 {
		result.Message = fmt.Sprintf("no keyword grew more than %.1fx day over day", threshold)
	}
	return result, nil
}

// Prediction confidence tiers.
const (
	confidenceConsistent = 0.9
	confidenceTwoPoint   = 0.7
	confidenceSparse     = 0.6
)

// predictGrowthFloor is the minimum growth rate considered a rising signal.
const predictGrowthFloor = 0.3

// maxPredictions caps the returned prediction list.
const maxPredictions = 20

// PredictedTopic is one keyword expected to keep rising.
type PredictedTopic struct {
	Keyword      string   `json:"keyword"`
	CurrentCount int      `json:"current_count"`
	GrowthRate   float64  `json:"growth_rate"`
	Confidence   float64  `json:"confidence"`
	Series       []int    `json:"trend_data"`
	SampleTitles []string `json:"sample_titles,omitempty"`
}

// PredictResult lists rising-keyword predictions.
type PredictResult struct {
	Topics              []PredictedTopic `json:"predicted_topics"`
	TotalPredicted      int              `json:"total_predicted"`
	ConfidenceThreshold float64          `json:"confidence_threshold"`
}

// Predict extrapolates keyword counts from a four-day series, the three
// prior days plus today, and returns keywords whose latest day-over-day
// growth exceeds 30% with confidence at or above confidenceThreshold.
// Confidence is highest when the whole series never decreases. Today's data
// must exist.
func (e *Engine) Predict(ctx context.Context, confidenceThreshold float64, platforms []string) (*PredictResult, error) {
	if confidenceThreshold < 0 || confidenceThreshold > 1 {
		return nil, errors.New(errors.InvalidParameter,
			"confidence threshold must be between 0 and 1", "values between 0.6 and 0.8 work well")
	}

	today := e.resolver.Today()

	series := make(map[string][]int)
	for daysAgo := 3; daysAgo >= 1; daysAgo-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, err := e.index.GetDayIndex(today.AddDate(0, 0, -daysAgo), platforms)
		if err != nil {
			if errors.IsDataNotFound(err) {
				continue
			}
			return nil, err
		}
		counts, _ := keywordCounts(idx)
		for kw, c := range counts {
			series[kw] = append(series[kw], c)
		}
	}

	todayIdx, err := e.index.GetDayIndex(today, platforms)
	if err != nil {
		return nil, err
	}
	todayCounts, todaySamples := keywordCounts(todayIdx)
	for kw, c := range todayCounts {
		series[kw] = append(series[kw], c)
	}

	var topics []PredictedTopic
	for kw, points := range series {
		if len(points) < 2 {
			continue
		}
		latest := points[len(points)-1]
		previous := points[len(points)-2]

		var growth float64
		if previous == 0 {
			if latest < 3 {
				continue
			}
			growth = 1.0
		} else {
			growth = float64(latest-previous) / float64(previous)
		}
		if growth <= predictGrowthFloor {
			continue
		}

		confidence := confidenceSparse
		if len(points) >= 3 {
			confidence = confidenceTwoPoint
			if nonDecreasing(points) {
				confidence = confidenceConsistent
			}
		}
		if confidence < confidenceThreshold {
			continue
		}

		topics = append(topics, PredictedTopic{
			Keyword:      kw,
			CurrentCount: latest,
			GrowthRate:   round2(growth * 100),
			Confidence:   confidence,
			Series:       points,
			SampleTitles: todaySamples[kw],
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Confidence != topics[j].Confidence {
			return topics[i].Confidence > topics[j].Confidence
		}
		return topics[i].GrowthRate > topics[j].GrowthRate
	})

	result := &PredictResult{
		TotalPredicted:      len(topics),
		ConfidenceThreshold: confidenceThreshold,
	}
	if len(topics) > maxPredictions {
		topics = topics[:maxPredictions]
	}
	result.Topics = topics
	return result, nil
}

func nonDecreasing(points []int) bool {
	for i := 1; i < len(points); i++ {
		if points[i] < points[i-1] {
			return false
		}
	}
	return true
}

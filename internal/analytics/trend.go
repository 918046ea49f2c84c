package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// Trend directions.
const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStable = "stable"
)

// TrendResult describes how a topic's mention count moved over a date range.
type TrendResult struct {
	Topic           string       `json:"topic"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	TotalDays       int          `json:"total_days"`
	Series          []TrendPoint `json:"trend_data"`
	TotalMentions   int          `json:"total_mentions"`
	AverageMentions float64      `json:"average_mentions"`
	PeakCount       int          `json:"peak_count"`
	PeakDate        string       `json:"peak_date,omitempty"`
	ChangeRate      float64      `json:"change_rate"`
	Direction       string       `json:"trend_direction"`
}

// Trend builds the per-day mention series for topic over [start, end] and
// derives the aggregate statistics. The change rate compares the last day
// against the first day with any mentions. Only day granularity is
// supported.
func (e *Engine) Trend(ctx context.Context, topic string, start, end time.Time, platforms []string, granularity string) (*TrendResult, error) {
	if topic == "" {
		return nil, errors.New(errors.InvalidParameter,
			"topic must not be empty", "provide the topic keyword to analyse")
	}
	if granularity != "" && granularity != "day" {
		return nil, errors.New(errors.InvalidParameter,
			fmt.Sprintf("unsupported granularity %q", granularity),
			"only day granularity is available, the corpus is aggregated per day")
	}
	if start.IsZero() || end.IsZero() {
		start, end = e.defaultRange()
	}

	series, err := e.dailySeries(ctx, topic, start, end, platforms)
	if err != nil {
		return nil, err
	}

	result := &TrendResult{
		Topic:     topic,
		Start:     start.Format("2006-01-02"),
		End:       end.Format("2006-01-02"),
		TotalDays: len(series),
		Series:    series,
		Direction: DirectionStable,
	}

	peakIdx := -1
	firstNonZero := 0
	for i, p := range series {
		result.TotalMentions += p.Count
		if p.Count > result.PeakCount {
			result.PeakCount = p.Count
			peakIdx = i
		}
		if firstNonZero == 0 && p.Count > 0 {
			firstNonZero = p.Count
		}
	}
	if len(series) > 0 {
		result.AverageMentions = round2(float64(result.TotalMentions) / float64(len(series)))
	}
	if peakIdx >= 0 {
		result.PeakDate = series[peakIdx].Date
	}

	if len(series) >= 2 && firstNonZero > 0 {
		last := series[len(series)-1].Count
		result.ChangeRate = round2(float64(last-firstNonZero) / float64(firstNonZero) * 100)
	}
	switch {
	case result.ChangeRate > 10:
		result.Direction = DirectionUp
	case result.ChangeRate < -10:
		result.Direction = DirectionDown
	}

	return result, nil
}

// Lifecycle stages and topic types.
const (
	StageRising    = "rising"
	StageDeclining = "declining"
	StageBursting  = "bursting"
	StageStable    = "stable"

	TypeFlash     = "flash"
	TypeSustained = "sustained"
	TypePeriodic  = "periodic"
)

// LifecycleResult tracks a topic from first to last appearance in a range.
type LifecycleResult struct {
	Topic            string       `json:"topic"`
	Start            string       `json:"start"`
	End              string       `json:"end"`
	TotalDays        int          `json:"total_days"`
	Series           []TrendPoint `json:"lifecycle_data"`
	FirstAppearance  string       `json:"first_appearance"`
	LastAppearance   string       `json:"last_appearance"`
	PeakDate         string       `json:"peak_date"`
	PeakCount        int          `json:"peak_count"`
	ActiveDays       int          `json:"active_days"`
	AvgDailyMentions float64      `json:"avg_daily_mentions"`
	Stage            string       `json:"lifecycle_stage"`
	Type             string       `json:"topic_type"`
}

// Lifecycle classifies where a topic stands in its life span. Fails with
// DataNotFound when the topic never appears in the range. The average counts
// only active days.
func (e *Engine) Lifecycle(ctx context.Context, topic string, start, end time.Time, platforms []string) (*LifecycleResult, error) {
	if topic == "" {
		return nil, errors.New(errors.InvalidParameter,
			"topic must not be empty", "provide the topic keyword to analyse")
	}
	if start.IsZero() || end.IsZero() {
		start, end = e.defaultRange()
	}

	series, err := e.dailySeries(ctx, topic, start, end, platforms)
	if err != nil {
		return nil, err
	}

	result := &LifecycleResult{
		Topic:     topic,
		Start:     start.Format("2006-01-02"),
		End:       end.Format("2006-01-02"),
		TotalDays: len(series),
		Series:    series,
	}

	peakIdx := -1
	activeSum := 0
	for i, p := range series {
		if p.Count > 0 {
			if result.FirstAppearance == "" {
				result.FirstAppearance = p.Date
			}
			result.LastAppearance = p.Date
			result.ActiveDays++
			activeSum += p.Count
		}
		if p.Count > result.PeakCount {
			result.PeakCount = p.Count
			peakIdx = i
		}
	}

	if result.ActiveDays == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("topic %q not found between %s and %s", topic, result.Start, result.End),
			"try another topic or widen the date range")
	}

	result.PeakDate = series[peakIdx].Date
	result.AvgDailyMentions = round2(float64(activeSum) / float64(result.ActiveDays))

	recentSum, earlySum := windowSums(series)
	peakIsRecent := peakIdx >= len(series)-3
	switch {
	case recentSum > earlySum:
		result.Stage = StageRising
	case float64(recentSum) < float64(earlySum)*0.5:
		result.Stage = StageDeclining
	case peakIsRecent:
		result.Stage = StageBursting
	default:
		result.Stage = StageStable
	}

	// The type classification compares the peak against the mean over the
	// whole range, zero days included, so a short sharp burst in a quiet
	// range still registers as a flash.
	rangeAvg := float64(activeSum) / float64(result.TotalDays)
	switch {
	case result.ActiveDays <= 2 && float64(result.PeakCount) > rangeAvg*2:
		result.Type = TypeFlash
	case float64(result.ActiveDays) >= float64(result.TotalDays)*0.6:
		result.Type = TypeSustained
	default:
		result.Type = TypePeriodic
	}

	return result, nil
}

// windowSums returns the mention totals of the last three and first three
// days of the series.
func windowSums(series []TrendPoint) (recent, early int) {
	for i, p := range series {
		if i < 3 {
			early += p.Count
		}
		if i >= len(series)-3 {
			recent += p.Count
		}
	}
	return
}

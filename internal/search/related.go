package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/text"
)

// Preset names a relative history window for related-news lookups.
type Preset string

const (
	PresetYesterday Preset = "yesterday"
	PresetLastWeek  Preset = "last_week"
	PresetLastMonth Preset = "last_month"
	PresetCustom    Preset = "custom"
)

// DefaultRelatedThreshold is the combined-score cutoff for related news.
const DefaultRelatedThreshold = 0.4

// RelatedRequest describes a history-relevance lookup: given a reference
// text, find the news in a past window that discuss the same thing.
type RelatedRequest struct {
	Reference  string
	Preset     Preset
	Start, End time.Time // custom preset only
	Threshold  float64
	Limit      int
	Platforms  []string
	IncludeURL bool
}

// RelatedMatch is one related title with its score breakdown. The combined
// score weighs token overlap with the reference at 0.7 and raw text
// similarity at 0.3.
type RelatedMatch struct {
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	PlatformName   string   `json:"platform_name"`
	Date           string   `json:"date"`
	Score          float64  `json:"similarity_score"`
	KeywordOverlap float64  `json:"keyword_overlap"`
	TextSimilarity float64  `json:"text_similarity"`
	CommonKeywords []string `json:"common_keywords"`
	Rank           int      `json:"rank"`
	URL            string   `json:"url,omitempty"`
	MobileURL      string   `json:"mobileUrl,omitempty"`
}

// RelatedResult carries the related matches plus range-wide statistics.
type RelatedResult struct {
	Matches       []RelatedMatch `json:"results"`
	TotalMatched  int            `json:"total_found"`
	Returned      int            `json:"returned_count"`
	Reference     string         `json:"reference_text"`
	Keywords      []string       `json:"reference_keywords"`
	Preset        Preset         `json:"time_preset"`
	Start         string         `json:"start_date"`
	End           string         `json:"end_date"`
	ByPlatform    map[string]int `json:"platform_distribution,omitempty"`
	ByDate        map[string]int `json:"date_distribution,omitempty"`
	AvgSimilarity float64        `json:"avg_similarity"`
	Message       string         `json:"message,omitempty"`
}

// presetRange maps a preset onto a concrete inclusive date range, anchored
// at today.
func (e *Engine) presetRange(req RelatedRequest) (time.Time, time.Time, error) {
	today := e.resolver.Today()
	switch req.Preset {
	case PresetYesterday:
		d := today.AddDate(0, 0, -1)
		return d, d, nil
	case PresetLastWeek:
		return today.AddDate(0, 0, -7), today.AddDate(0, 0, -1), nil
	case PresetLastMonth:
		return today.AddDate(0, 0, -30), today.AddDate(0, 0, -1), nil
	case PresetCustom:
		if req.Start.IsZero() || req.End.IsZero() {
			return time.Time{}, time.Time{}, errors.New(errors.InvalidParameter,
				"custom preset requires start and end dates",
				"provide both range bounds or pick a named preset")
		}
		return req.Start, req.End, nil
	}
	return time.Time{}, time.Time{}, errors.New(errors.InvalidParameter,
		fmt.Sprintf("unknown time preset %q", req.Preset),
		"use one of: yesterday, last_week, last_month, custom")
}

// Related finds past news relevant to a reference text using the combined
// overlap and similarity metric.
func (e *Engine) Related(ctx context.Context, req RelatedRequest) (*RelatedResult, error) {
	if req.Reference == "" {
		return nil, errors.New(errors.InvalidParameter,
			"reference text must not be empty", "provide the text to relate against")
	}
	if req.Preset == "" {
		req.Preset = PresetYesterday
	}
	if req.Threshold == 0 {
		req.Threshold = DefaultRelatedThreshold
	}
	req.Threshold = clampThreshold(req.Threshold)
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}

	start, end, err := e.presetRange(req)
	if err != nil {
		return nil, err
	}

	refTokens := text.TokenSet(req.Reference)
	if len(refTokens) == 0 {
		return nil, errors.New(errors.InvalidParameter,
			"no keywords could be extracted from the reference text",
			"provide a longer or more specific text")
	}
	var refKeywords []string
	for t := range refTokens {
		refKeywords = append(refKeywords, t)
	}
	sort.Strings(refKeywords)

	days, err := e.index.ScanRange(ctx, start, end, req.Platforms)
	if err != nil {
		return nil, err
	}

	var matches []RelatedMatch
	for _, day := range days {
		if day.Index == nil {
			continue
		}
		dateStr := day.Date.Format("2006-01-02")
		for _, platformID := range sortedKeys(day.Index.TitlesByPlatform) {
			titles := day.Index.TitlesByPlatform[platformID]
			platformName := day.Index.PlatformName(platformID)
			for _, title := range sortedKeys(titles) {
				titleTokens := text.TokenSet(title)
				overlap := text.Overlap(refTokens, titleTokens)
				similarity := text.Similarity(req.Reference, title)
				combined := 0.7*overlap + 0.3*similarity
				if combined < req.Threshold {
					continue
				}

				common := text.SharedTokens(refTokens, titleTokens)
				sort.Strings(common)
				rec := titles[title]
				m := RelatedMatch{
					Title:          title,
					Platform:       platformID,
					PlatformName:   platformName,
					Date:           dateStr,
					Score:          round4(combined),
					KeywordOverlap: round4(overlap),
					TextSimilarity: round4(similarity),
					CommonKeywords: common,
					Rank:           rec.FirstRank(),
				}
				if req.IncludeURL {
					m.URL = rec.URL
					m.MobileURL = rec.MobileURL
				}
				matches = append(matches, m)
			}
		}
	}

	result := &RelatedResult{
		Reference: req.Reference,
		Keywords:  refKeywords,
		Preset:    req.Preset,
		Start:     start.Format("2006-01-02"),
		End:       end.Format("2006-01-02"),
	}

	if len(matches) == 0 {
		result.Message = "no related news found"
		return result, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result.TotalMatched = len(matches)
	result.ByPlatform = make(map[string]int)
	result.ByDate = make(map[string]int)
	sum := 0.0
	for _, m := range matches {
		result.ByPlatform[m.Platform]++
		result.ByDate[m.Date]++
		sum += m.Score
	}
	result.AvgSimilarity = round4(sum / float64(len(matches)))

	if len(matches) > req.Limit {
		matches = matches[:req.Limit]
	}
	result.Matches = matches
	result.Returned = len(matches)
	return result, nil
}

// SimilarMatch is one title close to a reference title by raw similarity.
type SimilarMatch struct {
	Title        string  `json:"title"`
	Platform     string  `json:"platform"`
	PlatformName string  `json:"platform_name"`
	Similarity   float64 `json:"similarity"`
	Rank         int     `json:"rank"`
	URL          string  `json:"url,omitempty"`
}

// SimilarResult carries similar-title matches for one day.
type SimilarResult struct {
	Matches      []SimilarMatch `json:"similar_news"`
	TotalMatched int            `json:"total_found"`
	Returned     int            `json:"returned_count"`
	Reference    string         `json:"reference_title"`
	Threshold    float64        `json:"threshold"`
}

// Similar finds titles on date whose alignment similarity to reference meets
// threshold, excluding the reference itself. Fails with DataNotFound when
// nothing clears the threshold.
func (e *Engine) Similar(date time.Time, reference string, threshold float64, limit int, includeURL bool) (*SimilarResult, error) {
	if reference == "" {
		return nil, errors.New(errors.InvalidParameter,
			"reference title must not be empty", "provide the title to compare against")
	}
	if threshold < 0 || threshold > 1 {
		return nil, errors.New(errors.InvalidParameter,
			"threshold must be between 0 and 1", "values around 0.5-0.8 work well")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	idx, err := e.index.GetDayIndex(date, nil)
	if err != nil {
		return nil, err
	}

	var matches []SimilarMatch
	for _, platformID := range sortedKeys(idx.TitlesByPlatform) {
		titles := idx.TitlesByPlatform[platformID]
		platformName := idx.PlatformName(platformID)
		for _, title := range sortedKeys(titles) {
			if title == reference {
				continue
			}
			similarity := text.Similarity(reference, title)
			if similarity < threshold {
				continue
			}
			rec := titles[title]
			m := SimilarMatch{
				Title:        title,
				Platform:     platformID,
				PlatformName: platformName,
				Similarity:   round4(similarity),
				Rank:         rec.FirstRank(),
			}
			if includeURL {
				m.URL = rec.URL
			}
			matches = append(matches, m)
		}
	}

	if len(matches) == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no news with similarity above %.2f", threshold),
			"lower the threshold or try another title")
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	result := &SimilarResult{
		TotalMatched: len(matches),
		Reference:    reference,
		Threshold:    threshold,
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	result.Matches = matches
	result.Returned = len(matches)
	return result, nil
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

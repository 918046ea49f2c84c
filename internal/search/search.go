// Package search implements multi-mode title search over day indexes.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/analytics"
	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/logging"
	"github.com/ngxdduong/TrendRadar/internal/text"
)

// Mode selects the matching strategy for one search call.
type Mode string

const (
	// ModeKeyword matches by case-insensitive substring containment.
	ModeKeyword Mode = "keyword"
	// ModeFuzzy chains substring, similarity and token-overlap matching.
	ModeFuzzy Mode = "fuzzy"
	// ModeEntity matches by case-sensitive substring containment,
	// intended for proper nouns.
	ModeEntity Mode = "entity"
)

// Sort selects the result ordering.
type Sort string

const (
	SortRelevance Sort = "relevance"
	SortWeight    Sort = "weight"
	SortDate      Sort = "date"
)

// DefaultLimit bounds results when the caller does not pick a limit.
const DefaultLimit = 50

// DefaultFuzzyThreshold is the similarity cutoff for fuzzy mode.
const DefaultFuzzyThreshold = 0.6

// Match is one title matched by a search.
type Match struct {
	Title        string  `json:"title"`
	Platform     string  `json:"platform"`
	PlatformName string  `json:"platform_name"`
	Date         string  `json:"date"`
	Score        float64 `json:"similarity_score"`
	Ranks        []int   `json:"ranks"`
	Count        int     `json:"count"`
	Rank         int     `json:"rank"`
	URL          string  `json:"url,omitempty"`
	MobileURL    string  `json:"mobileUrl,omitempty"`
}

// Request describes one unified search call. Zero Start/End mean "the latest
// day with data".
type Request struct {
	Query      string
	Mode       Mode
	Start, End time.Time
	Platforms  []string
	Limit      int
	SortBy     Sort
	Threshold  float64
	IncludeURL bool
}

// Result is a search outcome. A search that matched nothing is still a
// success: Matches is empty and Message explains the miss, distinct from the
// DataNotFound error raised when no corpus exists at all.
type Result struct {
	Matches      []Match `json:"results"`
	TotalMatched int     `json:"total_found"`
	Returned     int     `json:"returned_count"`
	Query        string  `json:"query"`
	Mode         Mode    `json:"search_mode"`
	SortBy       Sort    `json:"sort_by"`
	TimeRange    string  `json:"time_range"`
	Threshold    float64 `json:"threshold,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// Engine runs searches against the day index service.
type Engine struct {
	index    *index.Service
	resolver *dates.Resolver
	weights  config.WeightConfig
	logger   *logging.Logger
}

// NewEngine returns a search Engine.
func NewEngine(idx *index.Service, resolver *dates.Resolver, weights config.WeightConfig, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{index: idx, resolver: resolver, weights: weights, logger: logger}
}

func validateMode(m Mode) error {
	switch m {
	case ModeKeyword, ModeFuzzy, ModeEntity:
		return nil
	}
	return errors.New(errors.InvalidParameter,
		fmt.Sprintf("unknown search mode %q", m),
		"use one of: keyword, fuzzy, entity")
}

func validateSort(s Sort) error {
	switch s {
	case SortRelevance, SortWeight, SortDate:
		return nil
	}
	return errors.New(errors.InvalidParameter,
		fmt.Sprintf("unknown sort order %q", s),
		"use one of: relevance, weight, date")
}

// clampThreshold forces t into [0, 1].
func clampThreshold(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Search runs one unified search over the requested date range.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.InvalidParameter,
			"query must not be empty", "provide a keyword, phrase or entity name")
	}
	if req.Mode == "" {
		req.Mode = ModeKeyword
	}
	if err := validateMode(req.Mode); err != nil {
		return nil, err
	}
	if req.SortBy == "" {
		req.SortBy = SortRelevance
	}
	if err := validateSort(req.SortBy); err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Threshold == 0 {
		req.Threshold = DefaultFuzzyThreshold
	}
	req.Threshold = clampThreshold(req.Threshold)

	start, end := req.Start, req.End
	if start.IsZero() || end.IsZero() {
		_, latest, _, err := e.index.AvailableDateRange()
		if err != nil {
			return nil, err
		}
		start, end = latest, latest
	}

	days, err := e.index.ScanRange(ctx, start, end, req.Platforms)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, day := range days {
		if day.Index == nil {
			continue
		}
		matches = append(matches, e.matchDay(req, day)...)
	}

	result := &Result{
		Query:     req.Query,
		Mode:      req.Mode,
		SortBy:    req.SortBy,
		TimeRange: e.describeRange(start, end),
	}
	if req.Mode == ModeFuzzy {
		result.Threshold = req.Threshold
	}

	if len(matches) == 0 {
		result.Message = fmt.Sprintf("no news matched %q in %s", req.Query, result.TimeRange)
		if earliest, latest, _, err := e.index.AvailableDateRange(); err == nil {
			result.Message += fmt.Sprintf(" (available data: %s to %s)",
				earliest.Format("2006-01-02"), latest.Format("2006-01-02"))
		}
		return result, nil
	}

	e.sortMatches(matches, req.SortBy)

	result.TotalMatched = len(matches)
	if len(matches) > req.Limit {
		matches = matches[:req.Limit]
	}
	result.Matches = matches
	result.Returned = len(matches)
	return result, nil
}

// matchDay applies the mode's matcher to every title of one day index,
// iterating platforms and titles in sorted order so ties keep a stable,
// reproducible order.
func (e *Engine) matchDay(req Request, day index.DayResult) []Match {
	var matches []Match
	queryLower := strings.ToLower(req.Query)
	queryTokens := text.TokenSet(req.Query)
	dateStr := day.Date.Format("2006-01-02")

	for _, platformID := range sortedKeys(day.Index.TitlesByPlatform) {
		titles := day.Index.TitlesByPlatform[platformID]
		platformName := day.Index.PlatformName(platformID)

		for _, title := range sortedKeys(titles) {
			matched, score := false, 0.0
			switch req.Mode {
			case ModeKeyword:
				matched = strings.Contains(strings.ToLower(title), queryLower)
				score = 1.0
			case ModeEntity:
				matched = strings.Contains(title, req.Query)
				score = 1.0
			case ModeFuzzy:
				matched, score = fuzzyMatch(req.Query, queryLower, queryTokens, title, req.Threshold)
			}
			if !matched {
				continue
			}

			rec := titles[title]
			m := Match{
				Title:        title,
				Platform:     platformID,
				PlatformName: platformName,
				Date:         dateStr,
				Score:        score,
				Ranks:        rec.Ranks,
				Count:        rec.Count(),
				Rank:         rec.FirstRank(),
			}
			if req.IncludeURL {
				m.URL = rec.URL
				m.MobileURL = rec.MobileURL
			}
			matches = append(matches, m)
		}
	}
	return matches
}

// fuzzyMatch chains the three fuzzy acceptance rules: substring containment
// scores 1, then alignment similarity against threshold, then token overlap
// against the fixed 0.5 floor.
func fuzzyMatch(query, queryLower string, queryTokens map[string]bool, title string, threshold float64) (bool, float64) {
	if strings.Contains(strings.ToLower(title), queryLower) {
		return true, 1.0
	}

	similarity := text.Similarity(query, title)
	if similarity >= threshold {
		return true, similarity
	}

	titleTokens := text.TokenSet(title)
	if overlap := text.Overlap(queryTokens, titleTokens); overlap >= 0.5 {
		return true, overlap
	}

	return false, similarity
}

func (e *Engine) sortMatches(matches []Match, by Sort) {
	switch by {
	case SortWeight:
		sort.SliceStable(matches, func(i, j int) bool {
			return analytics.Weight(matches[i].Ranks, e.weights) > analytics.Weight(matches[j].Ranks, e.weights)
		})
	case SortDate:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Date > matches[j].Date
		})
	default:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	}
}

func (e *Engine) describeRange(start, end time.Time) string {
	today := e.resolver.Today()
	sameDay := start.Equal(end)
	if sameDay && start.Equal(today) {
		return "today"
	}
	if sameDay {
		return start.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

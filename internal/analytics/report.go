package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/text"
)

// Report types.
const (
	ReportDaily  = "daily"
	ReportWeekly = "weekly"
)

// ReportResult is a generated markdown digest of a date range.
type ReportResult struct {
	ID          string `json:"report_id"`
	Type        string `json:"report_type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Markdown    string `json:"markdown_report"`
	TotalNews   int    `json:"total_news"`
	Platforms   int    `json:"platforms"`
	Keywords    int    `json:"keywords"`
	GeneratedAt string `json:"generated_at"`
}

// SummaryReport renders a markdown digest of the range: volume overview, top
// keywords, platform activity and a weight-ranked news sample. The daily
// type covers today, weekly the last seven days; explicit bounds override
// both.
func (e *Engine) SummaryReport(ctx context.Context, reportType string, start, end time.Time) (*ReportResult, error) {
	switch reportType {
	case "":
		reportType = ReportDaily
	case ReportDaily, ReportWeekly:
	default:
		return nil, errors.New(errors.InvalidParameter,
			fmt.Sprintf("unknown report type %q", reportType),
			"use one of: daily, weekly")
	}

	if start.IsZero() || end.IsZero() {
		end = e.resolver.Today()
		start = end
		if reportType == ReportWeekly {
			start = end.AddDate(0, 0, -6)
		}
	}

	days, err := e.index.ScanRange(ctx, start, end, nil)
	if err != nil {
		return nil, err
	}

	keywords := make(map[string]int)
	platformNews := make(map[string]int)
	type sampleNews struct {
		title    string
		platform string
		weight   float64
	}
	var samples []sampleNews
	totalNews := 0

	for _, day := range days {
		if day.Index == nil {
			continue
		}
		for _, platformID := range sortedPlatforms(day.Index) {
			titles := day.Index.TitlesByPlatform[platformID]
			platformName := day.Index.PlatformName(platformID)
			platformNews[platformName] += len(titles)
			for _, title := range sortedTitles(titles) {
				totalNews++
				for _, kw := range text.Tokenize(title) {
					keywords[kw]++
				}
				samples = append(samples, sampleNews{
					title:    title,
					platform: platformName,
					weight:   Weight(titles[title].Ranks, e.weights),
				})
			}
		}
	}

	dateStr := start.Format("2006-01-02")
	if !start.Equal(end) {
		dateStr = fmt.Sprintf("%s to %s", dateStr, end.Format("2006-01-02"))
	}

	titleWord := "Daily"
	if reportType == ReportWeekly {
		titleWord = "Weekly"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Trending News Digest\n\n", titleWord)
	fmt.Fprintf(&b, "**Date**: %s\n\n---\n\n", dateStr)
	fmt.Fprintf(&b, "## Overview\n\n")
	fmt.Fprintf(&b, "- Total news: %d\n", totalNews)
	fmt.Fprintf(&b, "- Platforms covered: %d\n", len(platformNews))
	fmt.Fprintf(&b, "- Distinct keywords: %d\n", len(keywords))

	b.WriteString("\n## Top 10 Keywords\n\n")
	for i, kc := range topKeywords(keywords, 10) {
		fmt.Fprintf(&b, "%d. **%s** - %d mentions\n", i+1, kc.Keyword, kc.Count)
	}

	b.WriteString("\n## Platform Activity\n\n")
	type pc struct {
		name  string
		count int
	}
	platforms := make([]pc, 0, len(platformNews))
	for name, count := range platformNews {
		platforms = append(platforms, pc{name, count})
	}
	sort.SliceStable(platforms, func(i, j int) bool {
		if platforms[i].count != platforms[j].count {
			return platforms[i].count > platforms[j].count
		}
		return platforms[i].name < platforms[j].name
	})
	for _, p := range platforms {
		fmt.Fprintf(&b, "- **%s**: %d news\n", p.name, p.count)
	}

	b.WriteString("\n## Highlighted News\n\n")
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].weight != samples[j].weight {
			return samples[i].weight > samples[j].weight
		}
		return samples[i].title < samples[j].title
	})
	for i, s := range samples {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s (%s)\n", s.title, s.platform)
	}

	return &ReportResult{
		ID:          uuid.NewString(),
		Type:        reportType,
		Start:       start.Format("2006-01-02"),
		End:         end.Format("2006-01-02"),
		Markdown:    b.String(),
		TotalNews:   totalNews,
		Platforms:   len(platformNews),
		Keywords:    len(keywords),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

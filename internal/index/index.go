// Package index serves merged per-day corpus views with freshness-window
// caching.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/logging"
)

// Service resolves calendar dates to merged DayIndex views. Results are
// cached with a short window for the current day, which a crawl may still be
// appending to, and a longer window for historical days.
type Service struct {
	dataDir string
	parser  *corpus.Parser
	cache   *cache.Store
	clock   func() time.Time
	logger  *logging.Logger

	todayWindow      time.Duration
	historicalWindow time.Duration
}

// Options tunes a Service beyond its required collaborators.
type Options struct {
	TodayWindow      time.Duration
	HistoricalWindow time.Duration
	Clock            func() time.Time
	Logger           *logging.Logger
}

// NewService returns a Service reading day folders under dataDir.
func NewService(dataDir string, parser *corpus.Parser, store *cache.Store, opts Options) *Service {
	if opts.TodayWindow <= 0 {
		opts.TodayWindow = cache.TodayWindow
	}
	if opts.HistoricalWindow <= 0 {
		opts.HistoricalWindow = cache.HistoricalWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Service{
		dataDir:          dataDir,
		parser:           parser,
		cache:            store,
		clock:            opts.Clock,
		logger:           opts.Logger,
		todayWindow:      opts.TodayWindow,
		historicalWindow: opts.HistoricalWindow,
	}
}

// DayDir returns the snapshot directory for date.
func (s *Service) DayDir(date time.Time) string {
	return filepath.Join(s.dataDir, dates.FolderName(date), "txt")
}

// cacheKey fully encodes the query scope: the same date read with and
// without a platform filter must never share an entry, because the allowed
// age is chosen by the reader, not stored with the value.
func cacheKey(date time.Time, platformFilter []string) string {
	platforms := "all"
	if len(platformFilter) > 0 {
		sorted := append([]string(nil), platformFilter...)
		sort.Strings(sorted)
		platforms = strings.Join(sorted, ",")
	}
	return fmt.Sprintf("day:%s:%s", dates.FolderName(date), platforms)
}

// window picks the freshness window for date: short for the current day,
// long for immutable history.
func (s *Service) window(date time.Time) time.Duration {
	now := s.clock()
	if date.Year() == now.Year() && date.YearDay() == now.YearDay() {
		return s.todayWindow
	}
	return s.historicalWindow
}

// GetDayIndex returns the merged index for date, restricted to the platforms
// in platformFilter when non-empty. Fails with DataNotFound when the day has
// no data, or none matching the filter.
func (s *Service) GetDayIndex(date time.Time, platformFilter []string) (*corpus.DayIndex, error) {
	key := cacheKey(date, platformFilter)
	if v, ok := s.cache.Get(key, s.window(date)); ok {
		return v.(*corpus.DayIndex), nil
	}

	merged, err := s.parser.MergeDayFiles(s.DayDir(date), date)
	if err != nil {
		return nil, err
	}

	filtered := applyFilter(merged, platformFilter)
	if filtered.TitleCount() == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no data for %s on the requested platforms", dates.FolderName(date)),
			"check the platform ids against the configured registry")
	}

	s.cache.Set(key, filtered)
	s.logger.Debug("day index built", map[string]interface{}{
		"date":      dates.FolderName(date),
		"platforms": len(filtered.TitlesByPlatform),
		"titles":    filtered.TitleCount(),
	})
	return filtered, nil
}

func applyFilter(index *corpus.DayIndex, platformFilter []string) *corpus.DayIndex {
	if len(platformFilter) == 0 {
		return index
	}
	keep := make(map[string]bool, len(platformFilter))
	for _, id := range platformFilter {
		keep[id] = true
	}
	filtered := &corpus.DayIndex{
		Date:             index.Date,
		TitlesByPlatform: make(map[string]map[string]*corpus.TitleRecord),
		IDToName:         make(map[string]string),
		FileTimestamps:   index.FileTimestamps,
	}
	for id, titles := range index.TitlesByPlatform {
		if keep[id] {
			filtered.TitlesByPlatform[id] = titles
		}
	}
	for id, name := range index.IDToName {
		if keep[id] {
			filtered.IDToName[id] = name
		}
	}
	return filtered
}

// DayResult is one day of a range scan. Index is nil when the day had no
// data; range analytics treat that as a zero contribution, not a failure.
type DayResult struct {
	Date  time.Time
	Index *corpus.DayIndex
}

// ScanRange walks [start, end] inclusive, one calendar day at a time, and
// returns the per-day indexes. Days without data yield a nil Index. Errors
// other than missing data abort the scan, as does context cancellation.
func (s *Service) ScanRange(ctx context.Context, start, end time.Time, platformFilter []string) ([]DayResult, error) {
	if end.Before(start) {
		return nil, errors.New(errors.InvalidParameter,
			"end date is before start date", "swap the range bounds")
	}

	var results []DayResult
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx, err := s.GetDayIndex(d, platformFilter)
		if err != nil {
			if errors.IsDataNotFound(err) {
				results = append(results, DayResult{Date: d})
				continue
			}
			return nil, err
		}
		results = append(results, DayResult{Date: d, Index: idx})
	}
	return results, nil
}

// AvailableDateRange reports the earliest and latest day folders present
// under the data directory and how many there are.
func (s *Service) AvailableDateRange() (earliest, latest time.Time, count int, err error) {
	entries, readErr := os.ReadDir(s.dataDir)
	if readErr != nil {
		err = errors.New(errors.DataNotFound,
			"data directory does not exist", "run the crawler at least once")
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		date, ok := dates.ParseFolderName(e.Name())
		if !ok {
			continue
		}
		count++
		if earliest.IsZero() || date.Before(earliest) {
			earliest = date
		}
		if date.After(latest) {
			latest = date
		}
	}

	if count == 0 {
		err = errors.New(errors.DataNotFound,
			"no day folders found", "run the crawler at least once")
	}
	return
}

// InvalidateDay drops every cached view of date, regardless of platform
// filter. The file watcher calls this when a snapshot file changes.
func (s *Service) InvalidateDay(date time.Time) int {
	return s.cache.DeletePrefix("day:" + dates.FolderName(date) + ":")
}

// Package status assembles the system health summary.
package status

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/storage"
	"github.com/ngxdduong/TrendRadar/internal/version"
)

// Result is the system status snapshot.
type Result struct {
	Version       string                       `json:"version"`
	DataDir       string                       `json:"data_dir"`
	DataAvailable bool                         `json:"data_available"`
	EarliestDate  string                       `json:"earliest_date,omitempty"`
	LatestDate    string                       `json:"latest_date,omitempty"`
	TotalDays     int                          `json:"total_days"`
	StorageBytes  int64                        `json:"storage_bytes"`
	Platforms     int                          `json:"configured_platforms"`
	Cache         cache.Stats                  `json:"cache"`
	Metrics       []storage.OperationAggregate `json:"metrics,omitempty"`
	GeneratedAt   string                       `json:"generated_at"`
}

// Collector gathers the status snapshot from the running components.
type Collector struct {
	dataDir string
	service *index.Service
	store   *cache.Store
	cfg     *config.Config
	metrics *storage.DB
}

// NewCollector returns a Collector. metrics may be nil when the metrics
// store is disabled.
func NewCollector(dataDir string, service *index.Service, store *cache.Store, cfg *config.Config, metrics *storage.DB) *Collector {
	return &Collector{
		dataDir: dataDir,
		service: service,
		store:   store,
		cfg:     cfg,
		metrics: metrics,
	}
}

// Collect builds the status snapshot. A missing corpus is reported, not an
// error; only the metrics store can fail the call.
func (c *Collector) Collect() (*Result, error) {
	result := &Result{
		Version:     version.Info(),
		DataDir:     c.dataDir,
		Platforms:   len(c.cfg.Platforms),
		Cache:       c.store.GetStats(),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	earliest, latest, count, err := c.service.AvailableDateRange()
	switch {
	case err == nil:
		result.DataAvailable = true
		result.EarliestDate = earliest.Format("2006-01-02")
		result.LatestDate = latest.Format("2006-01-02")
		result.TotalDays = count
		result.StorageBytes = dirSize(c.dataDir)
	case errors.IsDataNotFound(err):
		// No corpus yet.
	default:
		return nil, err
	}

	if c.metrics != nil {
		aggs, err := c.metrics.Aggregates(time.Now().Add(-24 * time.Hour))
		if err != nil {
			return nil, errors.Wrap(errors.InternalError,
				"cannot read operation metrics", "check the metrics database file", err)
		}
		result.Metrics = aggs
	}

	return result, nil
}

// dirSize sums file sizes under root. Unreadable entries are skipped.
func dirSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

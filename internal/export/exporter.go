// Package export writes day indexes out as gzip-compressed JSON archives.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/logging"
)

// TitleExport is one title row in an archive.
type TitleExport struct {
	Title     string  `json:"title"`
	Ranks     []int   `json:"ranks"`
	Count     int     `json:"count"`
	AvgRank   float64 `json:"avg_rank"`
	URL       string  `json:"url,omitempty"`
	MobileURL string  `json:"mobileUrl,omitempty"`
}

// PlatformExport groups one platform's titles.
type PlatformExport struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Titles []TitleExport `json:"titles"`
}

// DayExport is the archive payload for one day.
type DayExport struct {
	Date        string           `json:"date"`
	Platforms   []PlatformExport `json:"platforms"`
	TotalTitles int              `json:"total_titles"`
	GeneratedAt string           `json:"generated_at"`
}

// Manifest describes one export run.
type Manifest struct {
	ID          string   `json:"export_id"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Files       []string `json:"files"`
	DaysMissing []string `json:"days_missing,omitempty"`
	TotalTitles int      `json:"total_titles"`
	GeneratedAt string   `json:"generated_at"`
}

// Exporter writes corpus days to an output directory.
type Exporter struct {
	index  *index.Service
	logger *logging.Logger
}

// NewExporter returns an Exporter reading through the day-index service.
func NewExporter(idx *index.Service, logger *logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{index: idx, logger: logger}
}

// ExportRange archives every day of [start, end] into outDir, one
// <folder>.json.gz per day plus a manifest.json. Missing days are listed in
// the manifest; a range with no data at all is a DataNotFound error.
func (e *Exporter) ExportRange(ctx context.Context, start, end time.Time, platforms []string, outDir string) (*Manifest, error) {
	days, err := e.index.ScanRange(ctx, start, end, platforms)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.InternalError,
			fmt.Sprintf("cannot create export directory %s", outDir),
			"check the output path and its permissions", err)
	}

	manifest := &Manifest{
		ID:          uuid.NewString(),
		Start:       start.Format("2006-01-02"),
		End:         end.Format("2006-01-02"),
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	for _, day := range days {
		if day.Index == nil {
			manifest.DaysMissing = append(manifest.DaysMissing, day.Date.Format("2006-01-02"))
			continue
		}
		name := dates.FolderName(day.Date) + ".json.gz"
		payload := buildDayExport(day.Index)
		if err := writeGzipJSON(filepath.Join(outDir, name), payload); err != nil {
			return nil, err
		}
		manifest.Files = append(manifest.Files, name)
		manifest.TotalTitles += payload.TotalTitles

		e.logger.Debug("exported day", map[string]interface{}{
			"file":   name,
			"titles": payload.TotalTitles,
		})
	}

	if len(manifest.Files) == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no data between %s and %s", manifest.Start, manifest.End),
			"widen the date range or check the data directory")
	}

	manifestPath := filepath.Join(outDir, "manifest.json")
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.InternalError, "cannot encode manifest", "", err)
	}
	if err := os.WriteFile(manifestPath, raw, 0o644); err != nil {
		return nil, errors.Wrap(errors.InternalError,
			fmt.Sprintf("cannot write manifest %s", manifestPath),
			"check the output path and its permissions", err)
	}

	e.logger.Info("export finished", map[string]interface{}{
		"exportId": manifest.ID,
		"files":    len(manifest.Files),
		"titles":   manifest.TotalTitles,
	})
	return manifest, nil
}

// ReadDayExport loads one archive back, for verification and tooling.
func ReadDayExport(path string) (*DayExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.DataNotFound,
			fmt.Sprintf("cannot open archive %s", path),
			"check the archive path", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(errors.ParseError,
			fmt.Sprintf("archive %s is not gzip data", path), "", err)
	}
	defer zr.Close()

	var payload DayExport
	if err := json.NewDecoder(zr).Decode(&payload); err != nil {
		return nil, errors.Wrap(errors.ParseError,
			fmt.Sprintf("archive %s holds invalid JSON", path), "", err)
	}
	return &payload, nil
}

func buildDayExport(idx *corpus.DayIndex) *DayExport {
	payload := &DayExport{
		Date:        idx.Date.Format("2006-01-02"),
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	platformIDs := make([]string, 0, len(idx.TitlesByPlatform))
	for id := range idx.TitlesByPlatform {
		platformIDs = append(platformIDs, id)
	}
	sort.Strings(platformIDs)

	for _, id := range platformIDs {
		titles := idx.TitlesByPlatform[id]
		pe := PlatformExport{ID: id, Name: idx.PlatformName(id)}

		names := make([]string, 0, len(titles))
		for title := range titles {
			names = append(names, title)
		}
		sort.Strings(names)

		for _, title := range names {
			rec := titles[title]
			pe.Titles = append(pe.Titles, TitleExport{
				Title:     title,
				Ranks:     rec.Ranks,
				Count:     rec.Count(),
				AvgRank:   rec.AvgRank(),
				URL:       rec.URL,
				MobileURL: rec.MobileURL,
			})
		}
		payload.TotalTitles += len(pe.Titles)
		payload.Platforms = append(payload.Platforms, pe)
	}
	return payload
}

func writeGzipJSON(path string, payload *DayExport) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.InternalError,
			fmt.Sprintf("cannot create archive %s", path),
			"check the output path and its permissions", err)
	}

	zw := gzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		zw.Close()
		f.Close()
		return errors.Wrap(errors.InternalError,
			fmt.Sprintf("cannot encode archive %s", path), "", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return errors.Wrap(errors.InternalError,
			fmt.Sprintf("cannot finish archive %s", path), "", err)
	}
	return f.Close()
}

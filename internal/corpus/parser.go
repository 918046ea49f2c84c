package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/logging"
)

// failedSectionMarker labels the trailing section of a snapshot file that
// lists platform ids whose fetch failed. It carries no title data.
const failedSectionMarker = "==== 以下ID请求失败 ===="

var whitespaceRe = regexp.MustCompile(`\s+`)

// Parser reads snapshot text files into per-platform title maps.
type Parser struct {
	logger *logging.Logger
}

// NewParser returns a Parser that logs per-file faults through logger.
func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Parser{logger: logger}
}

// CleanTitle collapses runs of whitespace and trims the result.
func CleanTitle(title string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
}

// ParseSnapshotFile parses one snapshot file into titles keyed by platform id
// plus the id to display name mapping declared in section headers.
//
// A snapshot file is a sequence of sections separated by blank lines. The
// first line of a section is either "id | displayName" or a bare id; the
// remaining lines are titles, optionally prefixed with "N. " for the rank and
// suffixed with " [URL:...]" and " [MOBILE:...]" tags. Faults on individual
// title lines are skipped; a missing or unreadable file is a parse error.
func (p *Parser) ParseSnapshotFile(path string) (map[string]map[string]*TitleRecord, map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ParseError,
			fmt.Sprintf("cannot read snapshot file %s", path),
			"check that the file exists and is readable", err)
	}

	titlesByPlatform := make(map[string]map[string]*TitleRecord)
	idToName := make(map[string]string)

	content := strings.ReplaceAll(string(raw), "\r\n", "\n")
	for _, section := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(section) == "" || strings.Contains(section, failedSectionMarker) {
			continue
		}

		lines := strings.Split(strings.TrimSpace(section), "\n")
		if len(lines) < 2 {
			continue
		}

		header := strings.TrimSpace(lines[0])
		var platformID string
		if before, after, found := strings.Cut(header, " | "); found {
			platformID = strings.TrimSpace(before)
			idToName[platformID] = strings.TrimSpace(after)
		} else {
			platformID = header
			idToName[platformID] = platformID
		}

		titles := make(map[string]*TitleRecord)
		titlesByPlatform[platformID] = titles

		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			title, rec := parseTitleLine(line)
			if title == "" {
				p.logger.Debug("skipping unparseable title line", map[string]interface{}{
					"file": filepath.Base(path),
					"line": line,
				})
				continue
			}
			titles[title] = rec
		}
	}

	return titlesByPlatform, idToName, nil
}

// parseTitleLine splits one title line into the cleaned title and its record.
// Tag order matters: the MOBILE tag is always the rightmost suffix, so it is
// stripped before the URL tag.
func parseTitleLine(line string) (string, *TitleRecord) {
	rank := 1
	if before, after, found := strings.Cut(line, ". "); found {
		if n, err := strconv.Atoi(before); err == nil {
			rank = n
			line = after
		}
	}

	mobileURL := ""
	if i := strings.LastIndex(line, " [MOBILE:"); i >= 0 {
		tag := line[i+len(" [MOBILE:"):]
		if strings.HasSuffix(tag, "]") {
			mobileURL = tag[:len(tag)-1]
			line = line[:i]
		}
	}

	url := ""
	if i := strings.LastIndex(line, " [URL:"); i >= 0 {
		tag := line[i+len(" [URL:"):]
		if strings.HasSuffix(tag, "]") {
			url = tag[:len(tag)-1]
			line = line[:i]
		}
	}

	title := CleanTitle(line)
	if title == "" {
		return "", nil
	}
	return title, &TitleRecord{Ranks: []int{rank}, URL: url, MobileURL: mobileURL}
}

// MergeDayFiles parses every *.txt snapshot under dir in ascending filename
// order and merges them into a single DayIndex for date. Rank lists for the
// same (platform, title) pair are concatenated in file order; display names
// keep the first observed value. Files that fail to parse are logged and
// skipped. Returns DataNotFound when dir is absent or yields no titles.
func (p *Parser) MergeDayFiles(dir string, date time.Time) (*DayIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no data directory for %s", date.Format("2006-01-02")),
			"run the crawler first or check the date").
			WithDetails(map[string]interface{}{"dir": dir})
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no snapshot files for %s", date.Format("2006-01-02")),
			"wait for the crawler run to finish")
	}

	index := &DayIndex{
		Date:             date,
		TitlesByPlatform: make(map[string]map[string]*TitleRecord),
		IDToName:         make(map[string]string),
		FileTimestamps:   make(map[string]time.Time),
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		titlesByPlatform, idToName, err := p.ParseSnapshotFile(path)
		if err != nil {
			p.logger.Warn("skipping unparseable snapshot file", map[string]interface{}{
				"file":  path,
				"error": err.Error(),
			})
			continue
		}

		for id, displayName := range idToName {
			if _, ok := index.IDToName[id]; !ok {
				index.IDToName[id] = displayName
			}
		}

		for platformID, titles := range titlesByPlatform {
			merged, ok := index.TitlesByPlatform[platformID]
			if !ok {
				merged = make(map[string]*TitleRecord)
				index.TitlesByPlatform[platformID] = merged
			}
			for title, rec := range titles {
				if existing, ok := merged[title]; ok {
					existing.Ranks = append(existing.Ranks, rec.Ranks...)
					if existing.URL == "" {
						existing.URL = rec.URL
					}
					if existing.MobileURL == "" {
						existing.MobileURL = rec.MobileURL
					}
				} else {
					merged[title] = &TitleRecord{
						Ranks:     append([]int(nil), rec.Ranks...),
						URL:       rec.URL,
						MobileURL: rec.MobileURL,
					}
				}
			}
		}

		if info, err := os.Stat(path); err == nil {
			index.FileTimestamps[name] = info.ModTime()
		}
	}

	if index.TitleCount() == 0 {
		return nil, errors.New(errors.DataNotFound,
			fmt.Sprintf("no valid data for %s", date.Format("2006-01-02")),
			"check the snapshot file format")
	}

	return index, nil
}

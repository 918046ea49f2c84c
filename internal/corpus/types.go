package corpus

import "time"

// TitleRecord aggregates one title's appearances on one platform within a day.
// Ranks holds every observed position in file read order, never deduplicated:
// the same title seen at rank 3 and later rank 3 again legitimately records
// [3, 3], which is what the frequency and hotness scores are built on.
type TitleRecord struct {
	Ranks     []int  `json:"ranks"`
	URL       string `json:"url,omitempty"`
	MobileURL string `json:"mobileUrl,omitempty"`
}

// Count returns how many times the title was observed.
func (r *TitleRecord) Count() int {
	return len(r.Ranks)
}

// FirstRank returns the earliest observed rank, or 0 when none exists.
func (r *TitleRecord) FirstRank() int {
	if len(r.Ranks) == 0 {
		return 0
	}
	return r.Ranks[0]
}

// AvgRank returns the mean of all observed ranks.
func (r *TitleRecord) AvgRank() float64 {
	if len(r.Ranks) == 0 {
		return 0
	}
	sum := 0
	for _, rank := range r.Ranks {
		sum += rank
	}
	return float64(sum) / float64(len(r.Ranks))
}

// DayIndex is the merged view of every snapshot file for one calendar date.
// Once built it is never mutated, only replaced wholesale in the cache, so
// concurrent readers may share one instance without locking.
type DayIndex struct {
	Date             time.Time                          `json:"date"`
	TitlesByPlatform map[string]map[string]*TitleRecord `json:"titlesByPlatform"`
	IDToName         map[string]string                  `json:"idToName"`
	FileTimestamps   map[string]time.Time               `json:"fileTimestamps"`
}

// PlatformName returns the display name for a platform id, falling back to
// the id itself.
func (d *DayIndex) PlatformName(id string) string {
	if name, ok := d.IDToName[id]; ok {
		return name
	}
	return id
}

// TitleCount returns the number of distinct titles across all platforms.
func (d *DayIndex) TitleCount() int {
	n := 0
	for _, titles := range d.TitlesByPlatform {
		n += len(titles)
	}
	return n
}

// LatestFileTime returns the modification time of the newest snapshot file,
// or the zero time when the index holds no files.
func (d *DayIndex) LatestFileTime() time.Time {
	var latest time.Time
	for _, ts := range d.FileTimestamps {
		if ts.After(latest) {
			latest = ts
		}
	}
	return latest
}

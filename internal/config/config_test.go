package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Weight.RankWeight != 0.6 || cfg.Weight.FrequencyWeight != 0.3 || cfg.Weight.HotnessWeight != 0.1 {
		t.Errorf("default weights = %+v", cfg.Weight)
	}
	if cfg.Cache.TodayTTLSeconds != 900 {
		t.Errorf("default today ttl = %d", cfg.Cache.TodayTTLSeconds)
	}
	if cfg.DataDir != "output" {
		t.Errorf("default data dir = %q", cfg.DataDir)
	}
}

func TestLoadYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
platforms:
  - id: zhihu
    name: 知乎
  - id: weibo
    name: 微博
crawler:
  enable_crawler: false
  request_interval: 5
weight:
  rank_weight: 0.5
  frequency_weight: 0.4
  hotness_weight: 0.1
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(root, "config", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.PlatformIDs(), []string{"zhihu", "weibo"}) {
		t.Errorf("platform ids = %v", cfg.PlatformIDs())
	}
	if cfg.PlatformNames()["weibo"] != "微博" {
		t.Errorf("platform names = %v", cfg.PlatformNames())
	}
	if cfg.Crawler.EnableCrawler {
		t.Error("enable_crawler should be overridden to false")
	}
	if cfg.Crawler.RetryTimes != 3 {
		t.Errorf("unset retry_times should keep default, got %d", cfg.Crawler.RetryTimes)
	}
	if cfg.Weight.RankWeight != 0.5 {
		t.Errorf("rank weight = %v", cfg.Weight.RankWeight)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestParseFrequencyWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frequency_words.txt")
	content := `# comment line
AI+,人工智能|大模型,ChatGPT
股市|基金!

新能源
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	groups, err := ParseFrequencyWords(path)
	if err != nil {
		t.Fatalf("ParseFrequencyWords: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}

	g := groups[0]
	if !reflect.DeepEqual(g.Required, []string{"AI"}) {
		t.Errorf("required = %v", g.Required)
	}
	if !reflect.DeepEqual(g.Normal, []string{"人工智能", "大模型", "ChatGPT"}) {
		t.Errorf("normal = %v", g.Normal)
	}

	if !reflect.DeepEqual(groups[1].FilterWords, []string{"基金"}) {
		t.Errorf("filter words = %v", groups[1].FilterWords)
	}
	if !reflect.DeepEqual(groups[2].Normal, []string{"新能源"}) {
		t.Errorf("plain group = %v", groups[2])
	}
}

func TestParseFrequencyWordsMissingFile(t *testing.T) {
	groups, err := ParseFrequencyWords(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if groups != nil {
		t.Errorf("groups = %v, want nil", groups)
	}
}

func TestWordGroupMatches(t *testing.T) {
	tests := []struct {
		name  string
		group WordGroup
		title string
		want  bool
	}{
		{"required present", WordGroup{Required: []string{"AI"}}, "AI芯片新突破", true},
		{"required absent", WordGroup{Required: []string{"AI"}}, "芯片新突破", false},
		{"filter vetoes", WordGroup{Normal: []string{"股市"}, FilterWords: []string{"广告"}}, "股市广告专区", false},
		{"normal matches", WordGroup{Normal: []string{"股市", "基金"}}, "基金大涨", true},
		{"normal misses", WordGroup{Normal: []string{"股市"}}, "楼市新闻", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.Matches(tt.title); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Platforms = []Platform{{ID: "zhihu", Name: "知乎"}}
	cfg.Notification.Webhooks = map[string]string{"feishu_url": "https://example.com/hook"}
	words := []WordGroup{{Normal: []string{"AI"}}}

	all, err := cfg.Section("", words)
	if err != nil {
		t.Fatalf("Section(all): %v", err)
	}
	for _, key := range []string{"crawler", "push", "keywords", "weights"} {
		if _, ok := all[key]; !ok {
			t.Errorf("all section missing %q", key)
		}
	}

	crawler, err := cfg.Section(SectionCrawler, nil)
	if err != nil {
		t.Fatalf("Section(crawler): %v", err)
	}
	if !reflect.DeepEqual(crawler["platforms"], []string{"zhihu"}) {
		t.Errorf("crawler platforms = %v", crawler["platforms"])
	}

	push, _ := cfg.Section(SectionPush, nil)
	if !reflect.DeepEqual(push["enabled_channels"], []string{"feishu"}) {
		t.Errorf("enabled channels = %v", push["enabled_channels"])
	}

	if _, err := cfg.Section("bogus", nil); !errors.IsInvalidParameter(err) {
		t.Errorf("unknown section: got %v", err)
	}
}

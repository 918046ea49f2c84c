package text

import (
	"math"
	"reflect"
	"sort"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"url stripped", "新能源汽车 https://example.com/x 降价", []string{"新能源汽车", "降价"}},
		{"bracket tag stripped", "标题 [URL:x] 后缀词", []string{"标题", "后缀词"}},
		{"stopwords and short tokens dropped", "我 的 AI ople x 人工智能", []string{"AI", "ople", "人工智能"}},
		{"english stopwords dropped", "the rise of AI models", []string{"rise", "AI", "models"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("特斯拉降价", "特斯拉降价"); got != 1 {
		t.Errorf("identical = %v", got)
	}
	if got := Similarity("ABC", "abc"); got != 1 {
		t.Errorf("case-insensitive = %v", got)
	}
	// One substitution in five runes.
	if got := Similarity("特斯拉降价", "特斯拉涨价"); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("one edit in five = %v, want 0.8", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Errorf("disjoint = %v", got)
	}
	if got := Similarity("", ""); got != 1 {
		t.Errorf("both empty = %v", got)
	}
}

func TestOverlap(t *testing.T) {
	ref := TokenSet("特斯拉 降价 电动车")
	cand := TokenSet("特斯拉 电动车 销量")

	if got := Overlap(ref, cand); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("overlap = %v, want 2/3", got)
	}
	// Asymmetric: reference side sets the denominator.
	if got := Overlap(cand, ref); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("reverse overlap = %v", got)
	}
	if got := Overlap(ref, map[string]bool{}); got != 0 {
		t.Errorf("empty candidate = %v", got)
	}

	shared := SharedTokens(ref, cand)
	sort.Strings(shared)
	if !reflect.DeepEqual(shared, []string{"特斯拉", "电动车"}) {
		t.Errorf("shared = %v", shared)
	}
}

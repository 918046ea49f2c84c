// Package text provides the tokenization and similarity primitives shared by
// search and analytics.
package text

import (
	"regexp"
	"strings"
)

// stopwords excluded from keyword extraction. Mostly function words that
// carry no topical signal.
var stopwords = map[string]bool{
	"的": true, "了": true, "在": true, "是": true, "我": true, "有": true,
	"和": true, "就": true, "不": true, "人": true, "都": true, "一": true,
	"一个": true, "上": true, "也": true, "很": true, "到": true, "说": true,
	"要": true, "去": true, "你": true, "会": true, "着": true, "没有": true,
	"看": true, "好": true, "自己": true, "这": true, "那": true, "来": true,
	"被": true, "与": true, "为": true, "对": true, "将": true, "从": true,
	"以": true, "及": true, "等": true, "但": true, "或": true, "而": true,
	"于": true, "中": true, "由": true, "可": true, "已": true, "已经": true,
	"还": true, "更": true, "最": true, "再": true, "因为": true, "所以": true,
	"如果": true, "虽然": true, "然而": true, "the": true, "a": true, "an": true,
	"of": true, "to": true, "in": true, "is": true, "and": true, "or": true,
	"for": true, "on": true, "at": true, "by": true, "can": true,
}

var (
	urlRe     = regexp.MustCompile(`https?://\S+`)
	bracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	wordRe    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// IsStopword reports whether w is in the stopword set.
func IsStopword(w string) bool {
	return stopwords[w]
}

// Tokenize extracts keywords from s: URLs and bracketed tags are removed,
// word runs are split out, then tokens shorter than two runes and stopwords
// are dropped.
func Tokenize(s string) []string {
	s = urlRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")

	var tokens []string
	for _, w := range wordRe.FindAllString(s, -1) {
		if len([]rune(w)) < 2 || stopwords[w] || stopwords[strings.ToLower(w)] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range Tokenize(s) {
		set[t] = true
	}
	return set
}

// Similarity computes a case-insensitive alignment ratio between a and b in
// [0, 1], based on edit distance over runes: identical strings score 1,
// entirely different strings score near 0.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(ra, rb))/float64(longest)
}

// editDistance is the Levenshtein distance between two rune slices, using a
// rolling single-row table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Overlap returns |shared tokens| / |reference tokens|, the asymmetric
// overlap used by history relevance and fuzzy fallback matching. Returns 0
// when either side has no tokens.
func Overlap(reference, candidate map[string]bool) float64 {
	if len(reference) == 0 || len(candidate) == 0 {
		return 0
	}
	shared := 0
	for t := range reference {
		if candidate[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(reference))
}

// SharedTokens returns the sorted-free list of tokens common to both sets.
func SharedTokens(reference, candidate map[string]bool) []string {
	var shared []string
	for t := range reference {
		if candidate[t] {
			shared = append(shared, t)
		}
	}
	return shared
}

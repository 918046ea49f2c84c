package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// WordGroup is one line of the keyword configuration. Required words must all
// appear for a title to match, normal words broaden the match, and filter
// words veto it.
type WordGroup struct {
	Required    []string `json:"required"`
	Normal      []string `json:"normal"`
	FilterWords []string `json:"filterWords"`
}

// Matches reports whether title satisfies the group: no filter word present,
// every required word present, and at least one normal word present when the
// group has no required words.
func (g WordGroup) Matches(title string) bool {
	for _, w := range g.FilterWords {
		if strings.Contains(title, w) {
			return false
		}
	}
	for _, w := range g.Required {
		if !strings.Contains(title, w) {
			return false
		}
	}
	if len(g.Required) > 0 {
		return true
	}
	for _, w := range g.Normal {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// ParseFrequencyWords reads the keyword file at path. Each non-comment line
// is one group; words are separated by "|" or ",", a trailing "+" marks a
// required word and a trailing "!" a filter word. A missing file is not an
// error, it simply yields no groups.
func ParseFrequencyWords(path string) ([]WordGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ParseError,
			"cannot read frequency words file", "check file permissions", err)
	}
	defer f.Close()

	var groups []WordGroup
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var group WordGroup
		for _, part := range strings.Split(line, "|") {
			for _, word := range strings.Split(part, ",") {
				word = strings.TrimSpace(word)
				if word == "" {
					continue
				}
				switch {
				case strings.HasSuffix(word, "+"):
					group.Required = append(group.Required, strings.TrimSuffix(word, "+"))
				case strings.HasSuffix(word, "!"):
					group.FilterWords = append(group.FilterWords, strings.TrimSuffix(word, "!"))
				default:
					group.Normal = append(group.Normal, word)
				}
			}
		}

		if len(group.Required) > 0 || len(group.Normal) > 0 {
			groups = append(groups, group)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ParseError,
			"cannot read frequency words file", "check the file encoding", err)
	}

	return groups, nil
}

package config

import (
	"fmt"

	"github.com/ngxdduong/TrendRadar/internal/errors"
)

// Config sections exposed to readers.
const (
	SectionAll      = "all"
	SectionCrawler  = "crawler"
	SectionPush     = "push"
	SectionKeywords = "keywords"
	SectionWeights  = "weights"
)

var validSections = map[string]bool{
	SectionAll:      true,
	SectionCrawler:  true,
	SectionPush:     true,
	SectionKeywords: true,
	SectionWeights:  true,
}

// Section projects the readable view of one configuration section. An empty
// section name means "all".
func (c *Config) Section(section string, wordGroups []WordGroup) (map[string]interface{}, error) {
	if section == "" {
		section = SectionAll
	}
	if !validSections[section] {
		return nil, errors.New(errors.InvalidParameter,
			fmt.Sprintf("unknown config section %q", section),
			"use one of: all, crawler, push, keywords, weights")
	}

	crawler := map[string]interface{}{
		"enable_crawler":   c.Crawler.EnableCrawler,
		"use_proxy":        c.Crawler.UseProxy,
		"request_interval": c.Crawler.RequestInterval,
		"retry_times":      c.Crawler.RetryTimes,
		"platforms":        c.PlatformIDs(),
	}

	var channels []string
	for _, name := range []string{"feishu", "dingtalk", "wework"} {
		if c.Notification.Webhooks[name+"_url"] != "" {
			channels = append(channels, name)
		}
	}
	push := map[string]interface{}{
		"enable_notification": c.Notification.EnableNotification,
		"enabled_channels":    channels,
		"message_batch_size":  c.Notification.MessageBatchSize,
		"push_window":         c.Notification.PushWindow,
	}

	keywords := map[string]interface{}{
		"word_groups":  wordGroups,
		"total_groups": len(wordGroups),
	}

	weights := map[string]interface{}{
		"rank_weight":      c.Weight.RankWeight,
		"frequency_weight": c.Weight.FrequencyWeight,
		"hotness_weight":   c.Weight.HotnessWeight,
	}

	switch section {
	case SectionCrawler:
		return crawler, nil
	case SectionPush:
		return push, nil
	case SectionKeywords:
		return keywords, nil
	case SectionWeights:
		return weights, nil
	default:
		return map[string]interface{}{
			"crawler":  crawler,
			"push":     push,
			"keywords": keywords,
			"weights":  weights,
		}, nil
	}
}

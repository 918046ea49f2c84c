package analytics

import "github.com/ngxdduong/TrendRadar/internal/config"

// HighRankThreshold is the rank cutoff counted toward the hotness score.
const HighRankThreshold = 5

// Weight scores a title's importance from its observed ranks, on a 0-100
// scale. Three components are blended: the mean rank prominence (rank 1
// scores 10, rank 10 and beyond score 1 each mapped onto 0-10), the capped
// appearance count, and the share of appearances at or above the high-rank
// threshold.
func Weight(ranks []int, w config.WeightConfig) float64 {
	if len(ranks) == 0 {
		return 0
	}

	rankSum := 0
	highRank := 0
	for _, r := range ranks {
		capped := r
		if capped > 10 {
			capped = 10
		}
		rankSum += 11 - capped
		if r <= HighRankThreshold {
			highRank++
		}
	}
	rankScore := float64(rankSum) / float64(len(ranks))

	count := len(ranks)
	if count > 10 {
		count = 10
	}
	frequencyScore := float64(count * 10)

	hotnessScore := 100 * float64(highRank) / float64(len(ranks))

	return w.RankWeight*rankScore + w.FrequencyWeight*frequencyScore + w.HotnessWeight*hotnessScore
}

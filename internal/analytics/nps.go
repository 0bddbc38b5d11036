package analytics

import (
	"math"

	"surveyanalytics/internal/domains"
)

const (
	npsMin          = 0
	npsMax          = 10
	npsPromoterFrom = 9
	npsPassiveFrom  = 7
)

// analyzeNPS buckets integer answers 0..10 into promoters (9-10), passives
// (7-8) and detractors (0-6). Anything else is malformed, never clamped.
func analyzeNPS(q domains.Question, samples []Sample, _ Options) domains.QuestionAnalytics {
	result := baseResult(q)
	result.Distribution = declaredBuckets(q.Options)

	index := make(map[int]int, len(q.Options))
	for i, opt := range q.Options {
		v, ok := optionNumber(opt)
		if !ok || v != math.Trunc(v) {
			continue
		}
		if _, dup := index[int(v)]; !dup {
			index[int(v)] = i
		}
	}

	stats := &domains.NPSStats{}
	for _, s := range samples {
		v, ok := s.Answer.Number()
		if !ok || v != math.Trunc(v) || v < npsMin || v > npsMax {
			result.Excluded++
			continue
		}
		score := int(v)
		result.Total++
		switch {
		case score >= npsPromoterFrom:
			stats.Promoters++
		case score >= npsPassiveFrom:
			stats.Passives++
		default:
			stats.Detractors++
		}
		if i, ok := index[score]; ok {
			result.Distribution[i].Count++
		}
	}

	fillPercentages(result.Distribution, result.Total)

	if result.Total > 0 {
		total := float64(result.Total)
		promoterPct := float64(stats.Promoters) / total * 100
		detractorPct := float64(stats.Detractors) / total * 100
		stats.PromoterPct = round1(promoterPct)
		stats.PassivePct = round1(float64(stats.Passives) / total * 100)
		stats.DetractorPct = round1(detractorPct)
		stats.NPSScore = int(math.Round(promoterPct - detractorPct))
	}
	result.NPSStats = stats
	return result
}

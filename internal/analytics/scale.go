package analytics

import (
	"math"

	"surveyanalytics/internal/domains"
)

// analyzeScale handles scale and likert_scale questions. Only answers equal to
// a declared numeric option value are counted.
func analyzeScale(q domains.Question, samples []Sample, _ Options) domains.QuestionAnalytics {
	result := baseResult(q)
	result.Distribution = declaredBuckets(q.Options)

	index := make(map[float64]int, len(q.Options))
	maxValue := 0.0
	hasNumeric := false
	for i, opt := range q.Options {
		v, ok := optionNumber(opt)
		if !ok {
			continue
		}
		if _, dup := index[v]; !dup {
			index[v] = i
		}
		if !hasNumeric || v > maxValue {
			maxValue = v
			hasNumeric = true
		}
	}

	var sum float64
	for _, s := range samples {
		v, ok := s.Answer.Number()
		if !ok {
			result.Excluded++
			continue
		}
		i, ok := index[v]
		if !ok {
			result.Excluded++
			continue
		}
		result.Distribution[i].Count++
		result.Total++
		sum += v
	}

	fillPercentages(result.Distribution, result.Total)

	stats := &domains.ScaleStats{}
	if result.Total > 0 {
		stats.Average = round2(sum / float64(result.Total))
		stats.SatisfactionIndex = satisfactionIndex(stats.Average, maxValue)
	}
	result.ScaleStats = stats
	return result
}

func satisfactionIndex(average, maxValue float64) int {
	if maxValue <= 0 {
		return 0
	}
	index := int(math.Round(average / maxValue * 100))
	switch {
	case index < 0:
		return 0
	case index > 100:
		return 100
	default:
		return index
	}
}

package analytics

import "surveyanalytics/internal/domains"

// analyzeChoice counts answers whose string value equals a declared label.
// Matching is exact and case-sensitive.
func analyzeChoice(q domains.Question, samples []Sample, _ Options) domains.QuestionAnalytics {
	result := baseResult(q)
	result.Distribution = make([]domains.Bucket, 0, len(q.Options))

	index := make(map[string]int, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := index[opt.Label]; dup {
			continue
		}
		index[opt.Label] = len(result.Distribution)
		result.Distribution = append(result.Distribution, domains.Bucket{
			Key:   opt.Label,
			Label: opt.Label,
			Emoji: opt.Emoji,
		})
	}

	for _, s := range samples {
		label, ok := s.Answer.Label()
		if !ok {
			result.Excluded++
			continue
		}
		i, ok := index[label]
		if !ok {
			result.Excluded++
			continue
		}
		result.Distribution[i].Count++
		result.Total++
	}

	fillPercentages(result.Distribution, result.Total)
	return result
}

package analytics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"surveyanalytics/internal/domains"
)

// analyzeText reports volume, mean length in characters and the most recent
// answers, newest first. Blank answers are malformed; others are kept verbatim.
func analyzeText(q domains.Question, samples []Sample, opts Options) domains.QuestionAnalytics {
	result := baseResult(q)

	accepted := make([]domains.TextSample, 0, len(samples))
	var chars int
	for _, s := range samples {
		text, ok := s.Answer.Text()
		if !ok {
			result.Excluded++
			continue
		}
		if strings.TrimSpace(text) == "" {
			result.Excluded++
			continue
		}
		chars += utf8.RuneCountInString(text)
		accepted = append(accepted, domains.TextSample{
			SessionID: s.SessionID,
			Text:      text,
			CreatedAt: s.CreatedAt.UTC(),
		})
	}
	result.Total = len(accepted)

	sort.SliceStable(accepted, func(i, j int) bool {
		if !accepted[i].CreatedAt.Equal(accepted[j].CreatedAt) {
			return accepted[i].CreatedAt.After(accepted[j].CreatedAt)
		}
		return accepted[i].SessionID < accepted[j].SessionID
	})
	if n := opts.sampleSize(); len(accepted) > n {
		accepted = accepted[:n]
	}

	stats := &domains.TextStats{Sample: accepted}
	if result.Total > 0 {
		stats.AverageLength = round2(float64(chars) / float64(result.Total))
	}
	result.TextStats = stats
	return result
}

package analytics

import (
	"sort"
	"time"

	"surveyanalytics/internal/domains"
)

// Session is the reduction of all answers submitted in one survey-taking event.
type Session struct {
	ID           string
	StartedAt    time.Time
	LastAnswerAt time.Time
	Answered     int
}

// CompletionRate is the share of survey questions this session answered, 0..100.
func (s Session) CompletionRate(totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	answered := s.Answered
	if answered > totalQuestions {
		answered = totalQuestions
	}
	return float64(answered) / float64(totalQuestions) * 100
}

func (s Session) Duration() time.Duration {
	return s.LastAnswerAt.Sub(s.StartedAt)
}

// BuildSessions groups responses by session id. Only answers to the given
// questions count; a session with none of them is not a session yet.
// The result is ordered by session id.
func BuildSessions(responses []domains.Response, questions []domains.Question) []Session {
	known := make(map[int64]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	type acc struct {
		session  Session
		answered map[int64]struct{}
	}
	bySession := make(map[string]*acc)
	for _, r := range responses {
		if _, ok := known[r.QuestionID]; !ok {
			continue
		}
		created := r.CreatedAt.UTC()
		a, ok := bySession[r.SessionID]
		if !ok {
			a = &acc{
				session:  Session{ID: r.SessionID, StartedAt: created, LastAnswerAt: created},
				answered: make(map[int64]struct{}),
			}
			bySession[r.SessionID] = a
		}
		if created.Before(a.session.StartedAt) {
			a.session.StartedAt = created
		}
		if created.After(a.session.LastAnswerAt) {
			a.session.LastAnswerAt = created
		}
		a.answered[r.QuestionID] = struct{}{}
	}

	sessions := make([]Session, 0, len(bySession))
	for _, a := range bySession {
		a.session.Answered = len(a.answered)
		sessions = append(sessions, a.session)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}

// GroupByQuestion splits responses per question id keeping their order.
func GroupByQuestion(responses []domains.Response) map[int64][]domains.Response {
	grouped := make(map[int64][]domains.Response)
	for _, r := range responses {
		grouped[r.QuestionID] = append(grouped[r.QuestionID], r)
	}
	return grouped
}

// Overview reduces sessions into the dashboard summary.
func Overview(sessions []Session, totalQuestions int) domains.SurveyOverview {
	overview := domains.SurveyOverview{
		TotalResponses: len(sessions),
		TotalQuestions: totalQuestions,
	}
	if len(sessions) == 0 {
		return overview
	}

	var rateSum, secondsSum float64
	for _, s := range sessions {
		rateSum += s.CompletionRate(totalQuestions)
		secondsSum += s.Duration().Seconds()
		if s.Answered < totalQuestions {
			overview.ActiveResponses++
		}
	}
	n := float64(len(sessions))
	overview.AverageCompletionRate = round1(rateSum / n)
	overview.AverageTimeToComplete = round2(secondsSum / n)
	return overview
}

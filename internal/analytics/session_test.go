package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"surveyanalytics/internal/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSessions(t *testing.T) {
	questions := []domains.Question{{ID: 1}, {ID: 2}, {ID: 3}}
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	responses := []domains.Response{
		{QuestionID: 2, SessionID: "b", Answer: json.RawMessage("1"), CreatedAt: t0.Add(2 * time.Minute)},
		{QuestionID: 1, SessionID: "b", Answer: json.RawMessage("1"), CreatedAt: t0},
		{QuestionID: 1, SessionID: "b", Answer: json.RawMessage("2"), CreatedAt: t0.Add(time.Minute)},
		{QuestionID: 3, SessionID: "a", Answer: json.RawMessage("1"), CreatedAt: t0},
		{QuestionID: 99, SessionID: "ghost", Answer: json.RawMessage("1"), CreatedAt: t0},
	}

	sessions := BuildSessions(responses, questions)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
	assert.Equal(t, "b", sessions[1].ID)
	assert.Equal(t, 2, sessions[1].Answered)
	assert.Equal(t, t0, sessions[1].StartedAt)
	assert.Equal(t, 2*time.Minute, sessions[1].Duration())
}

func TestOverview(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := []Session{
		{ID: "a", StartedAt: t0, LastAnswerAt: t0.Add(60 * time.Second), Answered: 4},
		{ID: "b", StartedAt: t0, LastAnswerAt: t0.Add(30 * time.Second), Answered: 2},
		{ID: "c", StartedAt: t0, LastAnswerAt: t0, Answered: 1},
	}

	got := Overview(sessions, 4)
	assert.Equal(t, domains.SurveyOverview{
		TotalResponses:        3,
		AverageCompletionRate: 58.3,
		AverageTimeToComplete: 30,
		TotalQuestions:        4,
		ActiveResponses:       2,
	}, got)
}

func TestOverviewWithoutData(t *testing.T) {
	assert.Equal(t, domains.SurveyOverview{TotalQuestions: 3}, Overview(nil, 3))
	assert.Equal(t, 0.0, Session{Answered: 2}.CompletionRate(0))
}

package domains

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionScale          QuestionType = "scale"
	QuestionLikert         QuestionType = "likert_scale"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
	QuestionNPS            QuestionType = "nps"
)

type Survey struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Option is one declared answer choice. Value is kept as raw JSON because
// authoring tools store both numbers and strings there.
type Option struct {
	Value json.RawMessage `json:"value"`
	Label string          `json:"label"`
	Emoji *string         `json:"emoji,omitempty"`
}

type Question struct {
	ID         int64        `json:"id"`
	SurveyID   int64        `json:"survey_id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options"`
	Required   bool         `json:"required"`
	OrderIndex int          `json:"order_index"`
}

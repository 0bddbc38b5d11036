package domains

import (
	"encoding/json"
	"time"
)

// Response is one immutable answer row.
type Response struct {
	QuestionID int64           `json:"question_id"`
	SessionID  string          `json:"session_id"`
	Answer     json.RawMessage `json:"answer"`
	Channel    *string         `json:"channel,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ExportRow is a response joined with its question, as written by the export path.
type ExportRow struct {
	SessionID    string          `json:"session_id"`
	QuestionID   int64           `json:"question_id"`
	QuestionText string          `json:"question"`
	QuestionType QuestionType    `json:"question_type"`
	Answer       json.RawMessage `json:"answer"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ChannelCount struct {
	Channel  string
	Sessions int
}

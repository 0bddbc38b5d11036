package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"surveyanalytics/internal/domains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	at := time.Date(2025, 9, 18, 10, 30, 0, 0, time.UTC)
	return Document{
		SurveyID:   42,
		Title:      "Onboarding",
		ExportedAt: at.Add(time.Hour),
		Rows: []domains.ExportRow{
			{SessionID: "s1", QuestionID: 1, QuestionText: "How likely, 0-10?", QuestionType: domains.QuestionNPS, Answer: json.RawMessage("9"), CreatedAt: at},
			{SessionID: "s1", QuestionID: 2, QuestionText: "Comments", QuestionType: domains.QuestionText, Answer: json.RawMessage(`"fast, \"clean\""`), CreatedAt: at},
			{SessionID: "s2", QuestionID: 2, QuestionText: "Comments", QuestionType: domains.QuestionText, Answer: nil, CreatedAt: at},
		},
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"csv", FormatCSV, true},
		{"CSV", FormatCSV, true},
		{"json", FormatJSON, true},
		{"", FormatJSON, true},
		{"xml", FormatJSON, false},
		{"xlsx", FormatJSON, false},
	}
	for _, tt := range tests {
		got, ok := ResolveFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleDocument()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"s1", "How likely, 0-10?", "9", "nps", "2025-09-18T10:30:00Z"}, records[1])
	assert.Equal(t, `fast, "clean"`, records[2][2])
	assert.Equal(t, "", records[3][2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleDocument()))

	var doc struct {
		SurveyID   int64  `json:"survey_id"`
		Title      string `json:"title"`
		Format     string `json:"format"`
		ExportedAt string `json:"exported_at"`
		Total      int    `json:"total"`
		Responses  []struct {
			SessionID    string          `json:"session_id"`
			Question     string          `json:"question"`
			QuestionType string          `json:"question_type"`
			Answer       json.RawMessage `json:"answer"`
			CreatedAt    string          `json:"created_at"`
		} `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, int64(42), doc.SurveyID)
	assert.Equal(t, "json", doc.Format)
	assert.Equal(t, "2025-09-18T11:30:00Z", doc.ExportedAt)
	assert.Equal(t, 3, doc.Total)
	require.Len(t, doc.Responses, 3)
	assert.Equal(t, "9", string(doc.Responses[0].Answer))
	assert.Equal(t, "null", string(doc.Responses[2].Answer))
}

func TestWriteEmptyDocuments(t *testing.T) {
	doc := Document{SurveyID: 7, ExportedAt: time.Unix(0, 0)}

	var jsonBuf bytes.Buffer
	require.NoError(t, Write(&jsonBuf, FormatJSON, doc))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, []interface{}{}, decoded["responses"])

	var csvBuf bytes.Buffer
	require.NoError(t, Write(&csvBuf, FormatCSV, doc))
	assert.Equal(t, "session_id,question,answer,question_type,created_at\n", csvBuf.String())
}

func TestAnswerCell(t *testing.T) {
	assert.Equal(t, "4.5", AnswerCell(json.RawMessage("4.5")))
	assert.Equal(t, "Blue", AnswerCell(json.RawMessage(`"Blue"`)))
	assert.Equal(t, `["a","b"]`, AnswerCell(json.RawMessage(`[ "a", "b" ]`)))
	assert.Equal(t, "", AnswerCell(json.RawMessage("null")))
	assert.Equal(t, "true", AnswerCell(json.RawMessage("true")))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "survey-42-responses.csv", Filename(42, FormatCSV))
	assert.Equal(t, "survey-42-responses.json", Filename(42, FormatJSON))
}

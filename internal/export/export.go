package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"surveyanalytics/internal/domains"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"

	DefaultFormat = FormatJSON
)

// ResolveFormat maps a requested format onto a supported one. Unknown values
// fall back to JSON; the second return reports whether the request was honored.
func ResolveFormat(requested string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(requested))) {
	case FormatCSV:
		return FormatCSV, true
	case FormatJSON:
		return FormatJSON, true
	case "":
		return DefaultFormat, true
	default:
		return DefaultFormat, false
	}
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

func (f Format) Extension() string {
	if f == FormatCSV {
		return "csv"
	}
	return "json"
}

func Filename(surveyID int64, f Format) string {
	return fmt.Sprintf("survey-%d-responses.%s", surveyID, f.Extension())
}

type Document struct {
	SurveyID   int64
	Title      string
	ExportedAt time.Time
	Rows       []domains.ExportRow
}

var csvHeader = []string{"session_id", "question", "answer", "question_type", "created_at"}

// Write serializes the document row by row without aggregating anything.
func Write(w io.Writer, f Format, doc Document) error {
	if f == FormatCSV {
		return writeCSV(w, doc)
	}
	return writeJSON(w, doc)
}

func writeCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range doc.Rows {
		record := []string{
			row.SessionID,
			row.QuestionText,
			AnswerCell(row.Answer),
			string(row.QuestionType),
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	SessionID    string          `json:"session_id"`
	QuestionID   int64           `json:"question_id"`
	Question     string          `json:"question"`
	QuestionType string          `json:"question_type"`
	Answer       json.RawMessage `json:"answer"`
	CreatedAt    string          `json:"created_at"`
}

func writeJSON(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	head, err := json.Marshal(struct {
		SurveyID   int64  `json:"survey_id"`
		Title      string `json:"title"`
		Format     Format `json:"format"`
		ExportedAt string `json:"exported_at"`
		Total      int    `json:"total"`
	}{doc.SurveyID, doc.Title, FormatJSON, doc.ExportedAt.UTC().Format(time.RFC3339), len(doc.Rows)})
	if err != nil {
		return fmt.Errorf("encode export header: %w", err)
	}

	// Open the header object and append the responses array to it.
	bw.Write(head[:len(head)-1])
	bw.WriteString(`,"responses":[`)
	for i, row := range doc.Rows {
		if i > 0 {
			bw.WriteByte(',')
		}
		encoded, err := json.Marshal(jsonRow{
			SessionID:    row.SessionID,
			QuestionID:   row.QuestionID,
			Question:     row.QuestionText,
			QuestionType: string(row.QuestionType),
			Answer:       answerJSON(row.Answer),
			CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("encode export row: %w", err)
		}
		bw.Write(encoded)
	}
	bw.WriteString("]}\n")
	return bw.Flush()
}

// AnswerCell renders a stored answer for a flat table: strings unquoted,
// numbers verbatim, null empty, anything structured as compact JSON.
func AnswerCell(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if !json.Valid(raw) {
		return string(raw)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func answerJSON(raw json.RawMessage) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	if !json.Valid(raw) {
		quoted, _ := json.Marshal(string(raw))
		return quoted
	}
	return raw
}

package analytics

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type AnswerKind int

const (
	AnswerInvalid AnswerKind = iota
	AnswerNumber
	AnswerText
)

// Answer is a raw answer value coerced once at ingestion. Analyzers ask it for
// the representation they need and treat a false second return as malformed.
type Answer struct {
	Kind AnswerKind
	num  float64
	text string
}

func NumberAnswer(v float64) Answer {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Answer{}
	}
	return Answer{Kind: AnswerNumber, num: v}
}

func TextAnswer(s string) Answer {
	return Answer{Kind: AnswerText, text: s}
}

// ParseAnswer decodes a stored JSON answer. Anything other than a JSON number
// or string (null, bool, array, object, broken JSON) is invalid.
func ParseAnswer(raw json.RawMessage) Answer {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Answer{}
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return Answer{}
	}

	switch v := value.(type) {
	case float64:
		return NumberAnswer(v)
	case string:
		return TextAnswer(v)
	default:
		return Answer{}
	}
}

// Number returns the numeric value of numbers and numeric strings.
func (a Answer) Number() (float64, bool) {
	switch a.Kind {
	case AnswerNumber:
		return a.num, true
	case AnswerText:
		v, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Text returns the answer as free text. Numbers are rendered in their shortest form.
func (a Answer) Text() (string, bool) {
	switch a.Kind {
	case AnswerText:
		return a.text, true
	case AnswerNumber:
		return formatNumber(a.num), true
	default:
		return "", false
	}
}

// Label returns the string value for exact matching against option labels.
func (a Answer) Label() (string, bool) {
	if a.Kind != AnswerText {
		return "", false
	}
	return a.text, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package domains

import "time"

type AnalyticsStatus string

const (
	StatusOK       AnalyticsStatus = "ok"
	StatusNoData   AnalyticsStatus = "no_data"
	StatusDegraded AnalyticsStatus = "degraded"
)

type Bucket struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Emoji      *string `json:"emoji,omitempty"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ScaleStats struct {
	Average           float64 `json:"average"`
	SatisfactionIndex int     `json:"satisfactionIndex"`
}

type NPSStats struct {
	Promoters    int     `json:"promoters"`
	Passives     int     `json:"passives"`
	Detractors   int     `json:"detractors"`
	PromoterPct  float64 `json:"promoterPct"`
	PassivePct   float64 `json:"passivePct"`
	DetractorPct float64 `json:"detractorPct"`
	NPSScore     int     `json:"npsScore"`
}

type TextSample struct {
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type TextStats struct {
	AverageLength float64      `json:"averageLength"`
	Sample        []TextSample `json:"sample"`
}

// QuestionAnalytics is the derived result for one question. Exactly one of the
// embedded stats blocks is set for the typed questions; their fields are
// flattened into the JSON document.
type QuestionAnalytics struct {
	QuestionID   int64        `json:"questionId"`
	Type         QuestionType `json:"type"`
	Total        int          `json:"total"`
	Excluded     int          `json:"excluded"`
	Distribution []Bucket     `json:"distribution"`
	*ScaleStats
	*NPSStats
	*TextStats
}

type TrendPoint struct {
	Date           string  `json:"date"`
	ResponseCount  int     `json:"responseCount"`
	CompletionRate float64 `json:"completionRate"`
}

type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type WeekdayBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type TimeAnalytics struct {
	Hourly  []HourBucket    `json:"hourly"`
	Weekday []WeekdayBucket `json:"weekday"`
}

type SurveyOverview struct {
	TotalResponses        int     `json:"totalResponses"`
	AverageCompletionRate float64 `json:"averageCompletionRate"`
	AverageTimeToComplete float64 `json:"averageTimeToComplete"`
	TotalQuestions        int     `json:"totalQuestions"`
	ActiveResponses       int     `json:"activeResponses"`
}

type DeviceAnalytics struct {
	Desktop int `json:"desktop"`
	Mobile  int `json:"mobile"`
	Tablet  int `json:"tablet"`
	Other   int `json:"other"`
}

type SurveyAnalytics struct {
	SurveyID          int64               `json:"surveyId"`
	Range             string              `json:"range"`
	Status            AnalyticsStatus     `json:"status"`
	Overview          SurveyOverview      `json:"overview"`
	Trends            []TrendPoint        `json:"trends"`
	QuestionAnalytics []QuestionAnalytics `json:"questionAnalytics"`
	DeviceAnalytics   DeviceAnalytics     `json:"deviceAnalytics"`
	TimeAnalytics     TimeAnalytics       `json:"timeAnalytics"`
}

type QuestionAnalyticsResult struct {
	Question       Question          `json:"question"`
	Analytics      QuestionAnalytics `json:"analytics"`
	TotalResponses int               `json:"total_responses"`
	Status         AnalyticsStatus   `json:"status"`
}

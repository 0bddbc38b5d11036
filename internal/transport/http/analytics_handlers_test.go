package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"surveyanalytics/internal/analytics"
	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/metrics"
	"surveyanalytics/internal/service"
	"surveyanalytics/internal/storage"

	"github.com/dgrijalva/jwt-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memoryStore struct {
	questions []domains.Question
	responses []domains.Response
	failReads bool
}

var errUnavailable = errors.New("db unavailable")

func (m *memoryStore) SurveyOwner(_ context.Context, surveyID int64) (int64, error) {
	if surveyID != 10 {
		return 0, storage.ErrNotFound
	}
	return 1, nil
}

func (m *memoryStore) GetSurvey(_ context.Context, surveyID int64) (domains.Survey, error) {
	return domains.Survey{ID: surveyID, OwnerID: 1, Title: "Pulse"}, nil
}

func (m *memoryStore) ListQuestions(context.Context, int64) ([]domains.Question, error) {
	if m.failReads {
		return nil, errUnavailable
	}
	return m.questions, nil
}

func (m *memoryStore) GetQuestion(_ context.Context, questionID int64) (domains.Question, error) {
	for _, q := range m.questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domains.Question{}, storage.ErrNotFound
}

func (m *memoryStore) ListResponses(context.Context, int64, *time.Time) ([]domains.Response, error) {
	if m.failReads {
		return nil, errUnavailable
	}
	return m.responses, nil
}

func (m *memoryStore) ListQuestionResponses(_ context.Context, questionID int64) ([]domains.Response, error) {
	var out []domains.Response
	for _, r := range m.responses {
		if r.QuestionID == questionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) DeviceBreakdown(context.Context, int64, *time.Time) ([]domains.ChannelCount, error) {
	return []domains.ChannelCount{{Channel: "web", Sessions: 2}}, nil
}

func (m *memoryStore) ListExportRows(context.Context, int64) ([]domains.ExportRow, error) {
	if m.failReads {
		return nil, errUnavailable
	}
	rows := make([]domains.ExportRow, 0, len(m.responses))
	for _, r := range m.responses {
		rows = append(rows, domains.ExportRow{
			SessionID:    r.SessionID,
			QuestionID:   r.QuestionID,
			QuestionText: "How likely are you to recommend us?",
			QuestionType: domains.QuestionNPS,
			Answer:       r.Answer,
			CreatedAt:    r.CreatedAt,
		})
	}
	return rows, nil
}

type pingStub struct{ err error }

func (p pingStub) Ping(context.Context) error { return p.err }

func npsOptions() []domains.Option {
	opts := make([]domains.Option, 0, 11)
	for i := 0; i <= 10; i++ {
		raw, _ := json.Marshal(i)
		opts = append(opts, domains.Option{Value: raw, Label: string(raw)})
	}
	return opts
}

func newTestRouter(t *testing.T, store *memoryStore) (http.Handler, *metrics.Collector) {
	t.Helper()
	now := time.Now().UTC()
	collector := metrics.New("test")
	analyticsService := service.NewAnalyticsService(store, service.AnalyticsConfig{
		Workers:      2,
		DefaultRange: analytics.Range30d,
		Now:          func() time.Time { return now },
	}, collector)
	exportService := service.NewExportService(store, collector)

	return Router(RouterDeps{
		Analytics: analyticsService,
		Exports:   exportService,
		DB:        pingStub{},
		Metrics:   collector.Handler(),
		Recorder:  collector,
		JWTSecret: testSecret,
	}), collector
}

func seededStore() *memoryStore {
	at := time.Now().UTC().Add(-time.Minute)
	return &memoryStore{
		questions: []domains.Question{{ID: 5, SurveyID: 10, Type: domains.QuestionNPS, Options: npsOptions()}},
		responses: []domains.Response{
			{QuestionID: 5, SessionID: "a", Answer: json.RawMessage("10"), CreatedAt: at},
			{QuestionID: 5, SessionID: "b", Answer: json.RawMessage("3"), CreatedAt: at},
		},
	}
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, h http.Handler, path, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSurveyAnalyticsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, seededStore())

	rec := do(t, h, "/api/analytics/survey/10?range=7d", bearer(t, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Header().Get(StatusHeader))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body domains.SurveyAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Overview.TotalResponses)
	assert.Len(t, body.Trends, 7)
	require.Len(t, body.QuestionAnalytics, 1)
	require.NotNil(t, body.QuestionAnalytics[0].NPSStats)
	assert.Equal(t, 0, body.QuestionAnalytics[0].NPSStats.NPSScore)
	assert.Equal(t, 2, body.DeviceAnalytics.Desktop)
}

func TestSurveyAnalyticsEndpointErrors(t *testing.T) {
	h, _ := newTestRouter(t, seededStore())

	tests := []struct {
		name string
		path string
		auth string
		want int
	}{
		{"missing token", "/api/analytics/survey/10", "", http.StatusUnauthorized},
		{"wrong secret", "/api/analytics/survey/10", "Bearer not-a-token", http.StatusUnauthorized},
		{"non numeric id", "/api/analytics/survey/abc", bearer(t, "1"), http.StatusBadRequest},
		{"foreign survey", "/api/analytics/survey/10", bearer(t, "2"), http.StatusNotFound},
		{"missing survey", "/api/analytics/survey/11", bearer(t, "1"), http.StatusNotFound},
		{"missing question", "/api/analytics/question/99", bearer(t, "1"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.path, tt.auth)
			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSurveyAnalyticsEndpointDegraded(t *testing.T) {
	store := seededStore()
	store.failReads = true
	h, collector := newTestRouter(t, store)

	rec := do(t, h, "/api/analytics/survey/10", bearer(t, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", rec.Header().Get(StatusHeader))

	var body domains.SurveyAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domains.StatusDegraded, body.Status)
	assert.Equal(t, 0, body.Overview.TotalResponses)
	assert.Len(t, body.Trends, 30)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Computations.WithLabelValues("survey", "degraded")))
}

func TestQuestionAnalyticsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, seededStore())

	rec := do(t, h, "/api/analytics/question/5", bearer(t, "1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Question       domains.Question          `json:"question"`
		Analytics      domains.QuestionAnalytics `json:"analytics"`
		TotalResponses int                       `json:"total_responses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.Question.ID)
	assert.Equal(t, 2, body.TotalResponses)
	assert.Len(t, body.Analytics.Distribution, 11)
}

func TestExportEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, seededStore())

	rec := do(t, h, "/api/analytics/export/10?format=csv", bearer(t, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="survey-10-responses.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "session_id,question,answer,question_type,created_at", lines[0])
}

func TestExportEndpointUnsupportedFormat(t *testing.T) {
	h, collector := newTestRouter(t, seededStore())

	rec := do(t, h, "/api/analytics/export/10?format=xml", bearer(t, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "survey-10-responses.json")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "json", doc["format"])
	assert.Len(t, doc["responses"], 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.FormatFallbacks))
}

func TestHealthzAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t, seededStore())

	rec := do(t, h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	do(t, h, "/api/analytics/survey/10", bearer(t, "1"))
	rec = do(t, h, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/analytics/survey/{id}"`)
}

func TestHealthzReportsUnavailableDatabase(t *testing.T) {
	h := Router(RouterDeps{DB: pingStub{err: errUnavailable}, JWTSecret: testSecret})

	rec := do(t, h, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

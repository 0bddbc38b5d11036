package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"surveyanalytics/internal/analytics"
	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/storage"
)

type OwnerProvider interface {
	SurveyOwner(ctx context.Context, surveyID int64) (int64, error)
}

type AnalyticsProvider interface {
	OwnerProvider
	ListQuestions(ctx context.Context, surveyID int64) ([]domains.Question, error)
	GetQuestion(ctx context.Context, questionID int64) (domains.Question, error)
	ListResponses(ctx context.Context, surveyID int64, since *time.Time) ([]domains.Response, error)
	ListQuestionResponses(ctx context.Context, questionID int64) ([]domains.Response, error)
	DeviceBreakdown(ctx context.Context, surveyID int64, since *time.Time) ([]domains.ChannelCount, error)
}

type MetricsRecorder interface {
	RecordComputation(kind string, status domains.AnalyticsStatus)
	RecordExcluded(questionType domains.QuestionType, n int)
	RecordFormatFallback()
}

type AnalyticsConfig struct {
	Workers        int
	TextSampleSize int
	DefaultRange   analytics.Range
	QueryTimeout   time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type AnalyticsService struct {
	provider AnalyticsProvider
	metrics  MetricsRecorder
	cfg      AnalyticsConfig
}

func NewAnalyticsService(provider AnalyticsProvider, cfg AnalyticsConfig, metrics MetricsRecorder) *AnalyticsService {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.TextSampleSize <= 0 {
		cfg.TextSampleSize = analytics.DefaultTextSampleSize
	}
	cfg.DefaultRange = analytics.ParseRange(string(cfg.DefaultRange), analytics.DefaultRange)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AnalyticsService{provider: provider, metrics: metrics, cfg: cfg}
}

// SurveyAnalytics builds the dashboard payload for one survey over the
// requested window. Only ownership failures are returned as errors; any other
// store failure yields a zeroed payload marked degraded.
func (s *AnalyticsService) SurveyAnalytics(ctx context.Context, requesterID, surveyID int64, rangeParam string) (domains.SurveyAnalytics, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.cfg.Now().UTC()
	window := analytics.ParseRange(rangeParam, s.cfg.DefaultRange)
	since := window.Window(now)

	if err := checkOwner(ctx, s.provider, requesterID, surveyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domains.SurveyAnalytics{}, err
		}
		return s.degraded(surveyID, window, now, nil, "owner", err), nil
	}

	questions, err := s.provider.ListQuestions(ctx, surveyID)
	if err != nil {
		return s.degraded(surveyID, window, now, nil, "questions", err), nil
	}
	responses, err := s.provider.ListResponses(ctx, surveyID, &since)
	if err != nil {
		return s.degraded(surveyID, window, now, questions, "responses", err), nil
	}
	responses = analytics.ResponsesSince(responses, since, now)

	sessions := analytics.BuildSessions(responses, questions)
	perQuestion, err := analytics.AnalyzeAll(ctx, questions, analytics.GroupByQuestion(responses), s.options(), s.cfg.Workers)
	if err != nil {
		return s.degraded(surveyID, window, now, questions, "analyze", err), nil
	}

	result := domains.SurveyAnalytics{
		SurveyID:          surveyID,
		Range:             string(window),
		Status:            domains.StatusOK,
		Overview:          analytics.Overview(sessions, len(questions)),
		Trends:            analytics.BuildTrend(sessions, len(questions), window, now),
		QuestionAnalytics: perQuestion,
		TimeAnalytics:     analytics.BuildTimeAnalytics(sessions),
	}
	if len(sessions) == 0 {
		result.Status = domains.StatusNoData
	}

	counts, err := s.provider.DeviceBreakdown(ctx, surveyID, &since)
	if err != nil {
		slog.Warn("device breakdown unavailable", "survey_id", surveyID, "err", err)
		result.Status = domains.StatusDegraded
	} else {
		result.DeviceAnalytics = analytics.DeviceAnalytics(counts)
	}

	for _, qa := range perQuestion {
		s.metrics.RecordExcluded(qa.Type, qa.Excluded)
	}
	s.metrics.RecordComputation("survey", result.Status)
	return result, nil
}

// QuestionAnalytics analyzes a single question across all of its responses.
func (s *AnalyticsService) QuestionAnalytics(ctx context.Context, requesterID, questionID int64) (domains.QuestionAnalyticsResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	question, err := s.provider.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domains.QuestionAnalyticsResult{}, ErrNotFound
		}
		return s.degradedQuestion(domains.Question{ID: questionID, Options: []domains.Option{}}, "question", err), nil
	}

	if err := checkOwner(ctx, s.provider, requesterID, question.SurveyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return domains.QuestionAnalyticsResult{}, err
		}
		return s.degradedQuestion(question, "owner", err), nil
	}

	responses, err := s.provider.ListQuestionResponses(ctx, questionID)
	if err != nil {
		return s.degradedQuestion(question, "responses", err), nil
	}

	qa := analytics.Analyze(question, responses, s.options())
	status := domains.StatusOK
	if qa.Total == 0 {
		status = domains.StatusNoData
	}
	s.metrics.RecordExcluded(question.Type, qa.Excluded)
	s.metrics.RecordComputation("question", status)

	return domains.QuestionAnalyticsResult{
		Question:       question,
		Analytics:      qa,
		TotalResponses: len(responses),
		Status:         status,
	}, nil
}

func (s *AnalyticsService) options() analytics.Options {
	return analytics.Options{TextSampleSize: s.cfg.TextSampleSize}
}

func (s *AnalyticsService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.QueryTimeout)
}

// degraded returns the payload shape a client would see for a survey with no
// responses at all. Question buckets are kept when the questions are known.
func (s *AnalyticsService) degraded(surveyID int64, window analytics.Range, now time.Time, questions []domains.Question, stage string, err error) domains.SurveyAnalytics {
	slog.Warn("survey analytics degraded", "survey_id", surveyID, "stage", stage, "err", err)
	s.metrics.RecordComputation("survey", domains.StatusDegraded)

	perQuestion := make([]domains.QuestionAnalytics, 0, len(questions))
	for _, q := range questions {
		perQuestion = append(perQuestion, analytics.Analyze(q, nil, s.options()))
	}
	return domains.SurveyAnalytics{
		SurveyID:          surveyID,
		Range:             string(window),
		Status:            domains.StatusDegraded,
		Overview:          domains.SurveyOverview{TotalQuestions: len(questions)},
		Trends:            analytics.BuildTrend(nil, len(questions), window, now),
		QuestionAnalytics: perQuestion,
		TimeAnalytics:     analytics.BuildTimeAnalytics(nil),
	}
}

func (s *AnalyticsService) degradedQuestion(question domains.Question, stage string, err error) domains.QuestionAnalyticsResult {
	slog.Warn("question analytics degraded", "question_id", question.ID, "stage", stage, "err", err)
	s.metrics.RecordComputation("question", domains.StatusDegraded)
	return domains.QuestionAnalyticsResult{
		Question:  question,
		Analytics: analytics.Analyze(question, nil, s.options()),
		Status:    domains.StatusDegraded,
	}
}

// checkOwner hides whether a survey exists from anyone but its owner.
func checkOwner(ctx context.Context, provider OwnerProvider, requesterID, surveyID int64) error {
	ownerID, err := provider.SurveyOwner(ctx, surveyID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("check owner: %w", err)
	}
	if ownerID != requesterID {
		return ErrNotFound
	}
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordComputation(string, domains.AnalyticsStatus) {}
func (noopMetrics) RecordExcluded(domains.QuestionType, int) {}
func (noopMetrics) RecordFormatFallback() {}

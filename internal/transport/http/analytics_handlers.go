package httptransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/httpx"
	"surveyanalytics/internal/service"
)

const StatusHeader = "X-Analytics-Status"

type AnalyticsServices interface {
	SurveyAnalytics(ctx context.Context, requesterID, surveyID int64, rangeParam string) (domains.SurveyAnalytics, error)
	QuestionAnalytics(ctx context.Context, requesterID, questionID int64) (domains.QuestionAnalyticsResult, error)
}

type ExportServices interface {
	Prepare(ctx context.Context, requesterID, surveyID int64, format string) (service.ExportJob, error)
}

type AnalyticsHandlers struct {
	analytics AnalyticsServices
	exports   ExportServices
}

func NewAnalyticsHandlers(analytics AnalyticsServices, exports ExportServices) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: analytics, exports: exports}
}

func (h *AnalyticsHandlers) SurveyAnalytics(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	user, ok := httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.analytics.SurveyAnalytics(r.Context(), user, surveyID, r.URL.Query().Get("range"))
	if err != nil {
		writeServiceError(w, err, "SurveyAnalytics", "survey", surveyID)
		return
	}

	w.Header().Set(StatusHeader, string(result.Status))
	httpx.JSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandlers) QuestionAnalytics(w http.ResponseWriter, r *http.Request) {
	questionID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	user, ok := httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.analytics.QuestionAnalytics(r.Context(), user, questionID)
	if err != nil {
		writeServiceError(w, err, "QuestionAnalytics", "question", questionID)
		return
	}

	w.Header().Set(StatusHeader, string(result.Status))
	httpx.JSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandlers) Export(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	user, ok := httpx.UserIdFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	job, err := h.exports.Prepare(r.Context(), user, surveyID, r.URL.Query().Get("format"))
	if err != nil {
		writeServiceError(w, err, "Export", "survey", surveyID)
		return
	}

	w.Header().Set("Content-Type", job.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.Filename))
	w.Header().Set(StatusHeader, string(job.Status))
	w.WriteHeader(http.StatusOK)
	if err := job.Render(w); err != nil {
		// Headers are gone by now; the client sees a truncated body.
		slog.Error("Export stream failed", "err", err, "survey", surveyID)
	}
}

func writeServiceError(w http.ResponseWriter, err error, op, subject string, id int64) {
	if errors.Is(err, service.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Анкета не найдена")
		return
	}
	slog.Error(op+" failed", "err", err, subject, id)
	httpx.Error(w, http.StatusInternalServerError, "Не удалось получить аналитику")
}

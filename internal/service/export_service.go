package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/export"
)

type ExportProvider interface {
	OwnerProvider
	GetSurvey(ctx context.Context, surveyID int64) (domains.Survey, error)
	ListExportRows(ctx context.Context, surveyID int64) ([]domains.ExportRow, error)
}

// ExportJob is a loaded export ready to be streamed.
type ExportJob struct {
	Format   export.Format
	Status   domains.AnalyticsStatus
	Filename string
	// Fallback is set when the requested format was not supported.
	Fallback bool

	doc export.Document
}

func (j ExportJob) ContentType() string {
	return j.Format.ContentType()
}

func (j ExportJob) Rows() int {
	return len(j.doc.Rows)
}

func (j ExportJob) Render(w io.Writer) error {
	return export.Write(w, j.Format, j.doc)
}

type ExportService struct {
	provider ExportProvider
	metrics  MetricsRecorder
	now      func() time.Time
}

func NewExportService(provider ExportProvider, metrics MetricsRecorder) *ExportService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ExportService{provider: provider, metrics: metrics, now: time.Now}
}

// Prepare checks ownership and loads every raw response row of the survey.
// Unknown formats fall back to JSON. After a successful ownership check a
// store failure produces an empty document with status degraded.
func (s *ExportService) Prepare(ctx context.Context, requesterID, surveyID int64, format string) (ExportJob, error) {
	resolved, ok := export.ResolveFormat(format)
	if err := checkOwner(ctx, s.provider, requesterID, surveyID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ExportJob{}, err
		}
		return s.degraded(surveyID, resolved, !ok, "owner", err), nil
	}

	if !ok {
		slog.Warn("unsupported export format, using default", "survey_id", surveyID, "format", format, "fallback", resolved)
		s.metrics.RecordFormatFallback()
	}

	job := ExportJob{
		Format:   resolved,
		Status:   domains.StatusOK,
		Filename: export.Filename(surveyID, resolved),
		Fallback: !ok,
		doc:      export.Document{SurveyID: surveyID, ExportedAt: s.now().UTC()},
	}

	survey, err := s.provider.GetSurvey(ctx, surveyID)
	if err != nil {
		return s.degraded(surveyID, resolved, !ok, "survey", err), nil
	}
	job.doc.Title = survey.Title

	rows, err := s.provider.ListExportRows(ctx, surveyID)
	if err != nil {
		degraded := s.degraded(surveyID, resolved, !ok, "rows", err)
		degraded.doc.Title = survey.Title
		return degraded, nil
	}
	job.doc.Rows = rows
	if len(rows) == 0 {
		job.Status = domains.StatusNoData
	}

	s.metrics.RecordComputation("export", job.Status)
	slog.Info("export prepared", "survey_id", surveyID, "format", resolved, "rows", len(rows))
	return job, nil
}

func (s *ExportService) degraded(surveyID int64, f export.Format, fallback bool, stage string, err error) ExportJob {
	slog.Warn("export degraded", "survey_id", surveyID, "stage", stage, "err", err)
	s.metrics.RecordComputation("export", domains.StatusDegraded)
	return ExportJob{
		Format:   f,
		Status:   domains.StatusDegraded,
		Filename: export.Filename(surveyID, f),
		Fallback: fallback,
		doc:      export.Document{SurveyID: surveyID, ExportedAt: s.now().UTC()},
	}
}

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SurveyProvider struct {
	db *pgxpool.Pool
}

func NewSurveyProvider(db *pgxpool.Pool) *SurveyProvider {
	return &SurveyProvider{
		db: db,
	}
}

func (s SurveyProvider) SurveyOwner(ctx context.Context, surveyID int64) (int64, error) {
	var ownerID int64
	if err := s.db.QueryRow(ctx, `SELECT owner_id FROM surveys WHERE id = $1`, surveyID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("survey owner: %w", storage.ErrNotFound)
		}
		return 0, fmt.Errorf("survey owner: %w", err)
	}
	return ownerID, nil
}

func (s SurveyProvider) GetSurvey(ctx context.Context, surveyID int64) (domains.Survey, error) {
	const query = `
		SELECT
			s.id,
			s.owner_id,
			s.title,
			s.status,
			(SELECT COUNT(*) FROM questions q WHERE q.survey_id = s.id) AS question_count,
			s.created_at
		FROM surveys s
		WHERE s.id = $1`

	var survey domains.Survey
	if err := s.db.QueryRow(ctx, query, surveyID).Scan(
		&survey.ID,
		&survey.OwnerID,
		&survey.Title,
		&survey.Status,
		&survey.QuestionCount,
		&survey.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Survey{}, fmt.Errorf("get survey: %w", storage.ErrNotFound)
		}
		return domains.Survey{}, fmt.Errorf("get survey: %w", err)
	}
	return survey, nil
}

func (s SurveyProvider) ListQuestions(ctx context.Context, surveyID int64) ([]domains.Question, error) {
	const query = `
		SELECT id, survey_id, text, type, options, required, order_index
		FROM questions
		WHERE survey_id = $1
		ORDER BY order_index, id`

	rows, err := s.db.Query(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func (s SurveyProvider) GetQuestion(ctx context.Context, questionID int64) (domains.Question, error) {
	const query = `
		SELECT id, survey_id, text, type, options, required, order_index
		FROM questions
		WHERE id = $1`

	rows, err := s.db.Query(ctx, query, questionID)
	if err != nil {
		return domains.Question{}, fmt.Errorf("get question: %w", err)
	}
	defer rows.Close()

	question, err := pgx.CollectOneRow(rows, scanQuestion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Question{}, fmt.Errorf("get question: %w", storage.ErrNotFound)
		}
		return domains.Question{}, fmt.Errorf("get question: %w", err)
	}
	return question, nil
}

func scanQuestion(row pgx.CollectableRow) (domains.Question, error) {
	var (
		question domains.Question
		qType    string
		options  []byte
	)
	if err := row.Scan(
		&question.ID,
		&question.SurveyID,
		&question.Text,
		&qType,
		&options,
		&question.Required,
		&question.OrderIndex,
	); err != nil {
		return domains.Question{}, err
	}
	question.Type = domains.QuestionType(qType)
	question.Options = decodeOptions(question.ID, options)
	return question, nil
}

// decodeOptions keeps a question usable when its option set is broken: the
// analyzers then report zero counts instead of failing the whole survey.
func decodeOptions(questionID int64, raw []byte) []domains.Option {
	if len(raw) == 0 {
		return []domains.Option{}
	}
	var options []domains.Option
	if err := json.Unmarshal(raw, &options); err != nil {
		slog.Warn("malformed question options", "question_id", questionID, "err", err)
		return []domains.Option{}
	}
	if options == nil {
		return []domains.Option{}
	}
	return options
}

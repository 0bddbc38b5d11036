package providers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"surveyanalytics/internal/domains"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResponseProvider struct {
	db *pgxpool.Pool
}

func NewResponseProvider(db *pgxpool.Pool) *ResponseProvider {
	return &ResponseProvider{
		db: db,
	}
}

// ListResponses returns the raw answer rows of a survey, optionally limited to
// rows created at or after since.
func (p ResponseProvider) ListResponses(ctx context.Context, surveyID int64, since *time.Time) ([]domains.Response, error) {
	query := `
		SELECT question_id, session_id, answer, channel, created_at
		FROM responses
		WHERE survey_id = $1`
	args := []interface{}{surveyID}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	query += ` ORDER BY created_at, session_id, question_id`

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses, err := pgx.CollectRows(rows, scanResponse)
	if err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, nil
}

func (p ResponseProvider) ListQuestionResponses(ctx context.Context, questionID int64) ([]domains.Response, error) {
	const query = `
		SELECT question_id, session_id, answer, channel, created_at
		FROM responses
		WHERE question_id = $1
		ORDER BY created_at, session_id`

	rows, err := p.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("list question responses: %w", err)
	}
	defer rows.Close()

	responses, err := pgx.CollectRows(rows, scanResponse)
	if err != nil {
		return nil, fmt.Errorf("iterate question responses: %w", err)
	}
	return responses, nil
}

func (p ResponseProvider) ListExportRows(ctx context.Context, surveyID int64) ([]domains.ExportRow, error) {
	const query = `
		SELECT r.session_id, q.id, q.text, q.type, r.answer, r.created_at
		FROM responses r
		JOIN questions q ON q.id = r.question_id
		WHERE r.survey_id = $1
		ORDER BY r.created_at, r.session_id, q.order_index, q.id`

	rows, err := p.db.Query(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list export rows: %w", err)
	}
	defer rows.Close()

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.ExportRow, error) {
		var (
			item   domains.ExportRow
			qType  string
			answer []byte
		)
		if err := row.Scan(&item.SessionID, &item.QuestionID, &item.QuestionText, &qType, &answer, &item.CreatedAt); err != nil {
			return domains.ExportRow{}, err
		}
		item.QuestionType = domains.QuestionType(qType)
		item.Answer = copyJSON(answer)
		item.CreatedAt = item.CreatedAt.UTC()
		return item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate export rows: %w", err)
	}
	return result, nil
}

// DeviceBreakdown counts distinct sessions per submission channel.
func (p ResponseProvider) DeviceBreakdown(ctx context.Context, surveyID int64, since *time.Time) ([]domains.ChannelCount, error) {
	query := `
		SELECT COALESCE(channel, ''), COUNT(DISTINCT session_id)
		FROM responses
		WHERE survey_id = $1`
	args := []interface{}{surveyID}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	query += ` GROUP BY 1 ORDER BY 1`

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("device breakdown: %w", err)
	}
	defer rows.Close()

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domains.ChannelCount, error) {
		var c domains.ChannelCount
		err := row.Scan(&c.Channel, &c.Sessions)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("iterate device breakdown: %w", err)
	}
	return counts, nil
}

func scanResponse(row pgx.CollectableRow) (domains.Response, error) {
	var (
		response domains.Response
		answer   []byte
		channel  sql.NullString
	)
	if err := row.Scan(&response.QuestionID, &response.SessionID, &answer, &channel, &response.CreatedAt); err != nil {
		return domains.Response{}, err
	}
	response.Answer = copyJSON(answer)
	response.CreatedAt = response.CreatedAt.UTC()
	if channel.Valid {
		value := channel.String
		response.Channel = &value
	}
	return response, nil
}

func copyJSON(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	data := make([]byte, len(src))
	copy(data, src)
	return data
}

package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/sqlite"
)

type ResponseRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewResponseRepository(dbs *sqlite.Database, logger *slog.Logger) *ResponseRepository {
	return &ResponseRepository{
		dbs:    dbs,
		logger: logger.With("source", "ResponseRepository"),
	}
}

// ResponseFields carries the answer fields of one submission. Nil fields keep
// whatever value is already stored for the (survey, session) pair.
type ResponseFields struct {
	NPSScore *int64
	OpenText *string
}

const responseColumns = `id, survey_id, session_id, nps_score, open_text,
       ai_follow_up_question, ai_follow_up_answer, completed_at, created_at, updated_at`

// Upsert finds or creates the response row for the (survey, session) pair and merges
// the submitted fields into it. The uniqueness constraint on (survey_id, session_id)
// makes this atomic with respect to concurrent submissions for the same pair: the
// losing insert degrades into the update branch instead of producing a second row.
func (r *ResponseRepository) Upsert(
	ctx context.Context,
	surveyID int64,
	sessionID string,
	fields ResponseFields,
) (*models.Response, error) {
	var response models.Response

	stmt := `INSERT INTO responses (survey_id, session_id, nps_score, open_text)
VALUES (?, ?, ?, ?)
ON CONFLICT (survey_id, session_id) DO UPDATE SET
    nps_score  = COALESCE(excluded.nps_score, responses.nps_score),
    open_text  = COALESCE(excluded.open_text, responses.open_text),
    updated_at = CURRENT_TIMESTAMP
RETURNING ` + responseColumns
	err := r.dbs.ReadWrite.GetContext(ctx, &response, stmt, surveyID, sessionID, fields.NPSScore, fields.OpenText)
	if err != nil {
		return nil, errors.Wrap(err, "upsert response",
			slog.Int64("survey_id", surveyID))
	}

	return &response, nil
}

// GetBySurveyAndSession returns the response for the (survey, session) pair.
func (r *ResponseRepository) GetBySurveyAndSession(
	ctx context.Context,
	surveyID int64,
	sessionID string,
) (*models.Response, error) {
	var response models.Response

	stmt := `SELECT ` + responseColumns + ` FROM responses WHERE survey_id = ? AND session_id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &response, stmt, surveyID, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "response not found", slog.Int64("survey_id", surveyID))
		}
		return nil, errors.Wrap(err, "read response")
	}

	return &response, nil
}

// SetFollowUpQuestion stores the generated follow-up question on the response and
// clears completed_at since an answer is now expected. The question is set at most
// once: a concurrent submission that already stored one wins and this call returns
// the stored row unchanged.
func (r *ResponseRepository) SetFollowUpQuestion(
	ctx context.Context,
	responseID int64,
	question string,
) (*models.Response, error) {
	stmt := `UPDATE responses
SET ai_follow_up_question = ?,
    completed_at          = NULL,
    updated_at            = CURRENT_TIMESTAMP
WHERE id = ?
  AND ai_follow_up_question IS NULL`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, question, responseID); err != nil {
		return nil, errors.Wrap(err, "set follow-up question", slog.Int64("response_id", responseID))
	}

	return r.getByID(ctx, responseID)
}

// Complete marks the response as finished now.
func (r *ResponseRepository) Complete(ctx context.Context, responseID int64) (*models.Response, error) {
	stmt := `UPDATE responses
SET completed_at = CURRENT_TIMESTAMP,
    updated_at   = CURRENT_TIMESTAMP
WHERE id = ?`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, responseID); err != nil {
		return nil, errors.Wrap(err, "complete response", slog.Int64("response_id", responseID))
	}

	return r.getByID(ctx, responseID)
}

// CompleteWithFollowUpAnswer stores the follow-up answer and marks the response
// completed. The row is resolved by the (survey, session) pair; responseID, when
// supplied by the client, is an additional filter rather than sole authority, so a
// respondent cannot reach another session's response by guessing an identifier.
func (r *ResponseRepository) CompleteWithFollowUpAnswer(
	ctx context.Context,
	surveyID int64,
	sessionID string,
	responseID *int64,
	answer string,
) (*models.Response, error) {
	var response models.Response

	stmt := `UPDATE responses
SET ai_follow_up_answer = ?,
    completed_at        = CURRENT_TIMESTAMP,
    updated_at          = CURRENT_TIMESTAMP
WHERE survey_id = ?
  AND session_id = ?`
	args := []any{answer, surveyID, sessionID}
	if responseID != nil {
		stmt += ` AND id = ?`
		args = append(args, *responseID)
	}
	stmt += `
RETURNING ` + responseColumns

	if err := r.dbs.ReadWrite.GetContext(ctx, &response, stmt, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "response not found", slog.Int64("survey_id", surveyID))
		}
		return nil, errors.Wrap(err, "store follow-up answer")
	}

	return &response, nil
}

// ListCompleted returns the survey's completed responses, newest first.
func (r *ResponseRepository) ListCompleted(ctx context.Context, surveyID int64) ([]models.Response, error) {
	var responses []models.Response

	stmt := `SELECT ` + responseColumns + `
FROM responses
WHERE survey_id = ?
  AND completed_at IS NOT NULL
ORDER BY created_at DESC, id DESC`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &responses, stmt, surveyID); err != nil {
		return nil, errors.Wrap(err, "list completed responses")
	}

	return responses, nil
}

func (r *ResponseRepository) getByID(ctx context.Context, responseID int64) (*models.Response, error) {
	var response models.Response

	stmt := `SELECT ` + responseColumns + ` FROM responses WHERE id = ?`
	if err := r.dbs.ReadWrite.GetContext(ctx, &response, stmt, responseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "response not found", slog.Int64("response_id", responseID))
		}
		return nil, errors.Wrap(err, "read response")
	}

	return &response, nil
}

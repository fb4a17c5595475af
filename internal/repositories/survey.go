package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/sqlite"
)

// ErrNotFound is returned when a survey or response lookup matches no row.
var ErrNotFound = errors.NewSentinel("not found")

type SurveyRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewSurveyRepository(dbs *sqlite.Database, logger *slog.Logger) *SurveyRepository {
	return &SurveyRepository{
		dbs:    dbs,
		logger: logger.With("source", "SurveyRepository"),
	}
}

// NewQuestion describes a question for survey creation and update.
type NewQuestion struct {
	Type models.QuestionType
	Text string
}

// NewSurvey describes a survey for creation and update. Questions replace the
// previous set wholesale, mirroring how the admin form submits them.
type NewSurvey struct {
	Name        string
	Description *string
	Active      bool
	Questions   []NewQuestion
}

// SurveySummary is a survey annotated with response counts for admin listings.
type SurveySummary struct {
	models.Survey
	ResponseCount          int64 `db:"response_count" json:"responseCount"`
	CompletedResponseCount int64 `db:"completed_response_count" json:"completedResponseCount"`
}

// DashboardStats aggregates the numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalSurveys       int64 `db:"total_surveys" json:"totalSurveys"`
	ActiveSurveys      int64 `db:"active_surveys" json:"activeSurveys"`
	CompletedResponses int64 `db:"completed_responses" json:"completedResponses"`
}

const surveyColumns = `id, name, description, is_active, created_at, updated_at`

// Get returns the survey with its questions in display order.
func (r *SurveyRepository) Get(ctx context.Context, id int64) (*models.Survey, error) {
	var survey models.Survey

	stmt := `SELECT ` + surveyColumns + ` FROM surveys WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &survey, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "survey not found", slog.Int64("survey_id", id))
		}
		return nil, errors.Wrap(err, "read survey")
	}

	stmt = `SELECT id, survey_id, type, text, "order" FROM questions WHERE survey_id = ? ORDER BY "order"`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &survey.Questions, stmt, id); err != nil {
		return nil, errors.Wrap(err, "read questions")
	}

	return &survey, nil
}

// List returns all surveys with response counts, newest first.
func (r *SurveyRepository) List(ctx context.Context) ([]SurveySummary, error) {
	var summaries []SurveySummary

	stmt := `SELECT s.id,
       s.name,
       s.description,
       s.is_active,
       s.created_at,
       s.updated_at,
       COUNT(r.id)                                            AS response_count,
       COUNT(CASE WHEN r.completed_at IS NOT NULL THEN 1 END) AS completed_response_count
FROM surveys s
         LEFT JOIN responses r ON r.survey_id = s.id
GROUP BY s.id
ORDER BY s.created_at DESC, s.id DESC`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &summaries, stmt); err != nil {
		return nil, errors.Wrap(err, "list surveys")
	}

	return summaries, nil
}

// Create stores a survey and its questions. The two-question invariant (one NPS
// question, one text question) is validated by the caller before it gets here.
func (r *SurveyRepository) Create(ctx context.Context, input NewSurvey) (*models.Survey, error) {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `INSERT INTO surveys (name, description, is_active) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, stmt, input.Name, input.Description, input.Active)
	if err != nil {
		return nil, errors.Wrap(err, "insert survey")
	}
	surveyID, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "survey insert ID")
	}

	if err = insertQuestions(ctx, tx, surveyID, input.Questions); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit transaction")
	}

	return r.Get(ctx, surveyID)
}

// Update replaces the survey's attributes and its question set.
func (r *SurveyRepository) Update(ctx context.Context, id int64, input NewSurvey) (*models.Survey, error) {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := `UPDATE surveys
SET name        = ?,
    description = ?,
    is_active   = ?,
    updated_at  = CURRENT_TIMESTAMP
WHERE id = ?`
	result, err := tx.ExecContext(ctx, stmt, input.Name, input.Description, input.Active, id)
	if err != nil {
		return nil, errors.Wrap(err, "update survey")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return nil, errors.Wrap(ErrNotFound, "survey not found", slog.Int64("survey_id", id))
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM questions WHERE survey_id = ?`, id); err != nil {
		return nil, errors.Wrap(err, "delete questions")
	}
	if err = insertQuestions(ctx, tx, id, input.Questions); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit transaction")
	}

	return r.Get(ctx, id)
}

// Delete removes the survey. Its questions and responses cascade with it.
func (r *SurveyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.dbs.ReadWrite.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete survey")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "survey not found", slog.Int64("survey_id", id))
	}
	return nil
}

// SetActive flips the accepting-responses flag without touching the questions.
func (r *SurveyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.dbs.ReadWrite.ExecContext(ctx,
		`UPDATE surveys SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, active, id)
	if err != nil {
		return errors.Wrap(err, "set survey active")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "survey not found", slog.Int64("survey_id", id))
	}
	return nil
}

// Stats returns the admin dashboard aggregates.
func (r *SurveyRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	stmt := `SELECT (SELECT COUNT(*) FROM surveys)                                        AS total_surveys,
       (SELECT COUNT(*) FROM surveys WHERE is_active)                                    AS active_surveys,
       (SELECT COUNT(*) FROM responses WHERE completed_at IS NOT NULL)                   AS completed_responses`
	if err := r.dbs.ReadOnly.GetContext(ctx, &stats, stmt); err != nil {
		return nil, errors.Wrap(err, "read dashboard stats")
	}

	return &stats, nil
}

func insertQuestions(ctx context.Context, tx *sqlx.Tx, surveyID int64, questions []NewQuestion) error {
	stmt := `INSERT INTO questions (survey_id, type, text, "order") VALUES (?, ?, ?, ?)`
	for i, question := range questions {
		if _, err := tx.ExecContext(ctx, stmt, surveyID, question.Type, question.Text, i); err != nil {
			return errors.Wrap(err, "insert question", slog.Int("order", i))
		}
	}
	return nil
}

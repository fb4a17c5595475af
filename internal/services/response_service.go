package services

import (
	"context"
	"log/slog"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/followup"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
)

// ErrSurveyNotAccepting is returned when a respondent tries to interact with a
// survey whose active flag is off. It is distinct from validation failures because
// callers answer it with a different message and status.
var ErrSurveyNotAccepting = errors.NewSentinel("survey is not accepting responses")

// ResponseService owns a respondent's submission across up to three interactions:
// the survey view, the initial answers, and the optional follow-up answer.
type ResponseService struct {
	responses *repositories.ResponseRepository
	generator *followup.Generator
	logger    *slog.Logger
}

func NewResponseService(
	responses *repositories.ResponseRepository,
	generator *followup.Generator,
	logger *slog.Logger,
) *ResponseService {
	return &ResponseService{
		responses: responses,
		generator: generator,
		logger:    logger.With("source", "ResponseService"),
	}
}

// SubmitResponseInput carries one initial submission. Nil fields leave the stored
// values for the (survey, session) pair untouched.
type SubmitResponseInput struct {
	NPSScore *int64
	OpenText *string
}

// SubmitResult is the outcome of an initial submission.
type SubmitResult struct {
	Response *models.Response
	// HasFollowUp reports whether a follow-up question is stored on the response,
	// whether generated just now or on an earlier submission.
	HasFollowUp bool
}

// SubmitResponse records the respondent's initial answers.
//
// The response row is found or created for the (survey, session) pair. When open
// text is present and no follow-up question has been stored yet, a question is
// generated synchronously; success leaves the response open awaiting the answer,
// anything else completes it immediately. Resubmitting after completion is treated
// as a correction and runs the same decision logic again.
func (s *ResponseService) SubmitResponse(
	ctx context.Context,
	survey *models.Survey,
	sessionID string,
	input SubmitResponseInput,
) (*SubmitResult, error) {
	if !survey.IsAcceptingResponses() {
		return nil, ErrSurveyNotAccepting
	}

	response, err := s.responses.Upsert(ctx, survey.ID, sessionID, repositories.ResponseFields{
		NPSScore: input.NPSScore,
		OpenText: input.OpenText,
	})
	if err != nil {
		return nil, errors.Wrap(err, "upsert response")
	}

	if input.OpenText != nil && *input.OpenText != "" && !response.HasAIFollowUp() {
		if question := s.generateFollowUp(ctx, survey, *input.OpenText); question != "" {
			if response, err = s.responses.SetFollowUpQuestion(ctx, response.ID, question); err != nil {
				return nil, errors.Wrap(err, "set follow-up question")
			}
			return &SubmitResult{Response: response, HasFollowUp: true}, nil
		}
	}

	// No follow-up is pending: either no open text was submitted, no question could
	// be generated, or a question from an earlier submission is already stored.
	if response, err = s.responses.Complete(ctx, response.ID); err != nil {
		return nil, errors.Wrap(err, "complete response")
	}
	return &SubmitResult{Response: response, HasFollowUp: response.HasAIFollowUp()}, nil
}

// SubmitFollowUpAnswerInput carries the answer to a generated follow-up question.
// ResponseID, when the client supplies one, narrows the match but never overrides
// the (survey, session) resolution.
type SubmitFollowUpAnswerInput struct {
	ResponseID *int64
	Answer     string
}

// SubmitFollowUpAnswer records the follow-up answer and completes the response.
//
// Returns repositories.ErrNotFound when no response matches the (survey, session)
// pair. A matching response without a stored follow-up question is accepted as is;
// the endpoint stays lenient and relies on the client only showing the follow-up
// form when a question exists.
func (s *ResponseService) SubmitFollowUpAnswer(
	ctx context.Context,
	survey *models.Survey,
	sessionID string,
	input SubmitFollowUpAnswerInput,
) (*models.Response, error) {
	if !survey.IsAcceptingResponses() {
		return nil, ErrSurveyNotAccepting
	}

	response, err := s.responses.CompleteWithFollowUpAnswer(ctx, survey.ID, sessionID, input.ResponseID, input.Answer)
	if err != nil {
		return nil, errors.Wrap(err, "record follow-up answer")
	}
	return response, nil
}

// ExistingResponse returns the respondent's response for the survey, or nil when the
// session has not submitted one.
func (s *ResponseService) ExistingResponse(
	ctx context.Context,
	survey *models.Survey,
	sessionID string,
) (*models.Response, error) {
	if sessionID == "" {
		return nil, nil
	}
	response, err := s.responses.GetBySurveyAndSession(ctx, survey.ID, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read existing response")
	}
	return response, nil
}

// CompletedResponses lists the survey's completed responses, newest first.
// Partially answered rows are excluded.
func (s *ResponseService) CompletedResponses(ctx context.Context, survey *models.Survey) ([]models.Response, error) {
	responses, err := s.responses.ListCompleted(ctx, survey.ID)
	if err != nil {
		return nil, errors.Wrap(err, "list completed responses")
	}
	return responses, nil
}

func (s *ResponseService) generateFollowUp(ctx context.Context, survey *models.Survey, openText string) string {
	textQuestion := survey.TextQuestion()
	if textQuestion == nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "survey has no text question, skipping follow-up generation",
			slog.Int64("survey_id", survey.ID))
		return ""
	}
	return s.generator.Generate(ctx, textQuestion.Text, openText)
}

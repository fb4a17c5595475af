package main

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
	"github.com/Afifibytes/simple-survey-tool/internal/services"
)

type submitFollowUpRequest struct {
	ResponseID *int64 `json:"responseId"`
	Answer     string `json:"aiFollowUpAnswer"`
}

// submitFollowUpAnswer records the answer to the AI-generated follow-up
// question and completes the response.
func (app *application) submitFollowUpAnswer(w http.ResponseWriter, r *http.Request) {
	survey, ok := app.acceptingSurvey(w, r)
	if !ok {
		return
	}

	var req submitFollowUpRequest
	if err := app.decodeJSON(w, r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Answer) == "" {
		fieldErrors["aiFollowUpAnswer"] = "The AI follow-up answer field is required."
	} else if utf8.RuneCountInString(req.Answer) > 1000 {
		fieldErrors["aiFollowUpAnswer"] = "Response must not exceed 1000 characters."
	}
	if len(fieldErrors) > 0 {
		app.failValidation(w, r, fieldErrors)
		return
	}

	sessionID, err := app.respondentID(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	response, err := app.responseService.SubmitFollowUpAnswer(r.Context(), survey, sessionID, services.SubmitFollowUpAnswerInput{
		ResponseID: req.ResponseID,
		Answer:     req.Answer,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotAccepting):
			app.failMessage(w, r, http.StatusForbidden, notAcceptingMessage)
		case errors.Is(err, repositories.ErrNotFound):
			app.failMessage(w, r, http.StatusNotFound, "Response not found.")
		default:
			app.serverError(w, r, err)
		}
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"response": response,
		"message":  "Thank you for completing the survey!",
	})
}

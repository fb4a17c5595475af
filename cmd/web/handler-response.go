package main

import (
	"net/http"
	"unicode/utf8"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
	"github.com/Afifibytes/simple-survey-tool/internal/services"
)

const notAcceptingMessage = "This survey is not currently accepting responses."

type submitResponseRequest struct {
	NPSScore *int64  `json:"npsScore"`
	OpenText *string `json:"openText"`
}

// submitResponse records the respondent's answers to the survey's two
// questions. Both answers are optional and can arrive in separate requests.
func (app *application) submitResponse(w http.ResponseWriter, r *http.Request) {
	survey, ok := app.acceptingSurvey(w, r)
	if !ok {
		return
	}

	var req submitResponseRequest
	if err := app.decodeJSON(w, r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	fieldErrors := make(map[string]string)
	if req.NPSScore != nil && (*req.NPSScore < 0 || *req.NPSScore > 10) {
		fieldErrors["npsScore"] = "NPS score must be between 0 and 10."
	}
	if req.OpenText != nil && utf8.RuneCountInString(*req.OpenText) > 1000 {
		fieldErrors["openText"] = "Response must not exceed 1000 characters."
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

	result, err := app.responseService.SubmitResponse(r.Context(), survey, sessionID, services.SubmitResponseInput{
		NPSScore: req.NPSScore,
		OpenText: req.OpenText,
	})
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotAccepting) {
			app.failMessage(w, r, http.StatusForbidden, notAcceptingMessage)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":     true,
		"response":    result.Response,
		"responseId":  result.Response.ID,
		"hasFollowUp": result.HasFollowUp,
	})
}

// acceptingSurvey loads the survey from the request path for the response
// endpoints. Inactive surveys are rejected with the 403 the frontend expects.
func (app *application) acceptingSurvey(w http.ResponseWriter, r *http.Request) (*models.Survey, bool) {
	id, err := surveyIDFromPath(r)
	if err != nil {
		app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
		return nil, false
	}
	survey, err := app.surveys.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
			return nil, false
		}
		app.serverError(w, r, err)
		return nil, false
	}
	if !survey.IsAcceptingResponses() {
		app.failMessage(w, r, http.StatusForbidden, notAcceptingMessage)
		return nil, false
	}
	return survey, true
}

package main

import (
	"net/http"
	"unicode/utf8"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
)

func (app *application) adminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := app.surveys.Stats(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (app *application) adminListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := app.surveys.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"surveys": surveys,
	})
}

type surveyQuestionRequest struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type surveyRequest struct {
	Name        string                  `json:"name"`
	Description *string                 `json:"description"`
	IsActive    bool                    `json:"isActive"`
	Questions   []surveyQuestionRequest `json:"questions"`
}

func (req *surveyRequest) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "The name field is required."
	} else if utf8.RuneCountInString(req.Name) > 255 {
		fieldErrors["name"] = "Name must not exceed 255 characters."
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 1000 {
		fieldErrors["description"] = "Description must not exceed 1000 characters."
	}
	if len(req.Questions) != 2 {
		fieldErrors["questions"] = "A survey must have exactly 2 questions."
		return fieldErrors
	}
	var npsCount, textCount int
	for _, q := range req.Questions {
		switch models.QuestionType(q.Type) {
		case models.QuestionTypeNPS:
			npsCount++
		case models.QuestionTypeText:
			textCount++
		default:
			fieldErrors["questions"] = "Question type must be either NPS or text."
			return fieldErrors
		}
		if q.Text == "" {
			fieldErrors["questions"] = "Every question needs a text."
			return fieldErrors
		}
		if utf8.RuneCountInString(q.Text) > 500 {
			fieldErrors["questions"] = "Question text must not exceed 500 characters."
			return fieldErrors
		}
	}
	if npsCount != 1 || textCount != 1 {
		fieldErrors["questions"] = "A survey needs one NPS question and one text question."
	}
	return fieldErrors
}

func (req *surveyRequest) toNewSurvey() repositories.NewSurvey {
	questions := make([]repositories.NewQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, repositories.NewQuestion{
			Type: models.QuestionType(q.Type),
			Text: q.Text,
		})
	}
	return repositories.NewSurvey{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.IsActive,
		Questions:   questions,
	}
}

func (app *application) adminCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := app.decodeJSON(w, r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		app.failValidation(w, r, fieldErrors)
		return
	}

	survey, err := app.surveys.Create(r.Context(), req.toNewSurvey())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"survey":  survey,
	})
}

func (app *application) adminUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := surveyIDFromPath(r)
	if err != nil {
		app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
		return
	}

	var req surveyRequest
	if err = app.decodeJSON(w, r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if fieldErrors := req.validate(); len(fieldErrors) > 0 {
		app.failValidation(w, r, fieldErrors)
		return
	}

	survey, err := app.surveys.Update(r.Context(), id, req.toNewSurvey())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"survey":  survey,
	})
}

func (app *application) adminDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := surveyIDFromPath(r)
	if err != nil {
		app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
		return
	}

	if err = app.surveys.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
			return
		}
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// adminListResponses returns completed responses only; partially answered rows
// stay out of exports until the respondent finishes.
func (app *application) adminListResponses(w http.ResponseWriter, r *http.Request) {
	id, err := surveyIDFromPath(r)
	if err != nil {
		app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
		return
	}
	survey, err := app.surveys.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.failMessage(w, r, http.StatusNotFound, "Survey not found.")
			return
		}
		app.serverError(w, r, err)
		return
	}

	responses, err := app.responseService.CompletedResponses(r.Context(), survey)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"success":   true,
		"survey":    survey,
		"responses": responses,
	})
}

package main

import (
	"net/http"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/internal/models"
	"github.com/Afifibytes/simple-survey-tool/internal/repositories"
)

type surveyPageData struct {
	Survey   *models.Survey
	Existing *models.Response
}

// ScoreChecked reports whether the respondent previously picked the score.
func (d surveyPageData) ScoreChecked(score int) bool {
	return d.Existing != nil && d.Existing.NPSScore != nil && *d.Existing.NPSScore == int64(score)
}

// surveyPage renders the public survey form. Inactive and unknown surveys look
// the same from the outside.
func (app *application) surveyPage(w http.ResponseWriter, r *http.Request) {
	id, err := surveyIDFromPath(r)
	if err != nil {
		app.notFound(w)
		return
	}

	survey, err := app.surveys.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.notFound(w)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if !survey.IsAcceptingResponses() {
		app.notFound(w)
		return
	}

	existing, err := app.responseService.ExistingResponse(r.Context(), survey, app.sessionManager.Token(r.Context()))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "survey.gohtml", surveyPageData{
		Survey:   survey,
		Existing: existing,
	})
}

package main

import (
	"net/http"

	"github.com/justinas/alice"

	"github.com/Afifibytes/simple-survey-tool/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", cacheForeverHeaders(http.FileServerFS(ui.Files)))

	mux.Handle("GET /api/healthy", http.HandlerFunc(app.healthy))

	// The survey page carries the CSRF token that the API endpoints verify.
	page := alice.New(app.sessionManager.LoadAndSave, noSurf, app.commonContext)
	mux.Handle("GET /survey/{id}", page.ThenFunc(app.surveyPage))

	api := alice.New(app.sessionManager.LoadAndSave, noSurf)
	mux.Handle("POST /api/survey/{id}/response", api.ThenFunc(app.submitResponse))
	mux.Handle("POST /api/survey/{id}/ai-follow-up", api.ThenFunc(app.submitFollowUpAnswer))

	// Admin endpoints have no authentication. Deployments must keep them
	// off the public network, e.g. behind a reverse proxy allowlist.
	mux.Handle("GET /api/admin/dashboard", http.HandlerFunc(app.adminDashboard))
	mux.Handle("GET /api/admin/surveys", http.HandlerFunc(app.adminListSurveys))
	mux.Handle("POST /api/admin/surveys", http.HandlerFunc(app.adminCreateSurvey))
	mux.Handle("PUT /api/admin/surveys/{id}", http.HandlerFunc(app.adminUpdateSurvey))
	mux.Handle("DELETE /api/admin/surveys/{id}", http.HandlerFunc(app.adminDeleteSurvey))
	mux.Handle("GET /api/admin/surveys/{id}/responses", http.HandlerFunc(app.adminListResponses))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}

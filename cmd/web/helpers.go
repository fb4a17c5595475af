package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
)

func toError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return errors.New(fmt.Sprintf("%v", v))
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", r.Method),
		slog.String("uri", r.URL.RequestURI()),
		errors.SlogError(err))

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter) {
	app.clientError(w, http.StatusNotFound)
}

// writeJSON sends v as the response body. Encoding failures at this point can
// only be logged because the status line is already gone.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to encode response",
			errors.SlogError(errors.Wrap(err, "encode json")))
	}
}

// failValidation rejects a request with per-field validation messages.
func (app *application) failValidation(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	app.writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
		"success": false,
		"errors":  fieldErrors,
	})
}

func (app *application) failMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, map[string]any{
		"success": false,
		"message": message,
	})
}

func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

func surveyIDFromPath(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid survey ID", slog.String("id", r.PathValue("id")))
	}
	return id, nil
}

// respondentID returns the session token that correlates a respondent's
// answers across requests. A brand-new session has no token until the session
// middleware commits it, so we store a marker and commit early to get one.
func (app *application) respondentID(ctx context.Context) (string, error) {
	if token := app.sessionManager.Token(ctx); token != "" {
		return token, nil
	}
	app.sessionManager.Put(ctx, "respondent", true)
	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		return "", errors.Wrap(err, "commit session")
	}
	return token, nil
}

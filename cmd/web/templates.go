package main

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Afifibytes/simple-survey-tool/internal/contexthelpers"
	"github.com/Afifibytes/simple-survey-tool/internal/errors"
	"github.com/Afifibytes/simple-survey-tool/ui"
)

// render writes the named page wrapped in the base layout. The page is
// buffered so that a template error still produces a clean 500 response.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	funcs := template.FuncMap{
		"csrfToken": func() string {
			return contexthelpers.CSRFToken(r.Context())
		},
		"currentPath": func() string {
			return contexthelpers.CurrentPath(r.Context())
		},
		"npsScale": func() []int {
			return []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		},
	}
	ts, err := template.New(page).Funcs(funcs).ParseFS(ui.Files,
		"templates/base.gohtml",
		"templates/pages/"+page)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse templates"))
		return
	}

	buf := new(bytes.Buffer)
	if err = ts.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template"))
		return
	}

	w.WriteHeader(status)
	if _, err = buf.WriteTo(w); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write response", errors.SlogError(err))
	}
}

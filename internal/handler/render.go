package handler

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/hlog"
	"github.com/tinggo/tinggo/internal/i18n"
	"github.com/tinggo/tinggo/internal/view"
)

// chrome collects the per-request state shown on every page.
func chrome(r *http.Request) view.Chrome {
	ctx := r.Context()
	return view.Chrome{
		User:  UserFromContext(ctx),
		Flash: FlashFromContext(ctx),
		Lang:  i18n.FromContext(ctx),
		Path:  r.URL.Path,
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render page")
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// formValues snapshots the named fields for re-rendering a form.
func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = r.FormValue(f)
	}
	return out
}

// safeNext accepts only same-site absolute paths as redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/diewo77/dashcore/httpx"
	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/validation"
)

func invalid(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	lang := i18n.LangFrom(r.Context())
	httpx.Invalid(w, v.Translate(func(code string) string { return i18n.T(lang, code) }))
}

// writeError maps domain errors to responses; anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		v := validation.FromError(err)
		if v == nil {
			v = validation.Violations{"request": "invalid"}
		}
		invalid(w, r, v)
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	default:
		httpx.Internal(w, logger, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		invalid(w, r, validation.Violations{"body": "invalid_json"})
		return false
	}
	return true
}

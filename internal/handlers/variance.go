package handlers

import (
	"net/http"

	"github.com/diewo77/dashcore/httpx"
	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/validation"
)

// Variance returns the percent change from base to value. A zero base
// yields a null change.
func Variance(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	base := validation.Decimal("base", r.URL.Query().Get("base"), v)
	value := validation.Decimal("value", r.URL.Query().Get("value"), v)
	if !v.Empty() {
		invalid(w, r, v)
		return
	}
	c := pricing.PercentChange(base, value)
	display := c.String()
	if !c.Defined {
		display = i18n.T(i18n.LangFrom(r.Context()), "undefined")
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"base":    base,
		"value":   value,
		"change":  c,
		"display": display,
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

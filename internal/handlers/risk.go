package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/dashcore/httpx"
	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/internal/services"
	"github.com/diewo77/dashcore/risk"
	"github.com/diewo77/dashcore/validation"
)

type RiskHandler struct {
	svc    *services.RiskService
	logger *slog.Logger
}

func NewRiskHandler(svc *services.RiskService, logger *slog.Logger) *RiskHandler {
	return &RiskHandler{svc: svc, logger: logger}
}

func levelLabel(r *http.Request) func(risk.Level) string {
	lang := i18n.LangFrom(r.Context())
	return func(l risk.Level) string { return i18n.T(lang, "risk_"+string(l)) }
}

// Assess scores the contract in the body and replaces its stored assessment.
func (h *RiskHandler) Assess(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.PathValue("ref"))
	v := validation.Violations{}
	validation.Required("ref", ref, v)
	if !v.Empty() {
		invalid(w, r, v)
		return
	}

	var req contractRequest
	if !decode(w, r, &req) {
		return
	}
	c, v := req.contract()
	if v != nil {
		invalid(w, r, v)
		return
	}
	sa, err := h.svc.Assess(r.Context(), ref, c)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newAssessmentResponse(sa, levelLabel(r)))
}

func (h *RiskHandler) View(w http.ResponseWriter, r *http.Request) {
	sa, err := h.svc.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newAssessmentResponse(sa, levelLabel(r)))
}

func (h *RiskHandler) List(w http.ResponseWriter, r *http.Request) {
	var level risk.Level
	if raw := r.URL.Query().Get("level"); raw != "" {
		l, err := risk.ParseLevel(raw)
		if err != nil {
			invalid(w, r, validation.Violations{"level": "unknown_value"})
			return
		}
		level = l
	}
	list, err := h.svc.List(r.Context(), level)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	label := levelLabel(r)
	out := make([]assessmentResponse, len(list))
	for i := range list {
		out[i] = newAssessmentResponse(&list[i], label)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"assessments": out})
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diewo77/dashcore/httpx"
	"github.com/diewo77/dashcore/internal/services"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/validation"
)

const (
	maxPageSize = 100
	maxPage     = 100000
)

type QuoteHandler struct {
	svc    *services.QuoteService
	logger *slog.Logger
}

func NewQuoteHandler(svc *services.QuoteService, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{svc: svc, logger: logger}
}

// Totals computes a document without storing it.
func (h *QuoteHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decode(w, r, &req) {
		return
	}
	doc, v := req.document()
	if v != nil {
		invalid(w, r, v)
		return
	}
	totals, err := h.svc.Compute(doc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newTotalsResponse(totals))
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decode(w, r, &req) {
		return
	}
	doc, v := req.document()
	if v != nil {
		invalid(w, r, v)
		return
	}
	q, err := h.svc.Save(r.Context(), req.Reference, doc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newQuoteResponse(q))
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decode(w, r, &req) {
		return
	}
	doc, v := req.document()
	if v != nil {
		invalid(w, r, v)
		return
	}
	q, err := h.svc.Update(r.Context(), r.PathValue("id"), req.Reference, doc)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newQuoteResponse(q))
}

func (h *QuoteHandler) View(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newQuoteResponse(q))
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	v := validation.Violations{}
	f := store.QuoteFilter{Limit: 20}

	if raw := query.Get("over_discount"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			v["over_discount"] = "invalid"
		}
		f.OverDiscount = &b
	}
	page := 1
	if raw := query.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > maxPage {
			v["page"] = "out_of_range"
		}
		page = p
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			v["limit"] = "out_of_range"
		}
		f.Limit = limit
	}
	if !v.Empty() {
		invalid(w, r, v)
		return
	}
	f.Offset = (page - 1) * f.Limit

	recs, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"quotes": newQuoteSummaries(recs),
		"page":   page,
		"limit":  f.Limit,
	})
}

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/dashcore/internal/models"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/risk"
	"github.com/diewo77/dashcore/validation"
	"github.com/shopspring/decimal"
)

type discountDTO struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

type itemDTO struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  *discountDTO    `json:"discount,omitempty"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

type quoteRequest struct {
	Reference string          `json:"reference,omitempty"`
	TaxMode   string          `json:"tax_mode,omitempty"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Discount  *discountDTO    `json:"discount,omitempty"`
	Items     []itemDTO       `json:"items"`
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

func (d *discountDTO) toDiscount(field string, v validation.Violations) pricing.Discount {
	if d == nil {
		return pricing.NoDiscount()
	}
	kind, err := pricing.ParseDiscountKind(d.Kind)
	if err != nil {
		v[field+".kind"] = pricing.CodeUnknown
		return pricing.NoDiscount()
	}
	if kind != pricing.KindNone {
		validation.NonNegative(field, d.Value, v)
		if kind == pricing.KindPercentage && !d.Value.IsNegative() {
			validation.RangeDecimal(field, d.Value, zero, hundred, v)
		}
	}
	return pricing.NewDiscount(kind, d.Value)
}

// document converts the request and reports every field problem at once,
// with the same codes the pricing package uses.
func (q quoteRequest) document() (pricing.Document, validation.Violations) {
	v := validation.Violations{}
	mode, err := pricing.ParseTaxMode(q.TaxMode)
	if err != nil {
		v["tax_mode"] = pricing.CodeUnknown
	}
	if mode == pricing.TaxNominal {
		validation.RangeDecimal("tax_rate", q.TaxRate, zero, hundred, v)
	}
	doc := pricing.Document{
		TaxMode:  mode,
		TaxRate:  q.TaxRate,
		Discount: q.Discount.toDiscount("discount", v),
		Items:    make([]pricing.LineItem, len(q.Items)),
	}
	for i, it := range q.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		validation.NonNegative(prefix+"quantity", it.Quantity, v)
		validation.NonNegative(prefix+"unit_price", it.UnitPrice, v)
		validation.RangeDecimal(prefix+"tax_rate", it.TaxRate, zero, hundred, v)
		doc.Items[i] = pricing.LineItem{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount.toDiscount(prefix+"discount", v),
			TaxRate:   it.TaxRate,
		}
	}
	if !v.Empty() {
		return pricing.Document{}, v
	}
	return doc, nil
}

type lineResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AfterDiscount  decimal.Decimal `json:"after_discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	OverDiscount   bool            `json:"over_discount"`
}

type totalsResponse struct {
	TaxMode           string          `json:"tax_mode"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	AfterDiscount     decimal.Decimal `json:"after_discount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	LineDiscountTotal decimal.Decimal `json:"line_discount_total"`
	OverDiscount      bool            `json:"over_discount"`
	Lines             []lineResponse  `json:"lines"`
}

func newTotalsResponse(t pricing.Totals) totalsResponse {
	out := totalsResponse{
		TaxMode:           t.TaxMode.String(),
		Subtotal:          t.Subtotal,
		DiscountAmount:    t.DiscountAmount,
		AfterDiscount:     t.AfterDiscount,
		TaxAmount:         t.TaxAmount,
		TotalAmount:       t.TotalAmount,
		LineDiscountTotal: t.LineDiscountTotal,
		OverDiscount:      t.OverDiscount,
		Lines:             make([]lineResponse, len(t.Lines)),
	}
	for i, l := range t.Lines {
		out.Lines[i] = lineResponse(l)
	}
	return out
}

func newItemDTOs(doc pricing.Document) []itemDTO {
	out := make([]itemDTO, len(doc.Items))
	for i, it := range doc.Items {
		out[i] = itemDTO{Quantity: it.Quantity, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate}
		if it.Discount.Kind() != pricing.KindNone {
			out[i].Discount = &discountDTO{Kind: it.Discount.Kind().String(), Value: it.Discount.Value()}
		}
	}
	return out
}

type quoteResponse struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	TaxMode   string          `json:"tax_mode"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Discount  *discountDTO    `json:"discount,omitempty"`
	Items     []itemDTO       `json:"items"`
	Totals    totalsResponse  `json:"totals"`
}

func newQuoteResponse(q *store.StoredQuote) quoteResponse {
	out := quoteResponse{
		ID:        q.ID,
		Reference: q.Reference,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
		TaxMode:   q.Document.TaxMode.String(),
		TaxRate:   q.Document.TaxRate,
		Items:     newItemDTOs(q.Document),
		Totals:    newTotalsResponse(q.Totals),
	}
	if d := q.Document.Discount; d.Kind() != pricing.KindNone {
		out.Discount = &discountDTO{Kind: d.Kind().String(), Value: d.Value()}
	}
	return out
}

type quoteSummary struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	TaxMode      string          `json:"tax_mode"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OverDiscount bool            `json:"over_discount"`
}

func newQuoteSummaries(recs []models.QuoteRecord) []quoteSummary {
	out := make([]quoteSummary, len(recs))
	for i, r := range recs {
		out[i] = quoteSummary{
			ID:           r.PublicID,
			Reference:    r.Reference,
			CreatedAt:    r.CreatedAt,
			TaxMode:      r.TaxMode,
			Subtotal:     r.Subtotal.Decimal,
			TotalAmount:  r.TotalAmount.Decimal,
			OverDiscount: r.OverDiscount,
		}
	}
	return out
}

type contractRequest struct {
	Counterparty   string           `json:"counterparty"`
	Value          *decimal.Decimal `json:"value"`
	ExpirationDate string           `json:"expiration_date,omitempty"`
	Compliance     map[string]bool  `json:"compliance,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (c contractRequest) contract() (risk.Contract, validation.Violations) {
	out := risk.Contract{
		Counterparty: strings.TrimSpace(c.Counterparty),
		Value:        c.Value,
		Compliance:   c.Compliance,
	}
	if c.ExpirationDate != "" {
		t, err := parseDate(c.ExpirationDate)
		if err != nil {
			return risk.Contract{}, validation.Violations{"expiration_date": "invalid"}
		}
		out.ExpirationDate = &t
	}
	return out, nil
}

type assessmentResponse struct {
	ID          string                `json:"id"`
	ContractRef string                `json:"contract_ref"`
	AssessedAt  time.Time             `json:"assessed_at"`
	Score       int                   `json:"risk_score"`
	Level       risk.Level            `json:"risk_level"`
	LevelLabel  string                `json:"risk_level_label"`
	Factors     []risk.Factor         `json:"factors"`
	ByCategory  map[risk.Category]int `json:"by_category"`
}

func newAssessmentResponse(sa *store.StoredAssessment, label func(risk.Level) string) assessmentResponse {
	factors := sa.Assessment.Factors
	if factors == nil {
		factors = []risk.Factor{}
	}
	return assessmentResponse{
		ID:          sa.ID,
		ContractRef: sa.ContractRef,
		AssessedAt:  sa.AssessedAt,
		Score:       sa.Assessment.Score,
		Level:       sa.Assessment.Level,
		LevelLabel:  label(sa.Assessment.Level),
		Factors:     factors,
		ByCategory:  sa.Assessment.CountBy(),
	}
}

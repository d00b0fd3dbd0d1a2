package models

import (
	"testing"
	"time"

	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/risk"
	"github.com/shopspring/decimal"
)

func TestQuoteRecord_DocumentRoundTrip(t *testing.T) {
	doc := pricing.Document{
		TaxMode:  pricing.TaxNominal,
		Discount: pricing.Fixed(decimal.NewFromInt(40)),
		TaxRate:  decimal.NewFromInt(20),
		Items: []pricing.LineItem{
			{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(100), Discount: pricing.Percent(decimal.NewFromInt(10)), TaxRate: decimal.NewFromInt(20)},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(40)},
		},
	}
	totals, err := doc.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}

	rec := NewQuoteRecord("id-1", "Q-1", doc, totals)
	if rec.TaxMode != "nominal" || rec.DiscountKind != "fixed" {
		t.Errorf("mode/kind = %s/%s, want nominal/fixed", rec.TaxMode, rec.DiscountKind)
	}
	if !rec.TotalAmount.Equal(totals.TotalAmount) {
		t.Errorf("TotalAmount = %s, want %s", rec.TotalAmount, totals.TotalAmount)
	}
	if len(rec.Items) != 2 || rec.Items[1].Position != 1 || rec.Items[1].DiscountKind != "none" {
		t.Fatalf("unexpected items %+v", rec.Items)
	}

	back, err := rec.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	again, err := back.Totals()
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if !again.TotalAmount.Equal(totals.TotalAmount) || !again.TaxAmount.Equal(totals.TaxAmount) {
		t.Errorf("round trip totals = %s/%s, want %s/%s",
			again.TotalAmount, again.TaxAmount, totals.TotalAmount, totals.TaxAmount)
	}
}

func TestQuoteRecord_DocumentBadKind(t *testing.T) {
	rec := &QuoteRecord{TaxMode: "per_item", DiscountKind: "coupon"}
	if _, err := rec.Document(); err == nil {
		t.Errorf("expected error for unknown discount kind")
	}
}

func TestRiskAssessmentRecord_RoundTrip(t *testing.T) {
	a := risk.Aggregate([]risk.Factor{
		{Code: "contract_expired", Category: risk.CategoryOperational, Severity: risk.SeverityCritical, Likelihood: risk.LikelihoodCertain},
		{Code: "counterparty_missing", Category: risk.CategoryLegal, Severity: risk.SeverityLow},
	})
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	rec := NewRiskAssessmentRecord("id-2", "C-9", a, at)
	if rec.Score != 58 || rec.Level != "high" {
		t.Errorf("score/level = %d/%s, want 58/high", rec.Score, rec.Level)
	}
	if rec.Factors[0].Severity != "critical" || rec.Factors[1].Likelihood != "unknown" {
		t.Errorf("unexpected factors %+v", rec.Factors)
	}

	back, err := rec.Assessment()
	if err != nil {
		t.Fatalf("Assessment() error = %v", err)
	}
	if back.Score != a.Score || back.Level != a.Level || len(back.Factors) != 2 {
		t.Fatalf("Assessment() = %+v, want %+v", back, a)
	}
	if back.Factors[0] != a.Factors[0] {
		t.Errorf("factor = %+v, want %+v", back.Factors[0], a.Factors[0])
	}
}

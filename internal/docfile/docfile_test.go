package docfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diewo77/dashcore/internal/docfile"
	"github.com/diewo77/dashcore/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteTOML = `
reference = "Q-TOML"
tax_mode = "nominal"
tax_rate = "20"

[discount]
kind = "fixed"
value = "40"

[[items]]
quantity = "3"
unit_price = "100"

[[items]]
quantity = "2"
unit_price = "50"

[[items]]
quantity = "1"
unit_price = "40"
`

const quoteYAML = `
reference: Q-YAML
items:
  - quantity: 1.5
    unit_price: 19.99
    discount: {kind: percentage, value: 10}
    tax_rate: 20
`

const quoteJSON = `{"reference":"Q-JSON","items":[{"quantity":2,"unit_price":50,"discount":{"kind":"fixed","value":20}}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadQuote(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		ref   string
		total string
	}{
		{"toml", "q.toml", quoteTOML, "Q-TOML", "480"},
		{"yaml", "q.yaml", quoteYAML, "Q-YAML", "35.3823"},
		{"json", "q.json", quoteJSON, "Q-JSON", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := docfile.LoadQuote(writeFile(t, tt.file, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.ref, q.Reference)

			doc, err := q.Document()
			require.NoError(t, err)
			totals, err := doc.Totals()
			require.NoError(t, err)
			assert.Equal(t, tt.total, totals.TotalAmount.String())
		})
	}
}

func TestLoadQuote_ExactAmounts(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"json", "q.json", `{"tax_mode":"per_item","items":[{"quantity":1,"unit_price":19.999999999999999999,"tax_rate":"0.000000000000000001"}]}`},
		{"yaml", "q.yaml", "tax_mode: per_item\nitems:\n  - quantity: 1\n    unit_price: 19.999999999999999999\n    tax_rate: 0.000000000000000001\n"},
		{"toml", "q.toml", "tax_mode = \"per_item\"\n[[items]]\nquantity = \"1\"\nunit_price = \"19.999999999999999999\"\ntax_rate = \"0.000000000000000001\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := docfile.LoadQuote(writeFile(t, tt.file, tt.body))
			require.NoError(t, err)
			doc, err := q.Document()
			require.NoError(t, err)
			require.Len(t, doc.Items, 1)
			assert.Equal(t, "19.999999999999999999", doc.Items[0].UnitPrice.String())
			assert.Equal(t, "0.000000000000000001", doc.Items[0].TaxRate.String())
		})
	}
}

func TestQuote_DocumentErrors(t *testing.T) {
	q := &docfile.Quote{TaxMode: "vat"}
	_, err := q.Document()
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	q = &docfile.Quote{Items: []docfile.Item{{Quantity: decimal.NewFromInt(1), Discount: &docfile.Discount{Kind: "bogus"}}}}
	_, err = q.Document()
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestLoadContract(t *testing.T) {
	path := writeFile(t, "c.yml", `
reference: C-1
counterparty: ACME
value: 150000
expiration_date: "2025-06-11"
compliance:
  gdpr: false
`)
	c, err := docfile.LoadContract(path)
	require.NoError(t, err)
	assert.Equal(t, "C-1", c.Reference)

	contract, err := c.Contract()
	require.NoError(t, err)
	require.NotNil(t, contract.Value)
	assert.Equal(t, "150000", contract.Value.String())

	c, err = docfile.LoadContract(writeFile(t, "c.json", `{"value":"1234567890123456789.01"}`))
	require.NoError(t, err)
	contract, err = c.Contract()
	require.NoError(t, err)
	assert.Equal(t, "1234567890123456789.01", contract.Value.String())
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), *contract.ExpirationDate)
	assert.Equal(t, map[string]bool{"gdpr": false}, contract.Compliance)

	bad := &docfile.Contract{ExpirationDate: "soon"}
	_, err = bad.Contract()
	assert.Error(t, err)

	empty, err := (&docfile.Contract{}).Contract()
	require.NoError(t, err)
	assert.Nil(t, empty.Value)
	assert.Nil(t, empty.ExpirationDate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := docfile.LoadQuote(writeFile(t, "q.txt", "x"))
	assert.ErrorIs(t, err, docfile.ErrUnsupportedFormat)

	_, err = docfile.LoadQuote(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = docfile.LoadQuote(writeFile(t, "broken.toml", "items = ["))
	assert.Error(t, err)
}

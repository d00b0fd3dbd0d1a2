// Package docfile reads quote and contract documents from TOML, YAML or JSON
// files for the command line tool.
package docfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diewo77/dashcore/pricing"
	"github.com/diewo77/dashcore/risk"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = goerr.New("unsupported document format")

type Discount struct {
	Kind  string          `toml:"kind" yaml:"kind" json:"kind"`
	Value decimal.Decimal `toml:"value" yaml:"value" json:"value"`
}

type Item struct {
	Quantity  decimal.Decimal `toml:"quantity" yaml:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `toml:"unit_price" yaml:"unit_price" json:"unit_price"`
	Discount  *Discount       `toml:"discount" yaml:"discount" json:"discount"`
	TaxRate   decimal.Decimal `toml:"tax_rate" yaml:"tax_rate" json:"tax_rate"`
}

// Quote is the file form of a pricing document. Amounts are read as exact
// decimals; in TOML they are written as quoted strings.
type Quote struct {
	Reference string          `toml:"reference" yaml:"reference" json:"reference"`
	TaxMode   string          `toml:"tax_mode" yaml:"tax_mode" json:"tax_mode"`
	TaxRate   decimal.Decimal `toml:"tax_rate" yaml:"tax_rate" json:"tax_rate"`
	Discount  *Discount       `toml:"discount" yaml:"discount" json:"discount"`
	Items     []Item          `toml:"items" yaml:"items" json:"items"`
}

// Contract is the file form of a contract to assess. Dates are quoted
// YYYY-MM-DD or RFC 3339 strings.
type Contract struct {
	Reference      string           `toml:"reference" yaml:"reference" json:"reference"`
	Counterparty   string           `toml:"counterparty" yaml:"counterparty" json:"counterparty"`
	Value          *decimal.Decimal `toml:"value" yaml:"value" json:"value"`
	ExpirationDate string           `toml:"expiration_date" yaml:"expiration_date" json:"expiration_date"`
	Compliance     map[string]bool  `toml:"compliance" yaml:"compliance" json:"compliance"`
}

func (d *Discount) discount() (pricing.Discount, error) {
	if d == nil {
		return pricing.NoDiscount(), nil
	}
	kind, err := pricing.ParseDiscountKind(d.Kind)
	if err != nil {
		return pricing.Discount{}, err
	}
	return pricing.NewDiscount(kind, d.Value), nil
}

// Document converts the file to a pricing document.
func (q *Quote) Document() (pricing.Document, error) {
	mode, err := pricing.ParseTaxMode(q.TaxMode)
	if err != nil {
		return pricing.Document{}, err
	}
	disc, err := q.Discount.discount()
	if err != nil {
		return pricing.Document{}, goerr.Wrap(err, "document discount")
	}
	doc := pricing.Document{
		TaxMode:  mode,
		TaxRate:  q.TaxRate,
		Discount: disc,
		Items:    make([]pricing.LineItem, len(q.Items)),
	}
	for i, it := range q.Items {
		d, err := it.Discount.discount()
		if err != nil {
			return pricing.Document{}, goerr.Wrap(err, "item discount", goerr.V(pricing.IndexKey, i))
		}
		doc.Items[i] = pricing.LineItem{
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  d,
			TaxRate:   it.TaxRate,
		}
	}
	return doc, nil
}

// Contract converts the file to a risk contract.
func (c *Contract) Contract() (risk.Contract, error) {
	out := risk.Contract{Counterparty: c.Counterparty, Compliance: c.Compliance}
	if c.Value != nil {
		v := *c.Value
		out.Value = &v
	}
	if c.ExpirationDate != "" {
		t, err := time.Parse(time.DateOnly, c.ExpirationDate)
		if err != nil {
			t, err = time.Parse(time.RFC3339, c.ExpirationDate)
		}
		if err != nil {
			return risk.Contract{}, goerr.Wrap(err, "invalid expiration_date", goerr.V("value", c.ExpirationDate))
		}
		out.ExpirationDate = &t
	}
	return out, nil
}

func LoadQuote(path string) (*Quote, error) {
	var q Quote
	if err := load(path, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func LoadContract(path string) (*Contract, error) {
	var c Contract
	if err := load(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func load(path string, v any) error {
	// #nosec G304 - path is provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read document", goerr.V("path", path))
	}
	if err := Decode(filepath.Ext(path), data, v); err != nil {
		return goerr.Wrap(err, "failed to parse document", goerr.V("path", path))
	}
	return nil
}

// Decode unmarshals data according to a file extension.
func Decode(ext string, data []byte, v any) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".json":
		return json.Unmarshal(data, v)
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "unknown extension", goerr.V("ext", ext))
	}
}

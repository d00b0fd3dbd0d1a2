package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
)

// Violations maps a field path to a message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Translate returns a copy with every code passed through tr.
func (v Violations) Translate(tr func(code string) string) Violations {
	out := make(Violations, len(v))
	for field, code := range v {
		out[field] = tr(code)
	}
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegative(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v[field] = "out_of_range"
	}
}

// Decimal parses a decimal query or form value.
func Decimal(field, raw string, v Violations) decimal.Decimal {
	if strings.TrimSpace(raw) == "" {
		v[field] = "required"
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		v[field] = "invalid_number"
		return decimal.Zero
	}
	return d
}

// FromError builds violations out of the field, index and code values carried
// by a goerr chain. It returns nil when err carries no field.
func FromError(err error) Violations {
	vals := map[string]any{}
	for e := err; e != nil; e = errors.Unwrap(e) {
		var ge *goerr.Error
		if !errors.As(e, &ge) {
			break
		}
		for k, val := range ge.Values() {
			if _, ok := vals[k]; !ok {
				vals[k] = val
			}
		}
		e = ge
	}

	field, _ := vals["field"].(string)
	idx, hasIdx := vals["index"].(int)
	if field == "" && !hasIdx {
		return nil
	}
	code, _ := vals["code"].(string)
	if code == "" {
		code = "invalid"
	}

	switch {
	case hasIdx && field != "":
		field = fmt.Sprintf("items[%d].%s", idx, field)
	case hasIdx:
		field = fmt.Sprintf("items[%d]", idx)
	}
	return Violations{field: code}
}

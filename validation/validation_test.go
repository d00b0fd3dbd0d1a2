package validation

import (
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("ref", "  ", v)
	NonNegative("value", decimal.NewFromInt(-1), v)
	RangeDecimal("rate", decimal.NewFromInt(101), decimal.Zero, decimal.NewFromInt(100), v)
	RangeDecimal("ok", decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(100), v)

	assert.Equal(t, Violations{
		"ref":   "required",
		"value": "must_not_be_negative",
		"rate":  "out_of_range",
	}, v)
}

func TestDecimal(t *testing.T) {
	v := Violations{}
	assert.True(t, Decimal("base", " 12.50 ", v).Equal(decimal.RequireFromString("12.5")))
	Decimal("value", "abc", v)
	Decimal("other", "", v)
	assert.Equal(t, Violations{"value": "invalid_number", "other": "required"}, v)
}

func TestFromError(t *testing.T) {
	base := goerr.New("invalid input")

	inner := goerr.Wrap(base, "bad qty", goerr.V("field", "quantity"), goerr.V("code", "must_not_be_negative"))
	outer := goerr.Wrap(inner, "invalid line item", goerr.V("index", 3))
	assert.Equal(t, Violations{"items[3].quantity": "must_not_be_negative"}, FromError(outer))

	assert.Equal(t, Violations{"discount": "invalid"}, FromError(goerr.Wrap(base, "x", goerr.V("field", "discount"))))
	assert.Equal(t, Violations{"items[1]": "out_of_range"},
		FromError(goerr.Wrap(base, "x", goerr.V("index", 1), goerr.V("code", "out_of_range"))))

	assert.Nil(t, FromError(base))
	assert.Nil(t, FromError(nil))
}

func TestTranslate(t *testing.T) {
	v := Violations{"a": "required"}
	got := v.Translate(strings.ToUpper)
	assert.Equal(t, "REQUIRED", got["a"])
	assert.Equal(t, "required", v["a"])
}

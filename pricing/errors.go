package pricing

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the totals engine
var (
	// ErrInvalidInput is returned before any derived field is computed when a
	// quantity, price, discount or rate is out of its allowed range.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrTaxModeConflict is returned when a per-item document also carries a
	// nominal document tax rate. It is a kind of ErrInvalidInput.
	ErrTaxModeConflict = goerr.Wrap(ErrInvalidInput, "document tax rate set in per-item tax mode")
)

// Context keys for error values
const (
	FieldKey = "field"
	ValueKey = "value"
	IndexKey = "index"
	CodeKey  = "code"
)

// Violation codes attached under CodeKey
const (
	CodeNegative        = "must_not_be_negative"
	CodeOutOfRange      = "out_of_range"
	CodeUnknown         = "unknown_value"
	CodeTaxModeConflict = "tax_mode_conflict"
)

func invalid(field, code, msg string, value any) error {
	return goerr.Wrap(ErrInvalidInput, msg, goerr.V(FieldKey, field), goerr.V(CodeKey, code), goerr.V(ValueKey, value))
}

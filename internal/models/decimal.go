package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Decimal is a decimal.Decimal column stored without loss of precision:
// unconstrained numeric on postgres, text on sqlite (whose numeric affinity
// would coerce values to REAL).
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal { return Decimal{Decimal: d} }

// GormDBDataType implements migrator.GormDataTypeInterface.
func (Decimal) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "numeric"
	}
	return "text"
}

package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric scans a Postgres NUMERIC (selected as ::text) into a Decimal.
// NULL scans as zero, matching how the schema defaults balances and
// spent totals.
type Numeric struct {
	decimal.Decimal
}

func (n *Numeric) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Decimal = decimal.Zero
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("scan numeric %q: %w", v, err)
		}
		n.Decimal = d
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("scan numeric %q: %w", v, err)
		}
		n.Decimal = d
		return nil
	case float64:
		n.Decimal = decimal.NewFromFloat(v)
		return nil
	case int64:
		n.Decimal = decimal.NewFromInt(v)
		return nil
	default:
		return fmt.Errorf("scan numeric: unsupported type %T", src)
	}
}

package bills

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBillNotFound = errors.New("bill not found")

const (
	StatusUpcoming = "upcoming"
	StatusPaid     = "paid"
)

// Bill tracks an obligation through its lifecycle. Status is free text;
// only the transition into "paid" carries engine behavior. The account
// link is optional at creation and only matters at pay time.
type Bill struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	AccountID  *string         `json:"account_id,omitempty"`
	BillerName string          `json:"biller_name"`
	DueDate    time.Time       `json:"due_date"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	Status     string          `json:"status"`
	AutoPay    bool            `json:"auto_pay"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreateInput struct {
	AccountID  *string
	BillerName string
	DueDate    time.Time
	AmountDue  decimal.Decimal
	Status     string
	AutoPay    bool
}

// Patch carries a partial update; nil fields are left untouched so a
// client sending empty values cannot null out existing data.
type Patch struct {
	AccountID  *string
	BillerName *string
	DueDate    *time.Time
	AmountDue  *decimal.Decimal
	Status     *string
	AutoPay    *bool
}

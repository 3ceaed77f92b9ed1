package bills

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestResolvePayment(t *testing.T) {
	linked := "acct-1"
	fromPatch := "acct-2"

	tests := []struct {
		name       string
		prevStatus string
		bill       Bill
		patch      Patch
		want       paymentDecision
	}{
		{
			name:       "upcoming to paid with linked account books",
			prevStatus: StatusUpcoming,
			bill:       Bill{AccountID: &linked, Status: StatusPaid},
			patch:      Patch{Status: strptr(StatusPaid)},
			want:       paymentDecision{bookPayment: true, accountID: "acct-1"},
		},
		{
			name:       "falls back to account supplied in patch",
			prevStatus: StatusUpcoming,
			bill:       Bill{Status: StatusPaid},
			patch:      Patch{Status: strptr(StatusPaid), AccountID: &fromPatch},
			want:       paymentDecision{bookPayment: true, accountID: "acct-2"},
		},
		{
			name:       "already paid is a money no-op",
			prevStatus: StatusPaid,
			bill:       Bill{AccountID: &linked, Status: StatusPaid},
			patch:      Patch{Status: strptr(StatusPaid)},
			want:       paymentDecision{},
		},
		{
			name:       "no account resolvable marks paid with warning",
			prevStatus: StatusUpcoming,
			bill:       Bill{Status: StatusPaid},
			patch:      Patch{Status: strptr(StatusPaid)},
			want:       paymentDecision{paidWithoutPayment: true},
		},
		{
			name:       "other status transitions carry no side effect",
			prevStatus: StatusUpcoming,
			bill:       Bill{AccountID: &linked, Status: "overdue"},
			patch:      Patch{Status: strptr("overdue")},
			want:       paymentDecision{},
		},
		{
			name:       "patch without status books nothing",
			prevStatus: StatusUpcoming,
			bill:       Bill{AccountID: &linked, Status: StatusUpcoming},
			patch:      Patch{AutoPay: boolptr(true)},
			want:       paymentDecision{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePayment(tt.prevStatus, tt.bill, tt.patch)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePaymentIdempotent(t *testing.T) {
	// pay twice: the second transition must not book again
	linked := "acct-1"
	bill := Bill{AccountID: &linked, Status: StatusUpcoming}
	patch := Patch{Status: strptr(StatusPaid)}

	applyPatch(&bill, patch)
	first := resolvePayment(StatusUpcoming, bill, patch)
	assert.True(t, first.bookPayment)

	second := resolvePayment(StatusPaid, bill, patch)
	assert.False(t, second.bookPayment)
	assert.False(t, second.paidWithoutPayment)
}

func TestApplyPatch(t *testing.T) {
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	amt := decimal.RequireFromString("75.50")
	bill := Bill{
		BillerName: "Water Co",
		Status:     StatusUpcoming,
		AmountDue:  decimal.RequireFromString("10.00"),
		AutoPay:    false,
	}

	applyPatch(&bill, Patch{
		AmountDue: &amt,
		DueDate:   &due,
		AutoPay:   boolptr(true),
	})

	assert.Equal(t, "Water Co", bill.BillerName)
	assert.Equal(t, StatusUpcoming, bill.Status)
	assert.True(t, bill.AmountDue.Equal(amt))
	assert.Equal(t, due, bill.DueDate)
	assert.True(t, bill.AutoPay)

	// empty strings in a patch do not wipe stored fields
	applyPatch(&bill, Patch{BillerName: strptr(""), Status: strptr("")})
	assert.Equal(t, "Water Co", bill.BillerName)
	assert.Equal(t, StatusUpcoming, bill.Status)
}

func boolptr(b bool) *bool { return &b }

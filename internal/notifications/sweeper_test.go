package notifications

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbook/finbook-backend/internal/bills"
)

func TestReminderWindowEnd(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 12, 0, time.UTC)
	end := reminderWindowEnd(now)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), end)
}

func TestReminderContent(t *testing.T) {
	b := bills.Bill{
		BillerName: "City Power",
		AmountDue:  decimal.RequireFromString("75.5"),
		DueDate:    time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	title, message := reminderContent(b)
	assert.Equal(t, "Upcoming bill: City Power", title)
	assert.Equal(t, "Your bill 'City Power' of amount 75.50 is due on 2024-03-12.", message)
}

func TestReminderContentIsStableForDedupe(t *testing.T) {
	// the dedupe key is (user, title, scheduled date); two sweeps over the
	// same bill must build identical titles
	b := bills.Bill{BillerName: "ISP", AmountDue: decimal.New(40, 0), DueDate: time.Now()}
	t1, _ := reminderContent(b)
	t2, _ := reminderContent(b)
	assert.Equal(t, t1, t2)
}

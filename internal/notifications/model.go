package notifications

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

const TypeBillReminder = "bill_reminder"

type Notification struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Sent          bool       `json:"sent"`
	CreatedAt     time.Time  `json:"created_at"`
}

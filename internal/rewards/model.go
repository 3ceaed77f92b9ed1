package rewards

import (
	"errors"
	"time"
)

var ErrRewardNotFound = errors.New("reward not found")

// Reward is a loyalty-program membership with a points balance. Bulk
// assignments share a group id so one grant to many users can be traced.
type Reward struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ProgramName   string    `json:"program_name"`
	PointsBalance int64     `json:"points_balance"`
	GroupID       *string   `json:"group_id,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
}

type CreateInput struct {
	ProgramName   string
	PointsBalance int64
	AccountID     *string
}

type UpdateInput struct {
	ProgramName   *string
	PointsBalance *int64
}

type BulkAssignInput struct {
	UserIDs       []string
	ProgramName   string
	PointsBalance int64
}

type BulkAssignSummary struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

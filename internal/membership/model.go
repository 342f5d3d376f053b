package membership

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Membership links a user to a plan for a fixed window. EndDate is computed
// from StartDate plus the plan's duration at creation or renewal time and is
// never recomputed afterwards, even if the plan changes.
type Membership struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	PlanID    int       `db:"plan_id" json:"plan_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type MembershipWithDetails struct {
	Membership
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
	PlanName  string `db:"plan_name" json:"plan_name"`
}

type AssignRequest struct {
	UserID    int    `json:"user_id" binding:"required"`
	PlanID    int    `json:"plan_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
}

type RenewRequest struct {
	PlanID    int    `json:"plan_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
}

// Window computes a membership window from a start date and plan duration.
func Window(start time.Time, durationDays int) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, durationDays)
}

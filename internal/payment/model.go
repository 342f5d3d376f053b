package payment

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status is final. Reconciliation never moves a
// payment out of a terminal status.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// TargetKind discriminates what a payment pays for. A payment points at its
// target through (TargetKind, reference id) rather than a foreign key, so new
// payable entities can be added without schema coupling.
type TargetKind string

const TargetMembership TargetKind = "membership"

func (k TargetKind) Valid() bool {
	return k == TargetMembership
}

// Target is a resolved (kind, id) pair.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   int        `json:"id"`
}

func MembershipTarget(id int) Target {
	return Target{Kind: TargetMembership, ID: id}
}

// Payment records one payment attempt. Contact fields and the amount are
// snapshotted at creation time and never follow later changes to the user or
// plan. TxRef is the only identifier the gateway ever sees.
type Payment struct {
	ID          int        `db:"id" json:"id"`
	UserID      int        `db:"user_id" json:"user_id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone"`
	AmountCents int64      `db:"amount_cents" json:"amount_cents"`
	TxRef       string     `db:"tx_ref" json:"tx_ref"`
	Status      Status     `db:"status" json:"status"`
	PaymentFor  TargetKind `db:"payment_for" json:"payment_for"`
	ReferenceID int        `db:"reference_id" json:"reference_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Payment) Target() Target {
	return Target{Kind: p.PaymentFor, ID: p.ReferenceID}
}

type CreatePaymentRequest struct {
	UserID    int    `json:"user_id" binding:"required"`
	PlanID    int    `json:"plan_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

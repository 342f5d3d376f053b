package plan

import "time"

// Plan is a membership plan. Price is in minor units; DurationDays defines
// the membership window computed at creation or renewal time. Later edits to
// a plan never touch windows already computed from it.
type Plan struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	PriceCents   int64  `json:"price_cents" binding:"required,gte=0"`
	DurationDays int    `json:"duration_days" binding:"required,gte=1"`
	Description  string `json:"description" binding:"required"`
}

type UpdatePlanRequest struct {
	Name         string `json:"name" binding:"required"`
	PriceCents   int64  `json:"price_cents" binding:"required,gte=0"`
	DurationDays int    `json:"duration_days" binding:"required,gte=1"`
	Description  string `json:"description" binding:"required"`
}

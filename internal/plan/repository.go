package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("plan not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name string, priceCents int64, durationDays int, description string) (*Plan, error) {
	p := &Plan{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO plans (name, price_cents, duration_days, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, price_cents, duration_days, description, created_at, updated_at
	`, name, priceCents, durationDays, description).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	p := &Plan{}
	err := r.db.GetContext(ctx, p, `
		SELECT id, name, price_cents, duration_days, description, created_at, updated_at
		FROM plans
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, `
		SELECT id, name, price_cents, duration_days, description, created_at, updated_at
		FROM plans
		ORDER BY price_cents ASC
	`)
	return plans, err
}

func (r *repository) Update(ctx context.Context, id int, name string, priceCents int64, durationDays int, description string) (*Plan, error) {
	p := &Plan{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE plans
		SET name = $1, price_cents = $2, duration_days = $3, description = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id, name, price_cents, duration_days, description, created_at, updated_at
	`, name, priceCents, durationDays, description, id).StructScan(p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *repository) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM plans WHERE name = $1 AND id != $2)
	`, name, excludeID)
	return exists, err
}

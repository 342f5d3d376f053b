package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrMembershipNotFound = errors.New("membership not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID, planID int, start, end time.Time, status Status) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO memberships (user_id, plan_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, plan_id, start_date, end_date, status, created_at, updated_at
	`, userID, planID, start, end, status).StructScan(m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Membership, error) {
	m := &Membership{}
	err := r.db.GetContext(ctx, m, `
		SELECT id, user_id, plan_id, start_date, end_date, status, created_at, updated_at
		FROM memberships
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) GetWithDetails(ctx context.Context, id int) (*MembershipWithDetails, error) {
	m := &MembershipWithDetails{}
	err := r.db.GetContext(ctx, m, `
		SELECT m.id, m.user_id, m.plan_id, m.start_date, m.end_date, m.status, m.created_at, m.updated_at,
		       u.name AS user_name, u.email AS user_email, p.name AS plan_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		JOIN plans p ON p.id = m.plan_id
		WHERE m.id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) ListAll(ctx context.Context) ([]MembershipWithDetails, error) {
	memberships := []MembershipWithDetails{}
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT m.id, m.user_id, m.plan_id, m.start_date, m.end_date, m.status, m.created_at, m.updated_at,
		       u.name AS user_name, u.email AS user_email, p.name AS plan_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		JOIN plans p ON p.id = m.plan_id
		ORDER BY m.created_at DESC
	`)
	return memberships, err
}

func (r *repository) LatestForUser(ctx context.Context, userID int) (*MembershipWithDetails, error) {
	m := &MembershipWithDetails{}
	err := r.db.GetContext(ctx, m, `
		SELECT m.id, m.user_id, m.plan_id, m.start_date, m.end_date, m.status, m.created_at, m.updated_at,
		       u.name AS user_name, u.email AS user_email, p.name AS plan_name
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		JOIN plans p ON p.id = m.plan_id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Renew overwrites the plan and window and forces the membership active,
// whatever its prior status.
func (r *repository) Renew(ctx context.Context, id, planID int, start, end time.Time) (*Membership, error) {
	m := &Membership{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE memberships
		SET plan_id = $1, start_date = $2, end_date = $3, status = 'active', updated_at = NOW()
		WHERE id = $4
		RETURNING id, user_id, plan_id, start_date, end_date, status, created_at, updated_at
	`, planID, start, end, id).StructScan(m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

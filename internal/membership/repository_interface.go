package membership

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID, planID int, start, end time.Time, status Status) (*Membership, error)
	GetByID(ctx context.Context, id int) (*Membership, error)
	GetWithDetails(ctx context.Context, id int) (*MembershipWithDetails, error)
	ListAll(ctx context.Context) ([]MembershipWithDetails, error)
	LatestForUser(ctx context.Context, userID int) (*MembershipWithDetails, error)
	Renew(ctx context.Context, id, planID int, start, end time.Time) (*Membership, error)
	UpdateStatus(ctx context.Context, id int, status Status) error
}

package plan

import "context"

type Repository interface {
	Create(ctx context.Context, name string, priceCents int64, durationDays int, description string) (*Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, id int, name string, priceCents int64, durationDays int, description string) (*Plan, error)
	Delete(ctx context.Context, id int) error
	NameExists(ctx context.Context, name string, excludeID int) (bool, error)
}

package deduction

import "context"

type StoreAPI interface {
	ListByEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Rule, error)
	ListActiveAll(ctx context.Context) ([]Rule, error)
	Get(ctx context.Context, id string) (Rule, error)
	Create(ctx context.Context, rule Rule) (Rule, error)
	Update(ctx context.Context, rule Rule) (Rule, error)
	Delete(ctx context.Context, id string) error
}

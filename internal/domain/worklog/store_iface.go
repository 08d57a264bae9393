package worklog

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	FindByDate(ctx context.Context, employeeID string, date time.Time) (Entry, error)
	List(ctx context.Context, filter Filter) ([]Entry, int, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, id string) error
}

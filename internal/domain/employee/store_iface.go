package employee

import "context"

type StoreAPI interface {
	List(ctx context.Context, includeHidden bool) ([]Profile, error)
	Get(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, profile Profile, passwordHash string) (Profile, error)
	Update(ctx context.Context, profile Profile) (Profile, error)
	SetRole(ctx context.Context, id, role string) (Profile, error)
}

package resource

import "context"

type Repository interface {
	Create(ctx context.Context, r *Resource) error
	Save(ctx context.Context, r *Resource) error
	Delete(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id uint64) (*Resource, error)
	GetByCode(ctx context.Context, code string) (*Resource, error)
	// Locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Resource, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, f Filter) ([]Resource, error)
	Count(ctx context.Context, f Filter) (int64, error)
}

package department

import "context"

type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uint64) (*Department, error)
	GetByDepartmentID(ctx context.Context, departmentID string) (*Department, error)
	// Department administered by the given user, ErrNotFound if none.
	GetByAdminUserID(ctx context.Context, userID uint64) (*Department, error)
	List(ctx context.Context) ([]Department, error)
}

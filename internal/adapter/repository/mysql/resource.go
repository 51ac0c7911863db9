package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-lending/internal/domain/resource"
)

type ResourceRepository struct{ db *gorm.DB }

func NewResourceRepository(db *gorm.DB) *ResourceRepository { return &ResourceRepository{db: db} }

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	return duplicate(r.db.WithContext(ctx).Create(res).Error, resource.ErrDuplicateCode)
}

func (r *ResourceRepository) Save(ctx context.Context, res *resource.Resource) error {
	return duplicate(r.db.WithContext(ctx).Save(res).Error, resource.ErrDuplicateCode)
}

// Delete is a soft delete; loan history keeps pointing at the row.
func (r *ResourceRepository) Delete(ctx context.Context, res *resource.Resource) error {
	return r.db.WithContext(ctx).Delete(res).Error
}

// GetByID also returns deleted resources so loan history still resolves.
func (r *ResourceRepository) GetByID(ctx context.Context, id uint64) (*resource.Resource, error) {
	var out resource.Resource
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&out).Error; err != nil {
		return nil, notFound(err, resource.ErrNotFound)
	}
	return &out, nil
}

func (r *ResourceRepository) GetByCode(ctx context.Context, code string) (*resource.Resource, error) {
	var out resource.Resource
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&out).Error; err != nil {
		return nil, notFound(err, resource.ErrNotFound)
	}
	return &out, nil
}

func (r *ResourceRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*resource.Resource, error) {
	var out resource.Resource
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, resource.ErrNotFound)
	}
	return &out, nil
}

// ExistsByCode also sees deleted resources: codes are never reused.
func (r *ResourceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Unscoped().Model(&resource.Resource{}).Where("code = ?", code))
}

func (r *ResourceRepository) filtered(ctx context.Context, f resource.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&resource.Resource{})
	if f.DepartmentID != 0 {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	return q
}

func (r *ResourceRepository) List(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	var out []resource.Resource
	err := r.filtered(ctx, f).Order("type ASC, name ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *ResourceRepository) Count(ctx context.Context, f resource.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

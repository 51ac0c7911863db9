package mysql

import (
	"context"

	"gorm.io/gorm"

	"campus-lending/internal/domain/department"
)

type DepartmentRepository struct{ db *gorm.DB }

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepartmentRepository) get(ctx context.Context, query string, arg any) (*department.Department, error) {
	var out department.Department
	if err := r.db.WithContext(ctx).Where(query, arg).First(&out).Error; err != nil {
		return nil, notFound(err, department.ErrNotFound)
	}
	return &out, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uint64) (*department.Department, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *DepartmentRepository) GetByDepartmentID(ctx context.Context, departmentID string) (*department.Department, error) {
	return r.get(ctx, "department_id = ?", departmentID)
}

func (r *DepartmentRepository) GetByAdminUserID(ctx context.Context, userID uint64) (*department.Department, error) {
	return r.get(ctx, "admin_user_id = ?", userID)
}

func (r *DepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	var out []department.Department
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error
	return out, err
}

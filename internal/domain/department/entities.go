package department

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("department not found")

// Table: departments
type Department struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	DepartmentID string    `gorm:"column:department_id;size:32;uniqueIndex;not null" json:"department_id"`
	Name         string    `gorm:"column:name;size:150;not null" json:"name"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	AdminUserID  *uint64   `gorm:"column:admin_user_id;uniqueIndex" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string { return "departments" }

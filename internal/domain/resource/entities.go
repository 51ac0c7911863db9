package resource

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateCode = errors.New("resource code already in use")
	ErrUnavailable   = errors.New("resource is not available")
	ErrOnLoan        = errors.New("resource has an open loan")
	ErrInvalid       = errors.New("resource code, type and name are required")
)

// Table: resources
type Resource struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Code         string         `gorm:"column:code;size:32;uniqueIndex;not null" json:"code"`
	Type         string         `gorm:"column:type;size:100;not null;index" json:"type"`
	Name         string         `gorm:"column:name;size:150;not null" json:"name"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	PhotoURL     string         `gorm:"column:photo_url;type:text" json:"photo_url"`
	DepartmentID uint64         `gorm:"column:department_id;not null;index" json:"-"`
	Available    bool           `gorm:"column:available;not null" json:"available"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Resource) TableName() string { return "resources" }

type Filter struct {
	DepartmentID uint64
	Available    *bool
}

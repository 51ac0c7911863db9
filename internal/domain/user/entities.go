package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrDuplicateCode      = errors.New("code already registered")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid code or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidRole        = errors.New("invalid role")
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return r, nil
	}
	return "", ErrInvalidRole
}

// Capability is a single permission checked by a use case before it runs.
type Capability int

const (
	CapRequestLoan Capability = iota + 1
	CapBrowseDepartments
	CapDecideRequests
	CapManageLoans
	CapManageInventory
	CapViewDepartmentStats
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapBrowseDepartments:   true,
		CapDecideRequests:      true,
		CapManageLoans:         true,
		CapManageInventory:     true,
		CapViewDepartmentStats: true,
	},
	RoleProfessor: {
		CapRequestLoan:       true,
		CapBrowseDepartments: true,
	},
	RoleStudent: {
		CapRequestLoan:       true,
		CapBrowseDepartments: true,
	},
}

func (r Role) Can(c Capability) bool { return roleCapabilities[r][c] }

// Borrower reports whether the role borrows resources rather than lending them.
func (r Role) Borrower() bool { return r == RoleProfessor || r == RoleStudent }

// Table: users
type User struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID       string         `gorm:"column:user_id;size:32;uniqueIndex;not null" json:"user_id"`
	Code         string         `gorm:"column:code;size:32;uniqueIndex;not null" json:"code"`
	Email        string         `gorm:"column:email;size:190;uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string         `gorm:"column:last_name;size:150" json:"last_name"`
	Program      string         `gorm:"column:program;size:150" json:"program"`
	SignatureURL string         `gorm:"column:signature_url;size:500" json:"signature_url,omitempty"`
	Role         Role           `gorm:"column:role;size:16;not null" json:"role"`
	PasswordHash string         `gorm:"column:password_hash;size:100;not null" json:"-"`
	Active       bool           `gorm:"column:active;not null" json:"active"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

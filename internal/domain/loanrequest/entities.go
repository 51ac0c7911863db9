package loanrequest

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("loan request not found")
	ErrNotPending    = errors.New("loan request has already been decided")
	ErrInvalidStatus = errors.New("invalid loan request status")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Table: loan_requests
type LoanRequest struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RequestID   string     `gorm:"column:request_id;size:32;uniqueIndex;not null" json:"request_id"`
	RequesterID uint64     `gorm:"column:requester_id;not null;index" json:"-"`
	ResourceID  uint64     `gorm:"column:resource_id;not null;index" json:"-"`
	DueDate     time.Time  `gorm:"column:due_date;type:date;not null" json:"due_date"`
	Status      Status     `gorm:"column:status;size:16;not null;index" json:"status"`
	ContractRef string     `gorm:"column:contract_ref;type:text" json:"contract_ref"`
	DecidedByID *uint64    `gorm:"column:decided_by_id" json:"-"`
	DecidedAt   *time.Time `gorm:"column:decided_at" json:"decided_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// Decide moves a pending request into a terminal status.
func (r *LoanRequest) Decide(to Status, by uint64, at time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	if !to.Terminal() {
		return ErrInvalidStatus
	}
	r.Status = to
	r.DecidedByID = &by
	r.DecidedAt = &at
	return nil
}

type Filter struct {
	DepartmentID uint64
	RequesterID  uint64
	Status       Status
}

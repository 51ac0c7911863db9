package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrInvalidDueDate  = errors.New("new due date must be after the current due date and not in the past")
	ErrDueDateTooSoon  = errors.New("due date does not respect the minimum lead time")
)

type State string

const (
	StateActive   State = "active"
	StateReturned State = "returned"
	StateAll      State = "all"
)

func ParseState(s string) (State, bool) {
	switch st := State(s); st {
	case StateActive, StateReturned, StateAll:
		return st, true
	case "":
		return StateAll, true
	}
	return "", false
}

// Table: loans
type Loan struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID         string     `gorm:"column:loan_id;size:32;uniqueIndex;not null" json:"loan_id"`
	BorrowerID     uint64     `gorm:"column:borrower_id;not null;index" json:"-"`
	ResourceID     uint64     `gorm:"column:resource_id;not null;index:idx_loans_resource_open" json:"-"`
	LoanRequestID  *uint64    `gorm:"column:loan_request_id" json:"-"`
	LoanDate       time.Time  `gorm:"column:loan_date;not null" json:"loan_date"`
	DueDate        time.Time  `gorm:"column:due_date;type:date;not null;index" json:"due_date"`
	Returned       bool       `gorm:"column:returned;not null;index:idx_loans_resource_open" json:"returned"`
	ReturnedAt     *time.Time `gorm:"column:returned_at" json:"returned_at"`
	ContractRef    string     `gorm:"column:contract_ref;type:text" json:"contract_ref"`
	ExtendedFromID *uint64    `gorm:"column:extended_from_id" json:"-"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) Open() bool { return !l.Returned }

// Close marks the loan returned. Returning twice is reported, never applied.
func (l *Loan) Close(at time.Time) error {
	if l.Returned {
		return ErrAlreadyReturned
	}
	l.Returned = true
	l.ReturnedAt = &at
	return nil
}

// Overdue reports whether an open loan is past its due date on the given day.
func (l *Loan) Overdue(today time.Time) bool { return l.Open() && l.DueDate.Before(today) }

type Filter struct {
	DepartmentID uint64
	BorrowerID   uint64
	ResourceID   uint64
	State        State
	// DueBefore restricts to loans due strictly before the given date.
	DueBefore *time.Time
	Limit     int
}

// ResourceUsage is the number of loans recorded for one resource.
type ResourceUsage struct {
	ResourceID uint64
	Loans      int64
}

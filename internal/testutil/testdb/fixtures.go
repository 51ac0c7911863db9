package testdb

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
	"campus-lending/pkg/id"
)

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func User(t *testing.T, db *gorm.DB, role user.Role, code string) *user.User {
	t.Helper()
	u := &user.User{
		UserID:       id.NewID32(),
		Code:         code,
		Email:        code + "@uni.edu",
		FirstName:    "First" + code,
		LastName:     "Last",
		Program:      "Engineering",
		Role:         role,
		PasswordHash: "x",
		Active:       true,
	}
	mustCreate(t, db, u)
	return u
}

// Department creates a department administered by admin (may be nil).
func Department(t *testing.T, db *gorm.DB, name string, admin *user.User) *department.Department {
	t.Helper()
	d := &department.Department{DepartmentID: id.NewID32(), Name: name}
	if admin != nil {
		d.AdminUserID = &admin.ID
	}
	mustCreate(t, db, d)
	return d
}

func Resource(t *testing.T, db *gorm.DB, dept *department.Department, code string, available bool) *resource.Resource {
	t.Helper()
	r := &resource.Resource{
		Code:         code,
		Type:         "equipment",
		Name:         "Resource " + code,
		DepartmentID: dept.ID,
		Available:    available,
	}
	mustCreate(t, db, r)
	return r
}

func Loan(t *testing.T, db *gorm.DB, borrower *user.User, res *resource.Resource, due time.Time, returned bool) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		LoanID:     id.NewID32(),
		BorrowerID: borrower.ID,
		ResourceID: res.ID,
		LoanDate:   due.AddDate(0, 0, -7),
		DueDate:    due,
		Returned:   returned,
	}
	if returned {
		at := due
		l.ReturnedAt = &at
	}
	mustCreate(t, db, l)
	return l
}

// Date builds a UTC midnight date.
func Date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// Package contract describes the loan contract artifact: the data printed on
// it, the renderer producing the PDF and the store keeping it.
package contract

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("contract not found")

type Party struct {
	FullName string
	Code     string
	Email    string
	Program  string
	// SignatureURL points at a scanned signature; empty leaves a blank line.
	SignatureURL string
}

type Data struct {
	Number         string
	IssuedAt       time.Time
	Borrower       Party
	Administrator  *Party
	DepartmentName string
	ResourceCode   string
	ResourceName   string
	ResourceType   string
	LoanDate       time.Time
	DueDate        time.Time
	// ExtendsLoanID is set when the contract replaces an extended loan.
	ExtendsLoanID string
	SealURL       string
}

type Renderer interface {
	Render(ctx context.Context, d Data) ([]byte, error)
}

type Store interface {
	// Put stores the PDF under name and returns the reference to keep.
	Put(ctx context.Context, name string, pdf []byte) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	// Delete removes a stored contract. A missing ref is not an error.
	Delete(ctx context.Context, ref string) error
}

package lending

import (
	"time"

	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
)

type RequestDTO struct {
	RequestID     string     `json:"request_id"`
	Status        string     `json:"status"`
	ResourceCode  string     `json:"resource_code"`
	ResourceName  string     `json:"resource_name"`
	RequesterCode string     `json:"requester_code"`
	RequesterName string     `json:"requester_name"`
	DueDate       string     `json:"due_date"`
	HasContract   bool       `json:"has_contract"`
	CreatedAt     time.Time  `json:"created_at"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
}

type LoanDTO struct {
	LoanID       string     `json:"loan_id"`
	ResourceCode string     `json:"resource_code"`
	ResourceName string     `json:"resource_name"`
	BorrowerCode string     `json:"borrower_code"`
	BorrowerName string     `json:"borrower_name"`
	LoanDate     time.Time  `json:"loan_date"`
	DueDate      string     `json:"due_date"`
	Returned     bool       `json:"returned"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	Overdue      bool       `json:"overdue"`
	HasContract  bool       `json:"has_contract"`
	ExtendedFrom string     `json:"extended_from,omitempty"`
}

func requestDTO(req *loanrequest.LoanRequest, res *resource.Resource, requester *user.User) *RequestDTO {
	return &RequestDTO{
		RequestID:     req.RequestID,
		Status:        string(req.Status),
		ResourceCode:  res.Code,
		ResourceName:  res.Name,
		RequesterCode: requester.Code,
		RequesterName: requester.FullName(),
		DueDate:       fmtDate(req.DueDate),
		HasContract:   req.ContractRef != "",
		CreatedAt:     req.CreatedAt,
		DecidedAt:     req.DecidedAt,
	}
}

func loanDTO(l *loan.Loan, res *resource.Resource, borrower *user.User, extendedFrom string, today time.Time) *LoanDTO {
	return &LoanDTO{
		LoanID:       l.LoanID,
		ResourceCode: res.Code,
		ResourceName: res.Name,
		BorrowerCode: borrower.Code,
		BorrowerName: borrower.FullName(),
		LoanDate:     l.LoanDate,
		DueDate:      fmtDate(l.DueDate),
		Returned:     l.Returned,
		ReturnedAt:   l.ReturnedAt,
		Overdue:      l.Overdue(today),
		HasContract:  l.ContractRef != "",
		ExtendedFrom: extendedFrom,
	}
}

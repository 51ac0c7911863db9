package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanSummary struct {
	LoanID       string    `json:"loan_id"`
	ResourceCode string    `json:"resource_code"`
	ResourceName string    `json:"resource_name"`
	BorrowerName string    `json:"borrower_name"`
	LoanDate     time.Time `json:"loan_date"`
	DueDate      string    `json:"due_date"`
	Returned     bool      `json:"returned"`
	Overdue      bool      `json:"overdue"`
}

type ResourceUsage struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Loans int64  `json:"loans"`
}

type AdminDashboard struct {
	Department         string `json:"department"`
	TotalResources     int64  `json:"total_resources"`
	AvailableResources int64  `json:"available_resources"`
	ActiveLoans        int64  `json:"active_loans"`
	OverdueLoans       int64  `json:"overdue_loans"`
	ReturnedLoans      int64  `json:"returned_loans"`
	PendingRequests    int64  `json:"pending_requests"`
	// Utilization is the share of resources currently lent, in percent.
	Utilization  decimal.Decimal `json:"utilization"`
	TopResources []ResourceUsage `json:"top_resources"`
	RecentLoans  []LoanSummary   `json:"recent_loans"`
}

type BorrowerDashboard struct {
	ActiveLoans     int64         `json:"active_loans"`
	OverdueLoans    int64         `json:"overdue_loans"`
	ReturnedLoans   int64         `json:"returned_loans"`
	PendingRequests int64         `json:"pending_requests"`
	Loans           []LoanSummary `json:"loans"`
}

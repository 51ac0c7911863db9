package uowmock

import (
	"context"
	"errors"
	"testing"

	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/testutil/loanmock"
	"campus-lending/internal/testutil/notificationmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	notes := &notificationmock.Repo{}
	repos := uow.Repos{Loans: loans, Notifications: notes}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Notifications != notes {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinRequestTx(ctx, "RQ-X", func(uow.Repos, *loanrequest.LoanRequest) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinRequestTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_WithinLoanTx(t *testing.T) {
	ctx := context.Background()
	lock := &loan.Loan{ID: 7, LoanID: "LN-7"}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if loanID != "LN-7" {
				t.Fatalf("WithinLoanTx: loanID mismatch, got %s", loanID)
			}
			return lock, nil
		},
	}
	m := Passthrough(uow.Repos{Loans: loans})

	innerCalled := false
	err := m.WithinLoanTx(ctx, "LN-7", func(r uow.Repos, l *loan.Loan) error {
		innerCalled = true
		if r.Loans != loans {
			t.Fatalf("WithinLoanTx: repos not forwarded")
		}
		if l != lock {
			t.Fatalf("WithinLoanTx: loan not forwarded correctly: %+v", l)
		}
		return nil
	})
	if err != nil || !innerCalled {
		t.Fatalf("WithinLoanTx: err=%v called=%v", err, innerCalled)
	}

	// lock failure stops before the body
	m = Passthrough(uow.Repos{Loans: &loanmock.Repo{}})
	err = m.WithinLoanTx(ctx, "LN-7", func(uow.Repos, *loan.Loan) error {
		t.Fatalf("body must not run")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WithinLoanTx: want context.Canceled, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinLoanTx(func(context.Context, string, func(uow.Repos, *loan.Loan) error) error { return nil }).
		WithWithinRequestTx(func(context.Context, string, func(uow.Repos, *loanrequest.LoanRequest) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinLoanTxFn == nil || m.WithinRequestTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinLoanTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}

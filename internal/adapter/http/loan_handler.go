package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/lending"
)

type LoanHandler struct {
	m   *lending.Manager
	log *zap.Logger
}

func NewLoanHandler(m *lending.Manager, log *zap.Logger) *LoanHandler {
	return &LoanHandler{m: m, log: log}
}

type createLoanReq struct {
	BorrowerCode string `json:"borrower_code" validate:"required,code"`
	ResourceCode string `json:"resource_code" validate:"required,code"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type extendReq struct {
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// CreateLoan lends a resource without a prior request.
func (h *LoanHandler) CreateLoan(c echo.Context, p user.Principal) error {
	var req createLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.m.CreateLoan(c.Request().Context(), p, req.BorrowerCode, req.ResourceCode, parseDate(req.DueDate))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// List accepts ?state=active|returned|all, defaulting to all.
func (h *LoanHandler) List(c echo.Context, p user.Principal) error {
	state, ok := loan.ParseState(strings.ToLower(strings.TrimSpace(c.QueryParam("state"))))
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "state must be one of: active, returned, all"})
	}
	out, err := h.m.ListLoans(c.Request().Context(), p, state)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context, p user.Principal) error {
	dto, err := h.m.GetLoan(c.Request().Context(), p, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Return(c echo.Context, p user.Principal) error {
	dto, err := h.m.ReturnLoan(c.Request().Context(), p, c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Extend(c echo.Context, p user.Principal) error {
	var req extendReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.m.Extend(c.Request().Context(), p, c.Param("loan_id"), parseDate(req.DueDate))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Contract streams the loan's PDF contract.
func (h *LoanHandler) Contract(c echo.Context, p user.Principal) error {
	loanID := c.Param("loan_id")
	pdf, err := h.m.Contract(c.Request().Context(), p, loanID)
	if err != nil {
		return fail(c, h.log, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="loan_contract_`+loanID+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

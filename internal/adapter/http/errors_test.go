package http

import (
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{user.ErrForbidden, stdhttp.StatusForbidden},
		{loan.ErrNotFound, stdhttp.StatusNotFound},
		{contract.ErrNotFound, stdhttp.StatusNotFound},
		{fmt.Errorf("%w: 1 open loan(s)", resource.ErrUnavailable), stdhttp.StatusConflict},
		{loanrequest.ErrNotPending, stdhttp.StatusConflict},
		{loan.ErrAlreadyReturned, stdhttp.StatusConflict},
		{user.ErrDuplicateEmail, stdhttp.StatusConflict},
		{fmt.Errorf("%w: earliest allowed is 2025-05-06", loan.ErrDueDateTooSoon), stdhttp.StatusUnprocessableEntity},
		{loan.ErrInvalidDueDate, stdhttp.StatusUnprocessableEntity},
		{fmt.Errorf("%w: X cannot borrow", user.ErrInvalidRole), stdhttp.StatusUnprocessableEntity},
		{loanrequest.ErrInvalidStatus, stdhttp.StatusBadRequest},
		{user.ErrInvalidCredentials, stdhttp.StatusUnauthorized},
		{auth.ErrExpiredToken, stdhttp.StatusUnauthorized},
		{errors.New("deadlock found"), stdhttp.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestFail(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodPost, "/requests/x/approve", nil), rec)
	require.NoError(t, fail(c, log, fmt.Errorf("%w: 1 open loan(s)", resource.ErrUnavailable)))
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "resource is not available: 1 open loan(s)", er.Error)
	assert.Zero(t, logs.Len())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(stdhttp.MethodPost, "/requests/x/approve", nil), rec)
	require.NoError(t, fail(c, log, errors.New("dial tcp 10.0.0.5:3306: refused")))
	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "10.0.0.5"))
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestDecode(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	call := func(body string) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		var r createLoanReq
		ok, err := decode(e.NewContext(req, rec), &r)
		require.NoError(t, err)
		return rec, ok
	}

	rec, ok := call(`{"borrower_code":`)
	assert.False(t, ok)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec, ok = call(`{"borrower_code":"2019001","resource_code":"OSC-01"}`)
	assert.False(t, ok)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er))
	assert.Equal(t, "validation failed", er.Error)
	assert.True(t, containsFieldMsg(er.Details, "due_date", "is required"), er.Details)

	_, ok = call(`{"borrower_code":"2019001","resource_code":"OSC-01","due_date":"2025-05-10"}`)
	assert.True(t, ok)
}

func TestWithPrincipal_RequiresAuth(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/me", nil), rec)

	called := false
	h := withPrincipal(func(echo.Context, user.Principal) error { called = true; return nil })
	require.NoError(t, h(c))
	assert.False(t, called)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
)

type authFn func(ctx context.Context, token string) (user.Principal, error)

func (f authFn) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	return f(ctx, token)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def":   "abc.def",
		"bearer  abc.def ": "abc.def",
		"Basic abc":        "",
		"abc.def":          "",
		"":                 "",
	}
	for header, want := range cases {
		assert.Equal(t, want, bearerToken(header), header)
	}
}

func TestAuth(t *testing.T) {
	student := user.Principal{UserID: 3, PublicID: testUserID, Role: user.RoleStudent}
	a := authFn(func(_ context.Context, token string) (user.Principal, error) {
		switch token {
		case "good":
			return student, nil
		case "old":
			return user.Principal{}, auth.ErrExpiredToken
		case "boom":
			return user.Principal{}, errors.New("db down")
		}
		return user.Principal{}, auth.ErrInvalidToken
	})
	core, logs := observer.New(zap.InfoLevel)

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.String(http.StatusOK, p.PublicID)
	}, Auth(a, zap.New(core)))

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := call("Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUserID, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer nope").Code)

	rec = call("Bearer old")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")

	rec = call("Bearer boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
	assert.Equal(t, 1, logs.FilterMessage("session validation failed").Len())
}

func TestPrincipalFrom_Empty(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := PrincipalFrom(c)
	assert.False(t, ok)

	SetPrincipal(c, user.Principal{})
	_, ok = PrincipalFrom(c)
	assert.False(t, ok, "zero principal is not authenticated")
}

package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/account"
)

type AuthHandler struct {
	uc  *account.Usecase
	log *zap.Logger
}

func NewAuthHandler(uc *account.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

type registerReq struct {
	Code            string `json:"code" validate:"required,code"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Program         string `json:"program" validate:"max=150"`
	SignatureURL    string `json:"signature_url" validate:"omitempty,url,max=500"`
	Role            string `json:"role" validate:"required,oneof=student professor"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), account.RegisterInput(req))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type loginReq struct {
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	session, err := h.uc.Login(c.Request().Context(), req.Code, req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Me(c echo.Context, p user.Principal) error {
	dto, err := h.uc.Me(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

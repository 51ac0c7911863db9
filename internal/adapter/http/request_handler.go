package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/lending"
)

// RequestHandler covers submitting and deciding loan requests.
type RequestHandler struct {
	m   *lending.Manager
	log *zap.Logger
}

func NewRequestHandler(m *lending.Manager, log *zap.Logger) *RequestHandler {
	return &RequestHandler{m: m, log: log}
}

type submitReq struct {
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// Submit files a request for the resource in the path.
func (h *RequestHandler) Submit(c echo.Context, p user.Principal) error {
	var req submitReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.m.SubmitRequest(c.Request().Context(), p, c.Param("code"), parseDate(req.DueDate))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequestHandler) List(c echo.Context, p user.Principal) error {
	out, err := h.m.ListRequests(c.Request().Context(), p, strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequestHandler) Approve(c echo.Context, p user.Principal) error {
	dto, err := h.m.Approve(c.Request().Context(), p, c.Param("request_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequestHandler) Reject(c echo.Context, p user.Principal) error {
	dto, err := h.m.Reject(c.Request().Context(), p, c.Param("request_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/notification"
)

type NotificationHandler struct {
	uc  *notification.Usecase
	log *zap.Logger
}

func NewNotificationHandler(uc *notification.Usecase, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// List accepts ?unread=true and ?limit=N.
func (h *NotificationHandler) List(c echo.Context, p user.Principal) error {
	unread, _ := strconv.ParseBool(c.QueryParam("unread"))
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}
	out, err := h.uc.List(c.Request().Context(), p, unread, limit)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) UnreadCount(c echo.Context, p user.Principal) error {
	n, err := h.uc.UnreadCount(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": n})
}

func (h *NotificationHandler) MarkRead(c echo.Context, p user.Principal) error {
	if err := h.uc.MarkRead(c.Request().Context(), p, c.Param("notification_id")); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context, p user.Principal) error {
	n, err := h.uc.MarkAllRead(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}

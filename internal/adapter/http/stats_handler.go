package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/stats"
)

type StatsHandler struct {
	uc  *stats.Usecase
	log *zap.Logger
}

func NewStatsHandler(uc *stats.Usecase, log *zap.Logger) *StatsHandler {
	return &StatsHandler{uc: uc, log: log}
}

// Dashboard returns the department dashboard to administrators and the
// personal one to borrowers.
func (h *StatsHandler) Dashboard(c echo.Context, p user.Principal) error {
	var (
		out any
		err error
	)
	if p.Can(user.CapViewDepartmentStats) {
		out, err = h.uc.Admin(c.Request().Context(), p)
	} else {
		out, err = h.uc.Borrower(c.Request().Context(), p)
	}
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

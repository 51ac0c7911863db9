package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campus-lending/internal/domain/user"
	"campus-lending/internal/usecase/inventory"
)

// CatalogHandler serves the public catalog and the admin inventory.
type CatalogHandler struct {
	uc  *inventory.Usecase
	log *zap.Logger
}

func NewCatalogHandler(uc *inventory.Usecase, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

type resourceReq struct {
	Code        string `json:"code" validate:"required,code"`
	Type        string `json:"type" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
}

func (h *CatalogHandler) Departments(c echo.Context, p user.Principal) error {
	out, err := h.uc.Departments(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) DepartmentResources(c echo.Context, p user.Principal) error {
	out, err := h.uc.Catalog(c.Request().Context(), p, c.Param("department_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Resource(c echo.Context, p user.Principal) error {
	out, err := h.uc.Get(c.Request().Context(), p, c.Param("code"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Inventory(c echo.Context, p user.Principal) error {
	out, err := h.uc.Inventory(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Unavailable(c echo.Context, p user.Principal) error {
	out, err := h.uc.Unavailable(c.Request().Context(), p)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Add(c echo.Context, p user.Principal) error {
	var req resourceReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Add(c.Request().Context(), p, inventory.ResourceInput(req))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CatalogHandler) Update(c echo.Context, p user.Principal) error {
	var req resourceReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), p, c.Param("code"), inventory.ResourceInput(req))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Delete(c echo.Context, p user.Principal) error {
	if err := h.uc.Delete(c.Request().Context(), p, c.Param("code")); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmolina/building-table-reservation/internal/middleware"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/tenant"
)

// TableStore and TurnStore expose the building's reference data.
type TableStore interface {
	List(ctx context.Context, building string) ([]model.Table, error)
}
type TurnStore interface {
	List(ctx context.Context, building string) ([]model.Turn, error)
}

// BrowseHandler serves the read-only reference endpoints: tables and turns
// of a building, and the public list of known buildings.
type BrowseHandler struct {
	Tables   TableStore
	Turns    TurnStore
	Registry *tenant.Registry
}

func NewBrowseHandler(tables TableStore, turns TurnStore, reg *tenant.Registry) *BrowseHandler {
	if tables == nil || turns == nil || reg == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{Tables: tables, Turns: turns, Registry: reg}
}

// GetTables handles GET /:building/api/tables.
func (h *BrowseHandler) GetTables(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tables, err := h.Tables.List(ctx, t.ID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// GetTurns handles GET /:building/api/turns.
func (h *BrowseHandler) GetTurns(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	turns, err := h.Turns.List(ctx, t.ID)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, turns)
}

// GetBuildings handles GET /api/buildings.  Public: it only reveals the
// configured building identifiers, nothing tenant-owned.
func (h *BrowseHandler) GetBuildings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Registry.IDs())
}

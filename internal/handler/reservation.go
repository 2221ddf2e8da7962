package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/cache"
	"github.com/dmolina/building-table-reservation/internal/logger"
	"github.com/dmolina/building-table-reservation/internal/metrics"
	"github.com/dmolina/building-table-reservation/internal/middleware"
	"github.com/dmolina/building-table-reservation/internal/model"
	"github.com/dmolina/building-table-reservation/internal/queue"
	"github.com/dmolina/building-table-reservation/internal/repository"
)

// ReservationStore is the reservation ledger as seen by the HTTP layer.
type ReservationStore interface {
	List(ctx context.Context, building string) ([]model.Reservation, error)
	Create(ctx context.Context, building, username string, tableID, turnID int64, date string) (model.Reservation, error)
	Delete(ctx context.Context, building string, id int64) error
}

// PublishFunc sends a domain event.  Publishing is best-effort: a failure
// is logged and the request still succeeds.
type PublishFunc func(ctx context.Context, event queue.ReservationEvent) error

// ReservationHandler serves the reservation endpoints.  Listings go
// through the per-building cache; every successful mutation invalidates
// that building's entry before the response is written, so a client that
// lists right after a write sees its own write.
type ReservationHandler struct {
	Store   ReservationStore
	Cache   *cache.Listing
	Publish PublishFunc // may be nil when no broker is configured
}

func NewReservationHandler(store ReservationStore, listingCache *cache.Listing, publish PublishFunc) *ReservationHandler {
	if store == nil || listingCache == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Store: store, Cache: listingCache, Publish: publish}
}

type createReservationReq struct {
	TableID int64  `json:"tableId"`
	TurnID  int64  `json:"turnId"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// List handles GET /:building/api/reservations.  Cache hits are served as
// stored; misses read the ledger and refresh the entry.
func (h *ReservationHandler) List(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if body, hit := h.Cache.Get(ctx, t.ID); hit {
		c.Response().Header().Set("X-Cache", "HIT")
		return c.JSONBlob(http.StatusOK, body)
	}

	listing, err := h.Store.List(ctx, t.ID)
	if err != nil {
		return storeError(c, err)
	}
	body, err := json.Marshal(listing)
	if err != nil {
		return storeError(c, err)
	}
	h.Cache.Put(ctx, t.ID, body)
	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSONBlob(http.StatusOK, body)
}

// Create handles POST /:building/api/reservations.  The reservation is
// made for the authenticated user; the slot must reference a table and
// turn of the addressed building and be free on the requested date.
func (h *ReservationHandler) Create(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableID <= 0 || req.TurnID <= 0 || req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tableId, turnId and date are required"})
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	res, err := h.Store.Create(ctx, t.ID, id.Username, req.TableID, req.TurnID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnknownTable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown table"})
		case errors.Is(err, repository.ErrUnknownTurn):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown turn"})
		case errors.Is(err, repository.ErrSlotTaken):
			metrics.CountConflict()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table already reserved for that turn"})
		}
		return storeError(c, err)
	}

	// Invalidation must complete before the success response: a successful
	// create guarantees the next listing reflects it.
	h.Cache.Invalidate(ctx, t.ID)
	h.publish(c, queue.ReservationEvent{
		Action:        queue.ActionCreated,
		Building:      t.ID,
		ReservationID: res.ID,
		TableID:       res.TableID,
		TurnID:        res.TurnID,
		Date:          res.Date,
		Username:      res.Username,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, res)
}

// Delete handles DELETE /:building/api/reservations/:id.  Admin-only; the
// route wiring enforces role and building before this runs.
func (h *ReservationHandler) Delete(c echo.Context) error {
	t, ok := middleware.CurrentBuilding(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown building"})
	}
	resID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || resID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Store.Delete(ctx, t.ID, resID); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return storeError(c, err)
	}

	h.Cache.Invalidate(ctx, t.ID)
	h.publish(c, queue.ReservationEvent{
		Action:        queue.ActionCancelled,
		Building:      t.ID,
		ReservationID: resID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

func (h *ReservationHandler) publish(c echo.Context, ev queue.ReservationEvent) {
	if h.Publish == nil {
		return
	}
	if err := h.Publish(c.Request().Context(), ev); err != nil {
		logger.FromEcho(c).Warn("publish reservation event failed",
			zap.String("action", ev.Action), zap.Error(err))
	}
}
